package models

import (
	"fmt"
	"strings"
	"time"
)

// Frequency describes how often a habit is meant to be practiced
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

// Frequencies lists every supported frequency in display order
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom}

// ParseFrequency converts a string to a Frequency. An empty string maps to daily.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FrequencyDaily, nil
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
		return f, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// Habit represents a recurring practice to track
type Habit struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TargetDays   int       `json:"target_days"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	Category     string    `json:"category,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Color        string    `json:"color,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Frequency    Frequency `json:"frequency,omitempty"`
	ReminderTime string    `json:"reminder_time,omitempty"` // HH:MM format
}

// HabitLog represents a single day's completion record of a habit
type HabitLog struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Day       string    `json:"day"` // YYYY-MM-DD format
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HabitWithLogs groups a habit with every log it owns
type HabitWithLogs struct {
	Habit Habit      `json:"habit"`
	Logs  []HabitLog `json:"logs"`
}
