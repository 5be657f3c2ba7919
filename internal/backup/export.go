package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/logger"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/storage"
	"github.com/julianstephens/habithub/internal/utils"
)

// Format is an export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json" or "csv"
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q (use json or csv)", s)
}

// FormatFromPath infers the format from a file name, ignoring a trailing .zst
func FormatFromPath(path string) Format {
	name := strings.TrimSuffix(strings.ToLower(path), constants.CompressedFileExt)
	if filepath.Ext(name) == ".csv" {
		return FormatCSV
	}
	return FormatJSON
}

var csvHeader = []string{"Habit Name", "Target Days", "Active", "Created Date", "Completion Date", "Completed"}

type exportLog struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	IsCompleted bool   `json:"is_completed"`
}

type exportHabit struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	TargetDays   int         `json:"target_days"`
	IsActive     bool        `json:"is_active"`
	CreatedDate  string      `json:"created_date"`
	Category     string      `json:"category,omitempty"`
	Icon         string      `json:"icon,omitempty"`
	Color        string      `json:"color,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	Frequency    string      `json:"frequency,omitempty"`
	ReminderTime string      `json:"reminder_time,omitempty"`
	Logs         []exportLog `json:"logs"`
}

type exportDocument struct {
	ExportDate string        `json:"export_date"`
	Version    string        `json:"version"`
	Habits     []exportHabit `json:"habits"`
}

// Service exports the store to JSON or CSV and restores JSON exports
type Service struct {
	store storage.Provider
	now   utils.Clock
	loc   *time.Location
	log   *log.Logger
}

func NewService(store storage.Provider, clock utils.Clock, loc *time.Location) *Service {
	if clock == nil {
		clock = utils.SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, now: clock, loc: loc, log: logger.Component("backup")}
}

// snapshot reads every habit, newest first, with its logs ordered by day descending
func (s *Service) snapshot() ([]models.HabitWithLogs, error) {
	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}

	out := make([]models.HabitWithLogs, 0, len(habits))
	for _, h := range habits {
		logs, err := s.store.GetHabitLogs(h.ID, "", "")
		if err != nil {
			return nil, fmt.Errorf("failed to read logs for %q: %w", h.Name, err)
		}
		for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
			logs[i], logs[j] = logs[j], logs[i]
		}
		out = append(out, models.HabitWithLogs{Habit: h, Logs: logs})
	}
	return out, nil
}

func (s *Service) formatTime(t time.Time) string {
	return t.In(s.loc).Format(time.RFC3339)
}

// formatDay renders a day key as the local start of that day
func (s *Service) formatDay(day string) string {
	t, err := utils.ParseDayInLocation(day, s.loc)
	if err != nil {
		return day
	}
	return t.Format(time.RFC3339)
}

// ExportJSON writes every habit and log as an indented JSON document
func (s *Service) ExportJSON(w io.Writer) error {
	items, err := s.snapshot()
	if err != nil {
		return err
	}

	doc := exportDocument{
		ExportDate: s.formatTime(s.now()),
		Version:    constants.ExportVersion,
		Habits:     make([]exportHabit, 0, len(items)),
	}
	logCount := 0
	for _, item := range items {
		h := item.Habit
		eh := exportHabit{
			ID:           h.ID,
			Name:         h.Name,
			TargetDays:   h.TargetDays,
			IsActive:     h.Active,
			CreatedDate:  s.formatTime(h.CreatedAt),
			Category:     h.Category,
			Icon:         h.Icon,
			Color:        h.Color,
			Notes:        h.Notes,
			Frequency:    string(h.Frequency),
			ReminderTime: h.ReminderTime,
			Logs:         make([]exportLog, 0, len(item.Logs)),
		}
		for _, l := range item.Logs {
			eh.Logs = append(eh.Logs, exportLog{ID: l.ID, Date: s.formatDay(l.Day), IsCompleted: l.Completed})
		}
		logCount += len(item.Logs)
		doc.Habits = append(doc.Habits, eh)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	s.log.Info("exported json", "habits", len(doc.Habits), "logs", logCount)
	return nil
}

// ExportCSV writes one row per habit log. A habit without logs gets a single
// row with empty completion fields.
func (s *Service) ExportCSV(w io.Writer) error {
	items, err := s.snapshot()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, item := range items {
		h := item.Habit
		prefix := []string{h.Name, strconv.Itoa(h.TargetDays), strconv.FormatBool(h.Active), s.formatTime(h.CreatedAt)}
		if len(item.Logs) == 0 {
			if err := cw.Write(append(prefix, "", "")); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
			continue
		}
		for _, l := range item.Logs {
			row := append(append([]string{}, prefix...), s.formatDay(l.Day), strconv.FormatBool(l.Completed))
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	s.log.Info("exported csv", "habits", len(items))
	return nil
}

// Export writes the store in the given format
func (s *Service) Export(w io.Writer, format Format) error {
	switch format {
	case FormatCSV:
		return s.ExportCSV(w)
	case FormatJSON:
		return s.ExportJSON(w)
	}
	return fmt.Errorf("unsupported format %q", format)
}
