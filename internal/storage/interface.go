package storage

import (
	"errors"

	"github.com/julianstephens/habithub/internal/models"
)

var (
	// ErrNotFound is returned when a habit or log does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateLog is returned when a log already exists for the (habit, day) pair
	ErrDuplicateLog = errors.New("a log already exists for this habit and day")
	// ErrDuplicateID is returned when an import batch repeats a habit or log ID
	ErrDuplicateID = errors.New("duplicate id in import batch")
	// ErrNotInitialized is returned by Load when the storage has never been initialized
	ErrNotInitialized = errors.New("storage not initialized")
)

// Provider is the durable store for habits and their daily logs.
//
// Every write method validates its input before touching storage. Days are
// YYYY-MM-DD keys; range bounds are inclusive and an empty bound is open.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetAllHabits(activeOnly bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error

	// Habit logs
	AddHabitLog(models.HabitLog) error
	GetHabitLog(habitID, day string) (models.HabitLog, error)
	GetHabitLogs(habitID, startDay, endDay string) ([]models.HabitLog, error)
	GetAllHabitLogs() ([]models.HabitLog, error)
	UpdateHabitLog(models.HabitLog) error

	// ImportHabits commits habits with their logs atomically: all or nothing
	ImportHabits([]models.HabitWithLogs) error

	// Utils
	GetConfigPath() string
}
