package today

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/habithub/internal/logger"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/storage"
	"github.com/julianstephens/habithub/internal/utils"
)

// Feedback receives a signal after every toggle
type Feedback interface {
	// Success fires when a habit becomes completed
	Success()
	// LightImpact fires when a habit is marked not completed
	LightImpact()
	// Failure fires when the toggle could not be persisted
	Failure(err error)
}

// NopFeedback ignores every signal
type NopFeedback struct{}

func (NopFeedback) Success()      {}
func (NopFeedback) LightImpact()  {}
func (NopFeedback) Failure(error) {}

// Entry pairs an active habit with its log for today. Log.ID is empty when
// the log has not been created yet.
type Entry struct {
	Habit models.Habit
	Log   models.HabitLog
}

// View is the list of today's habits
type View struct {
	mu       sync.Mutex
	store    storage.Provider
	feedback Feedback
	now      utils.Clock
	loc      *time.Location
	log      *log.Logger
	entries  []Entry
}

func NewView(store storage.Provider, feedback Feedback, clock utils.Clock, loc *time.Location) *View {
	if feedback == nil {
		feedback = NopFeedback{}
	}
	if clock == nil {
		clock = utils.SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &View{
		store:    store,
		feedback: feedback,
		now:      clock,
		loc:      loc,
		log:      logger.Component("today"),
	}
}

// Today returns the day key the view is showing
func (v *View) Today() string {
	return utils.DayKey(v.now(), v.loc)
}

// EnsureLogs creates a not-completed log for today for every active habit
// that lacks one. It is idempotent.
func (v *View) EnsureLogs() error {
	habits, err := v.store.GetAllHabits(true)
	if err != nil {
		return fmt.Errorf("failed to load active habits: %w", err)
	}

	day := v.Today()
	for _, h := range habits {
		_, err := v.store.GetHabitLog(h.ID, day)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to read log for %q: %w", h.Name, err)
		}

		now := v.now()
		err = v.store.AddHabitLog(models.HabitLog{
			ID:        uuid.New().String(),
			HabitID:   h.ID,
			Day:       day,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil && !errors.Is(err, storage.ErrDuplicateLog) {
			return fmt.Errorf("failed to create log for %q: %w", h.Name, err)
		}
		v.log.Debug("created today's log", "habit", h.ID, "day", day)
	}
	return nil
}

// Refresh rebuilds the entry list from the store without writing anything
func (v *View) Refresh() error {
	habits, err := v.store.GetAllHabits(true)
	if err != nil {
		return fmt.Errorf("failed to load active habits: %w", err)
	}

	day := v.Today()
	entries := make([]Entry, 0, len(habits))
	for _, h := range habits {
		l, err := v.store.GetHabitLog(h.ID, day)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("failed to read log for %q: %w", h.Name, err)
			}
			l = models.HabitLog{HabitID: h.ID, Day: day}
		}
		entries = append(entries, Entry{Habit: h, Log: l})
	}

	v.mu.Lock()
	v.entries = entries
	v.mu.Unlock()
	return nil
}

// Load ensures today's logs exist and then refreshes the list
func (v *View) Load() error {
	if err := v.EnsureLogs(); err != nil {
		return err
	}
	return v.Refresh()
}

// Toggle flips the completion of an entry's log, signals feedback and
// reloads the list. On a persistence error nothing changes and Failure fires.
func (v *View) Toggle(entry Entry) error {
	if err := v.toggle(entry); err != nil {
		v.log.Error("failed to toggle habit", "habit", entry.Habit.ID, "error", err)
		v.feedback.Failure(err)
		return err
	}
	return v.Load()
}

func (v *View) toggle(entry Entry) error {
	day := entry.Log.Day
	if day == "" {
		day = v.Today()
	}
	now := v.now()

	current, err := v.store.GetHabitLog(entry.Habit.ID, day)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		err = v.store.AddHabitLog(models.HabitLog{
			ID:        uuid.New().String(),
			HabitID:   entry.Habit.ID,
			Day:       day,
			Completed: true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("failed to create log: %w", err)
		}
		v.feedback.Success()
		return nil
	case err != nil:
		return fmt.Errorf("failed to read log: %w", err)
	}

	current.Completed = !current.Completed
	current.UpdatedAt = now
	if err := v.store.UpdateHabitLog(current); err != nil {
		return fmt.Errorf("failed to update log: %w", err)
	}

	if current.Completed {
		v.feedback.Success()
	} else {
		v.feedback.LightImpact()
	}
	return nil
}

// ToggleHabit toggles the entry of the given habit
func (v *View) ToggleHabit(habitID string) error {
	for _, e := range v.Entries() {
		if e.Habit.ID == habitID {
			return v.Toggle(e)
		}
	}
	return fmt.Errorf("habit %s is not on today's list: %w", habitID, storage.ErrNotFound)
}

// Entries returns a copy of the current list, newest habit first
func (v *View) Entries() []Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// TotalCount is the number of entries
func (v *View) TotalCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

// CompletedCount is the number of entries whose log is completed
func (v *View) CompletedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.completedLocked()
}

func (v *View) completedLocked() int {
	n := 0
	for _, e := range v.entries {
		if e.Log.Completed {
			n++
		}
	}
	return n
}

// Progress is completed/total, 0 for an empty list
func (v *View) Progress() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.entries) == 0 {
		return 0
	}
	return float64(v.completedLocked()) / float64(len(v.entries))
}
