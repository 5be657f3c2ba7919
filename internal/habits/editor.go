package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/logger"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/storage"
	"github.com/julianstephens/habithub/internal/utils"
	"github.com/julianstephens/habithub/internal/validation"
)

// Candidate holds the fields of the habit form before they are persisted
type Candidate struct {
	Name         string
	TargetDays   int
	Active       bool
	Category     string
	Icon         string
	Color        string
	Notes        string
	Frequency    models.Frequency
	ReminderTime string
}

// DefaultCandidate returns an empty form with the default target and frequency
func DefaultCandidate() Candidate {
	return Candidate{
		TargetDays: constants.DefaultTargetDays,
		Active:     true,
		Frequency:  models.FrequencyDaily,
	}
}

// FromTemplate prefills a form from a catalog template
func FromTemplate(t models.Template) Candidate {
	c := DefaultCandidate()
	c.Name = t.Name
	c.Category = t.Category
	c.Icon = t.Icon
	c.Color = t.Color
	c.Notes = t.Description
	c.ReminderTime = t.ReminderTime
	if t.TargetDays > 0 {
		c.TargetDays = t.TargetDays
	}
	if t.Frequency != "" {
		c.Frequency = t.Frequency
	}
	return c
}

func (c Candidate) normalized() Candidate {
	c.Name = strings.TrimSpace(c.Name)
	c.Category = strings.TrimSpace(c.Category)
	c.Notes = strings.TrimSpace(c.Notes)
	c.ReminderTime = strings.TrimSpace(c.ReminderTime)
	if c.Frequency == "" {
		c.Frequency = models.FrequencyDaily
	}
	return c
}

// apply copies the mutable fields onto h
func (c Candidate) apply(h *models.Habit) {
	h.Name = c.Name
	h.TargetDays = c.TargetDays
	h.Active = c.Active
	h.Category = c.Category
	h.Icon = c.Icon
	h.Color = c.Color
	h.Notes = c.Notes
	h.Frequency = c.Frequency
	h.ReminderTime = c.ReminderTime
}

// Validate reports the first failing field rule, wrapping validation.ErrInvalidHabit
func (c Candidate) Validate() error {
	var h models.Habit
	c.normalized().apply(&h)
	return validation.ValidateHabit(h)
}

// Valid is the synchronous check used to enable a form's save action
func Valid(c Candidate) bool {
	return c.Validate() == nil
}

// CandidateOf loads an existing habit into a form for editing
func CandidateOf(h models.Habit) Candidate {
	return Candidate{
		Name:         h.Name,
		TargetDays:   h.TargetDays,
		Active:       h.Active,
		Category:     h.Category,
		Icon:         h.Icon,
		Color:        h.Color,
		Notes:        h.Notes,
		Frequency:    h.Frequency,
		ReminderTime: h.ReminderTime,
	}
}

// ErrDuplicateName is returned when another habit already uses the name (case-insensitive)
var ErrDuplicateName = errors.New("habit name already in use")

// Editor creates, edits and deletes habits
type Editor struct {
	store storage.Provider
	now   utils.Clock
	log   *log.Logger
}

func NewEditor(store storage.Provider, clock utils.Clock) *Editor {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Editor{store: store, now: clock, log: logger.Component("habits")}
}

// Save persists the candidate as a new habit and resets the form to its defaults.
// When validation fails nothing is written and the form is left untouched.
func (e *Editor) Save(c *Candidate) (models.Habit, error) {
	n := c.normalized()
	if err := n.Validate(); err != nil {
		return models.Habit{}, err
	}

	if err := e.checkNameFree(n.Name, ""); err != nil {
		return models.Habit{}, err
	}

	h := models.Habit{
		ID:        uuid.New().String(),
		CreatedAt: e.now(),
	}
	n.apply(&h)

	if err := e.store.AddHabit(h); err != nil {
		e.log.Error("failed to save habit", "name", h.Name, "error", err)
		return models.Habit{}, fmt.Errorf("failed to save habit: %w", err)
	}

	e.log.Info("habit created", "id", h.ID, "name", h.Name)
	*c = DefaultCandidate()
	return h, nil
}

// Update applies the candidate to an existing habit. ID and CreatedAt never change.
func (e *Editor) Update(existing models.Habit, c Candidate) (models.Habit, error) {
	n := c.normalized()
	if err := n.Validate(); err != nil {
		return existing, err
	}

	if err := e.checkNameFree(n.Name, existing.ID); err != nil {
		return existing, err
	}

	updated := existing
	n.apply(&updated)

	if err := e.store.UpdateHabit(updated); err != nil {
		e.log.Error("failed to update habit", "id", existing.ID, "error", err)
		return existing, fmt.Errorf("failed to update habit: %w", err)
	}

	e.log.Info("habit updated", "id", updated.ID)
	return updated, nil
}

// checkNameFree fails when a habit other than selfID already carries name
func (e *Editor) checkNameFree(name, selfID string) error {
	all, err := e.store.GetAllHabits(false)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	if other, ok := FindByName(all, name); ok && other.ID != selfID {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return nil
}

// Delete removes a habit together with all of its logs
func (e *Editor) Delete(id string) error {
	if err := e.store.DeleteHabit(id); err != nil {
		e.log.Error("failed to delete habit", "id", id, "error", err)
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	e.log.Info("habit deleted", "id", id)
	return nil
}
