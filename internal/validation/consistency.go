package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/utils"
)

// ConflictType represents the type of consistency problem
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidHabit       ConflictType = "invalid_habit"
	ConflictOrphanLog          ConflictType = "orphan_log"
	ConflictDuplicateLogDay    ConflictType = "duplicate_log_day"
	ConflictInvalidLogDay      ConflictType = "invalid_log_day"
)

// Conflict represents one detected problem in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Habit names involved
	HabitIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks stored habits and logs for consistency problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks habits and their logs. Duplicate names are reported
// but are not an error for the store, which allows them.
func (v *Validator) ValidateHabits(habits []models.Habit, logs []models.HabitLog) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Habit, len(habits))
	nameIDs := make(map[string][]string)
	for _, h := range habits {
		byID[h.ID] = h
		key := strings.ToLower(strings.TrimSpace(h.Name))
		nameIDs[key] = append(nameIDs[key], h.ID)

		if err := ValidateHabit(h); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidHabit,
				Description: fmt.Sprintf("Habit \"%s\" is invalid: %v", h.Name, err),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
		}
	}

	names := make([]string, 0, len(nameIDs))
	for name := range nameIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ids := nameIDs[name]
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: \"%s\" (IDs: %v)", byID[ids[0]].Name, ids),
				Items:       []string{byID[ids[0]].Name},
				HabitIDs:    ids,
			})
		}
	}

	seen := make(map[string]bool)
	for _, l := range logs {
		h, ok := byID[l.HabitID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanLog,
				Description: fmt.Sprintf("Log %s on %s references missing habit %s", l.ID, l.Day, l.HabitID),
				HabitIDs:    []string{l.HabitID},
			})
			continue
		}
		if _, err := utils.ParseDayInLocation(l.Day, time.UTC); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidLogDay,
				Description: fmt.Sprintf("Habit \"%s\" has a log with invalid day: %s", h.Name, l.Day),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
			continue
		}
		key := l.HabitID + "|" + l.Day
		if seen[key] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateLogDay,
				Description: fmt.Sprintf("Habit \"%s\" has more than one log on %s", h.Name, l.Day),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
		}
		seen[key] = true
	}

	return result
}
