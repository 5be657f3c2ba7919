package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gookit/validate"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/utils"
)

// ErrInvalidHabit is wrapped by every habit field validation failure
var ErrInvalidHabit = errors.New("invalid habit")

// habitRules carries the field rules checked before a habit is persisted.
type habitRules struct {
	Name       string `validate:"required|minLen:3"`
	TargetDays int    `validate:"required|min:1|max:365"`
	Color      string `validate:"regex:^#[0-9A-Fa-f]{6}$"`
	Frequency  string `validate:"in:daily,weekly,monthly,custom"`
}

// ValidateHabit checks the persisted-field constraints of a habit.
// The name is checked after trimming surrounding whitespace.
func ValidateHabit(h models.Habit) error {
	if err := ValidateName(h.Name); err != nil {
		return err
	}
	if err := ValidateTargetDays(h.TargetDays); err != nil {
		return err
	}

	rules := habitRules{
		Name:       strings.TrimSpace(h.Name),
		TargetDays: h.TargetDays,
		Color:      h.Color,
		Frequency:  string(h.Frequency),
	}
	v := validate.Struct(&rules)
	v.AddTranslates(map[string]string{
		"Name":       "name",
		"TargetDays": "target days",
		"Color":      "color",
		"Frequency":  "frequency",
	})
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidHabit, v.Errors.One())
	}

	if h.ReminderTime != "" {
		if err := utils.ValidateTime(h.ReminderTime); err != nil {
			return fmt.Errorf("%w: reminder %v", ErrInvalidHabit, err)
		}
	}
	return nil
}

// ValidateName checks a habit name: non-empty and at least three
// characters once surrounding whitespace is removed.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidHabit)
	}
	if utf8.RuneCountInString(trimmed) < constants.MinNameLength {
		return fmt.Errorf("%w: name must be at least %d characters", ErrInvalidHabit, constants.MinNameLength)
	}
	return nil
}

// ValidateTargetDays checks the target day range
func ValidateTargetDays(days int) error {
	if days < constants.MinTargetDays || days > constants.MaxTargetDays {
		return fmt.Errorf("%w: target days must be between %d and %d", ErrInvalidHabit, constants.MinTargetDays, constants.MaxTargetDays)
	}
	return nil
}
