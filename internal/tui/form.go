package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habithub/internal/habits"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/utils"
	"github.com/julianstephens/habithub/internal/validation"
)

// HabitForm edits a candidate. Fields that huh cannot bind directly are held
// as strings until Commit copies them back.
type HabitForm struct {
	Candidate *habits.Candidate

	target    string
	frequency string
	form      *huh.Form
}

func NewHabitForm(cand *habits.Candidate) *HabitForm {
	f := &HabitForm{
		Candidate: cand,
		target:    strconv.Itoa(cand.TargetDays),
		frequency: string(cand.Frequency),
	}
	if f.frequency == "" {
		f.frequency = string(models.FrequencyDaily)
	}

	categories := []huh.Option[string]{huh.NewOption("None", "")}
	for _, cat := range models.Categories {
		categories = append(categories, huh.NewOption(cat.Name, cat.Name))
	}
	frequencies := make([]huh.Option[string], 0, len(models.Frequencies))
	for _, fr := range models.Frequencies {
		frequencies = append(frequencies, huh.NewOption(string(fr), string(fr)))
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&cand.Name).
				Validate(validation.ValidateName),
			huh.NewInput().
				Title("Target days").
				Value(&f.target).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("enter a number")
					}
					return validation.ValidateTargetDays(n)
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(categories...).
				Value(&cand.Category),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(frequencies...).
				Value(&f.frequency),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder (HH:MM, optional)").
				Value(&cand.ReminderTime).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return utils.ValidateTime(strings.TrimSpace(s))
				}),
			huh.NewText().
				Title("Notes").
				Value(&cand.Notes),
			huh.NewConfirm().
				Title("Active").
				Value(&cand.Active),
		),
	).WithTheme(huh.ThemeBase())

	return f
}

func (f *HabitForm) Form() *huh.Form {
	return f.form
}

// Commit copies the string-bound fields into the candidate
func (f *HabitForm) Commit() error {
	n, err := strconv.Atoi(strings.TrimSpace(f.target))
	if err != nil {
		return fmt.Errorf("invalid target days %q", f.target)
	}
	freq, err := models.ParseFrequency(f.frequency)
	if err != nil {
		return err
	}
	f.Candidate.TargetDays = n
	f.Candidate.Frequency = freq
	return nil
}
