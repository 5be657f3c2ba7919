package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/habits"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/tui"
	"github.com/julianstephens/habithub/internal/utils"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	Edit      HabitEditCmd      `cmd:"" help:"Edit an existing habit."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit and all of its logs."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Templates HabitTemplatesCmd `cmd:"" help:"List predefined habit templates."`
	Show      HabitShowCmd      `cmd:"" help:"Show a habit with its statistics."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Target      int    `help:"Target number of days (default 30, or the template's)."`
	Inactive    bool   `help:"Create the habit paused."`
	Category    string `help:"Category name."`
	Icon        string `help:"Icon name."`
	Color       string `help:"Color as #RRGGBB."`
	Notes       string `help:"Free-form notes."`
	Frequency   string `help:"daily, weekly, monthly or custom (default daily, or the template's)."`
	Reminder    string `help:"Reminder time (HH:MM)."`
	Template    string `help:"Start from a predefined template."`
	Interactive bool   `short:"i" help:"Fill in the habit with a form."`
}

func (c *HabitAddCmd) candidate() (habits.Candidate, error) {
	cand := habits.DefaultCandidate()
	if c.Template != "" {
		tmpl, ok := models.FindTemplate(c.Template)
		if !ok {
			return cand, fmt.Errorf("template %q not found; see 'habithub habit templates'", c.Template)
		}
		cand = habits.FromTemplate(tmpl)
	}

	if c.Name != "" {
		cand.Name = c.Name
	}
	if c.Target != 0 {
		cand.TargetDays = c.Target
	}
	if c.Inactive {
		cand.Active = false
	}
	if c.Category != "" {
		cand.Category = c.Category
	}
	if c.Icon != "" {
		cand.Icon = c.Icon
	}
	if c.Color != "" {
		cand.Color = c.Color
	}
	if c.Notes != "" {
		cand.Notes = c.Notes
	}
	if c.Reminder != "" {
		cand.ReminderTime = c.Reminder
	}
	if c.Frequency != "" {
		freq, err := models.ParseFrequency(c.Frequency)
		if err != nil {
			return cand, err
		}
		cand.Frequency = freq
	}
	return cand, nil
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	cand, err := c.candidate()
	if err != nil {
		return err
	}

	if c.Interactive {
		if err := runHabitForm(&cand); err != nil {
			return err
		}
	}

	h, err := ctx.Editor.Save(&cand)
	if err != nil {
		return err
	}
	ctx.printf("%s Added habit: %s (target %d days)\n", green("✓"), bold(h.Name), h.TargetDays)
	return nil
}

// runHabitForm edits a candidate with the interactive habit form
func runHabitForm(cand *habits.Candidate) error {
	hf := tui.NewHabitForm(cand)
	if err := hf.Form().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("cancelled")
		}
		return err
	}
	return hf.Commit()
}

type HabitEditCmd struct {
	Habit     string `arg:"" help:"Habit name or ID."`
	Name      string `help:"New name."`
	Target    int    `help:"New target number of days."`
	Active    bool   `help:"Mark the habit active." xor:"status"`
	Inactive  bool   `help:"Pause the habit." xor:"status"`
	Category  string `help:"New category, 'none' to clear."`
	Icon      string `help:"New icon, 'none' to clear."`
	Color     string `help:"New color (#RRGGBB), 'none' to clear."`
	Notes     string `help:"New notes, 'none' to clear."`
	Frequency string `help:"New frequency."`
	Reminder  string `help:"New reminder time (HH:MM), 'none' to clear."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	existing, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}

	cand := habits.CandidateOf(existing)
	if c.Name != "" {
		cand.Name = c.Name
	}
	if c.Target != 0 {
		cand.TargetDays = c.Target
	}
	if c.Active {
		cand.Active = true
	}
	if c.Inactive {
		cand.Active = false
	}
	editField(&cand.Category, c.Category)
	editField(&cand.Icon, c.Icon)
	editField(&cand.Color, c.Color)
	editField(&cand.Notes, c.Notes)
	editField(&cand.ReminderTime, c.Reminder)
	if c.Frequency != "" {
		freq, err := models.ParseFrequency(c.Frequency)
		if err != nil {
			return err
		}
		cand.Frequency = freq
	}

	updated, err := ctx.Editor.Update(existing, cand)
	if err != nil {
		return err
	}
	ctx.printf("%s Updated habit: %s\n", green("✓"), bold(updated.Name))
	return nil
}

// editField applies an edit flag: empty keeps the value, "none" clears it
func editField(dst *string, v string) {
	switch v {
	case "":
	case "none":
		*dst = ""
	default:
		*dst = v
	}
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Delete %q and all of its history?", h.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Editor.Delete(h.ID); err != nil {
		return err
	}
	ctx.printf("%s Deleted habit: %s\n", green("✓"), h.Name)
	return nil
}

type HabitListCmd struct {
	Status  string `help:"all, active or inactive." default:"all" enum:"all,active,inactive"`
	Search  string `help:"Only show habits whose name contains this text."`
	ShowIDs bool   `help:"Show habit IDs." name:"show-ids"`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	status, err := habits.ParseFilterStatus(c.Status)
	if err != nil {
		return err
	}
	all, err := ctx.Store.GetAllHabits(false)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	list := habits.Filter(all, c.Search, status)
	if len(list) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	header := []interface{}{bold("Name"), bold("Target"), bold("Status"), bold("Frequency"), bold("Category"), bold("Streak"), bold("Created")}
	if c.ShowIDs {
		header = append(header, bold("ID"))
	}
	tbl.AddRow(header...)
	for _, h := range list {
		row := []interface{}{
			h.Name,
			h.TargetDays,
			activeLabel(h.Active),
			h.Frequency,
			h.Category,
			ctx.Stats.CurrentStreak(h),
			h.CreatedAt.In(ctx.Location).Format(constants.DateFormat),
		}
		if c.ShowIDs {
			row = append(row, faint(h.ID))
		}
		tbl.AddRow(row...)
	}
	ctx.println(tbl)
	return nil
}

type HabitTemplatesCmd struct {
	Category string `help:"Only show templates of this category."`
}

func (c *HabitTemplatesCmd) Run(ctx *Context) error {
	list := models.Templates
	if c.Category != "" {
		list = models.TemplatesFor(c.Category)
	}
	if len(list) == 0 {
		ctx.printf("No templates found for category %q.\n", c.Category)
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow(bold("Name"), bold("Category"), bold("Frequency"), bold("Reminder"), bold("Description"))
	for _, t := range list {
		tbl.AddRow(t.Name, t.Category, t.Frequency, t.ReminderTime, t.Description)
	}
	ctx.println(tbl)
	ctx.printf("\nUse one with: habithub habit add --template %q\n", list[0].Name)
	return nil
}

type HabitShowCmd struct {
	Habit  string `arg:"" help:"Habit name or ID."`
	Window int    `help:"Days in the completion window (default from config)."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}
	window := ctx.window(c.Window)
	st := ctx.Stats.Stats(h, window)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Name"), h.Name)
	tbl.AddRow(bold("ID"), faint(h.ID))
	tbl.AddRow(bold("Status"), activeLabel(h.Active))
	tbl.AddRow(bold("Target"), fmt.Sprintf("%d days", h.TargetDays))
	tbl.AddRow(bold("Frequency"), h.Frequency)
	if h.Category != "" {
		tbl.AddRow(bold("Category"), h.Category)
	}
	if h.Color != "" {
		tbl.AddRow(bold("Color"), h.Color)
	}
	if h.ReminderTime != "" {
		tbl.AddRow(bold("Reminder"), h.ReminderTime)
	}
	if h.Notes != "" {
		tbl.AddRow(bold("Notes"), h.Notes)
	}
	tbl.AddRow(bold("Created"), h.CreatedAt.In(ctx.Location).Format("2006-01-02 15:04"))
	tbl.AddRow(bold("Age"), pluralDays(utils.DaysBetween(h.CreatedAt, ctx.Clock(), ctx.Location)))
	tbl.AddRow(bold("Current streak"), st.CurrentStreak)
	tbl.AddRow(bold("Longest streak"), st.LongestStreak)
	tbl.AddRow(bold(fmt.Sprintf("Last %d days", window)), fmt.Sprintf("%d/%d (%s)", st.CompletedDays, st.TotalDays, percent(st.CompletionRate)))
	ctx.println(tbl)
	return nil
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
