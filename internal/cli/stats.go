package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"

	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/stats"
)

type StatsCmd struct {
	Habit  string `arg:"" optional:"" help:"Habit name or ID; omit for an overview of all habits."`
	Window int    `help:"Days in the completion window (default from config)."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	window := ctx.window(c.Window)
	if c.Habit != "" {
		h, err := ctx.findHabit(c.Habit)
		if err != nil {
			return err
		}
		return c.habitStats(ctx, h, window)
	}

	all, err := ctx.Store.GetAllHabits(false)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	ov, err := ctx.Stats.Overview(context.Background(), all, window)
	if err != nil {
		return err
	}

	ctx.printf("%s\n\n", heading("Overview"))
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Habits"), fmt.Sprintf("%d (%d active)", ov.TotalHabits, ov.ActiveHabits))
	tbl.AddRow(bold(fmt.Sprintf("Completed, last %d days", ov.WindowDays)), ov.TotalCompletedDays)
	tbl.AddRow(bold("Average completion"), percent(ov.AverageCompletionRate))
	tbl.AddRow(bold("Combined streak"), ov.TotalStreak)
	ctx.println(tbl)

	ctx.printf("\n%s\n\n", heading("This week"))
	ctx.println(weekTable(ctx.Stats.WeekSummary(all)))

	active := make([]models.Habit, 0, len(all))
	for _, h := range all {
		if h.Active {
			active = append(active, h)
		}
	}
	if len(active) == 0 {
		return nil
	}

	ctx.printf("\n%s\n\n", heading("Habits"))
	per := uitable.New()
	per.Separator = "  "
	per.AddRow(bold("Name"), bold("Current"), bold("Longest"), bold("Rate"))
	for _, h := range active {
		st := ctx.Stats.Stats(h, window)
		per.AddRow(h.Name, st.CurrentStreak, st.LongestStreak, percent(st.CompletionRate))
	}
	ctx.println(per)
	return nil
}

func (c *StatsCmd) habitStats(ctx *Context, h models.Habit, window int) error {
	st := ctx.Stats.Stats(h, window)

	ctx.printf("%s\n\n", heading(h.Name))
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Current streak"), fmt.Sprintf("%d days", st.CurrentStreak))
	tbl.AddRow(bold("Longest streak"), fmt.Sprintf("%d days", st.LongestStreak))
	tbl.AddRow(bold("Completion rate"), fmt.Sprintf("%s (%d of %d days)", percent(st.CompletionRate), st.CompletedDays, st.TotalDays))
	tbl.AddRow(bold("Target"), fmt.Sprintf("%d days", h.TargetDays))
	ctx.println(tbl)

	ctx.printf("\n%s\n", strip(ctx.Stats.CompletionHistory(h, window)))
	return nil
}

func weekTable(rates []stats.DayRate) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	days := make([]interface{}, 0, len(rates))
	values := make([]interface{}, 0, len(rates))
	for _, r := range rates {
		days = append(days, bold(r.Date.Format("Mon")))
		values = append(values, percent(r.Rate))
	}
	tbl.AddRow(days...)
	tbl.AddRow(values...)
	return tbl
}

// strip renders a history as one character per day
func strip(history []stats.DayCompletion) string {
	var b strings.Builder
	for _, d := range history {
		if d.Completed {
			b.WriteString(green("■"))
		} else {
			b.WriteString(faint("·"))
		}
	}
	return b.String()
}
