package cli

import (
	"fmt"

	"github.com/julianstephens/habithub/internal/habits"
	"github.com/julianstephens/habithub/internal/models"
)

type TodayCmd struct {
	Toggle string `help:"Toggle today's completion of the named habit."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	view := ctx.Today(consoleFeedback{out: ctx.Out})
	if err := view.Load(); err != nil {
		return err
	}

	if c.Toggle != "" {
		entries := view.Entries()
		active := make([]models.Habit, 0, len(entries))
		for _, e := range entries {
			active = append(active, e.Habit)
		}
		h, ok := habits.FindByName(active, c.Toggle)
		if !ok {
			return fmt.Errorf("no active habit named %q", c.Toggle)
		}
		if err := view.ToggleHabit(h.ID); err != nil {
			return err
		}
		ctx.println()
	}

	entries := view.Entries()
	ctx.printf("%s\n\n", heading("Today, "+ctx.today().Format("Monday, January 2")))
	if len(entries) == 0 {
		ctx.println("No active habits. Add one with 'habithub habit add'.")
		return nil
	}
	for _, e := range entries {
		ctx.printf("%s %s\n", checkbox(e.Log.Completed), e.Habit.Name)
	}
	ctx.printf("\n%d/%d completed (%s)\n", view.CompletedCount(), view.TotalCount(), percent(view.Progress()))
	return nil
}
