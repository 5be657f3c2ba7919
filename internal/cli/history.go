package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habithub/internal/models"
)

const historyNameWidth = 20

type HistoryCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show history for a specific habit only."`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	if c.Days <= 0 {
		return fmt.Errorf("--days must be positive")
	}

	var selected []models.Habit
	if c.Habit != "" {
		h, err := ctx.findHabit(c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{h}
	} else {
		active, err := ctx.Store.GetAllHabits(true)
		if err != nil {
			return fmt.Errorf("failed to load habits: %w", err)
		}
		selected = active
	}
	if len(selected) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	ctx.printf("Habit history (last %d days):\n\n", c.Days)

	header := ctx.Stats.CompletionHistory(selected[0], c.Days)
	ctx.printf("%-*s", historyNameWidth, "Habit")
	for _, d := range header {
		ctx.printf(" %5s", d.Date.Format("01/02"))
	}
	ctx.println()
	ctx.println(strings.Repeat("-", historyNameWidth+6*len(header)))

	for _, h := range selected {
		ctx.printf("%-*s", historyNameWidth, truncate(h.Name, historyNameWidth))
		for _, d := range ctx.Stats.CompletionHistory(h, c.Days) {
			if d.Completed {
				ctx.printf("  %s   ", green("x"))
			} else {
				ctx.printf("  .   ")
			}
		}
		ctx.println()
	}
	return nil
}
