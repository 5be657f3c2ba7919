package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/julianstephens/habithub/internal/app"
	"github.com/julianstephens/habithub/internal/habits"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/utils"
)

// Context is handed to every command's Run method
type Context struct {
	*app.App
	Out io.Writer
	In  io.Reader
}

func NewContext(a *app.App) *Context {
	return &Context{App: a, Out: color.Output, In: os.Stdin}
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	heading = color.New(color.Bold, color.Underline).SprintFunc()
)

func (c *Context) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	_, _ = fmt.Fprintln(c.Out, args...)
}

// confirm asks a yes/no question, defaulting to no
func (c *Context) confirm(question string) (bool, error) {
	c.printf("%s [y/N]: ", question)
	reader := bufio.NewReader(c.In)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// findHabit looks a habit up by name (case-insensitive) or by id
func (c *Context) findHabit(nameOrID string) (models.Habit, error) {
	all, err := c.Store.GetAllHabits(false)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to load habits: %w", err)
	}
	if h, ok := habits.FindByName(all, nameOrID); ok {
		return h, nil
	}
	for _, h := range all {
		if h.ID == nameOrID {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", nameOrID)
}

func (c *Context) window(days int) int {
	if days > 0 {
		return days
	}
	return c.Config.Stats.WindowDays
}

func (c *Context) today() time.Time {
	return utils.StartOfDay(c.Clock(), c.Location)
}

func activeLabel(active bool) string {
	if active {
		return green("active")
	}
	return faint("inactive")
}

func checkbox(done bool) string {
	if done {
		return green("[x]")
	}
	return "[ ]"
}

func percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// truncate shortens s to width runes, ending with an ellipsis when cut
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 5 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
