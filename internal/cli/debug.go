package cli

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/storage"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" help:"Show database path."`
	DumpHabit *DebugDumpHabitCmd `cmd:"" help:"Dump a habit and its logs as JSON."`
	Config    *DebugConfigCmd    `cmd:"" help:"Dump the effective configuration as JSON."`
}

func (c *Context) printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(out))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return ctx.printJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	h, err := ctx.Store.GetHabit(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("habit not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get habit: %w", err)
	}
	logs, err := ctx.Store.GetHabitLogs(h.ID, "", "")
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}
	return ctx.printJSON(models.HabitWithLogs{Habit: h, Logs: logs})
}

type DebugConfigCmd struct{}

func (cmd *DebugConfigCmd) Run(ctx *Context) error {
	cfg := *ctx.Config
	if storage.IsPostgresConnString(cfg.Storage.Location) {
		cfg.Storage.Location = storage.RedactConnString(cfg.Storage.Location)
	}
	return ctx.printJSON(cfg)
}
