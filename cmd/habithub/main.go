package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habithub/internal/app"
	"github.com/julianstephens/habithub/internal/cli"
	"github.com/julianstephens/habithub/internal/config"
	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/errors"
	"github.com/julianstephens/habithub/internal/habits"
	"github.com/julianstephens/habithub/internal/keyring"
	"github.com/julianstephens/habithub/internal/logger"
	"github.com/julianstephens/habithub/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (default ~/.config/habithub/config.yaml)." type:"path"`
	DB      string `name:"db" help:"Storage location: SQLite file, .kv directory or PostgreSQL connection string. Overrides the config file."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habithub storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Today    cli.TodayCmd    `cmd:"" help:"Show today's habits and toggle completion."`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show streaks and completion rates."`
	History  cli.HistoryCmd  `cmd:"" help:"Show a completion grid for recent days."`
	Export   cli.ExportCmd   `cmd:"" help:"Export habits and logs as JSON or CSV."`
	Import   cli.ImportCmd   `cmd:"" help:"Import habits and logs from a JSON export."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage automatic backups."`
	Keyring  cli.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored data for inconsistencies."`
	DebugCmd cli.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func init() {
	errors.RegisterHint(storage.ErrNotInitialized, "run 'habithub init' first")
	errors.RegisterHint(storage.ErrInvalidConnectionString, "use postgres://user@host:5432/dbname or host=... dbname=...")
	errors.RegisterHint(keyring.ErrNotFound, "store one with 'habithub keyring set'")
	errors.RegisterHint(habits.ErrDuplicateName, "pick another name or use 'habithub habit edit'")
	errors.RegisterHint(keyring.ErrKeyringUnavailable, "disable storage.use_keyring and pass --db instead")
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily habits, streaks and completion rates"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(config.Overrides{
		ConfigPath: CLI.Config,
		Location:   CLI.DB,
		Debug:      CLI.Debug,
	})
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Log.Debug,
		ConfigDir: config.ConfigDir(),
		Level:     cfg.Log.Level,
	}); err != nil {
		errors.Fatal(err)
	}

	command := ""
	if fields := strings.Fields(ctx.Command()); len(fields) > 0 {
		command = fields[0]
	}
	logger.Debug("starting", "command", ctx.Command(), "location", cfg.Storage.Location)

	// Keyring commands must work before any store can be opened
	if command == "keyring" {
		errors.Fatal(ctx.Run(cli.NewContext(&app.App{Config: cfg})))
		return
	}

	a, err := app.InitApp(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	defer a.Store.Close()

	switch command {
	case "init", "doctor":
	default:
		if err := a.Store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(cli.NewContext(a)); err != nil {
		a.Store.Close()
		errors.Fatal(err)
	}
}
