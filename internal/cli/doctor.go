package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habithub/internal/migration"
)

type DoctorCmd struct{}

type migrationStatuser interface {
	MigrationStatus() (migration.Status, error)
}

type dbGetter interface {
	GetDB() *sql.DB
}

type check struct {
	name    string
	run     func(*Context) error
	warning bool
}

var doctorChecks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Backups present", run: checkBackupsPresent, warning: true},
	{name: "Data validation", run: checkValidation},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	reachable := true
	for _, c := range doctorChecks {
		if !reachable && c.name == "Data validation" {
			ctx.printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("%s %s: OK\n", green("✓"), c.name)
		case c.warning:
			ctx.printf("%s %s: WARNING\n", yellow("⚠"), c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("%s %s: FAIL\n", red("❌"), c.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				reachable = false
			}
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if g, ok := ctx.Store.(dbGetter); ok && g.GetDB() != nil {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := g.GetDB().PingContext(pingCtx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
	}
	if _, err := ctx.Store.GetAllHabits(false); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	ms, ok := ctx.Store.(migrationStatuser)
	if !ok {
		// diskv stores have no schema
		return nil
	}
	st, err := ms.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	if !st.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Current, st.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habithub backup create'")
	}
	return nil
}

func checkValidation(ctx *Context) error {
	result, err := validateData(ctx)
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		return fmt.Errorf("%d conflicts found; run 'habithub validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.Clock()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Location == time.UTC {
		ctx.printf("   Note: timezone is UTC\n")
	}
	return nil
}
