package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosuri/uitable"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	backupPath, err := ctx.Backups.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.printf("%s Backup created: %s\n", green("✓"), filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", ctx.Backups.GetBackupDir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), ctx.Config.Backup.MaxBackups)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, b := range backups {
		tbl.AddRow(b.Timestamp.Format("2006-01-02 15:04"), filepath.Base(b.Path), fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0))
	}
	ctx.println(tbl)
	ctx.printf("\nBackup directory: %s\n", ctx.Backups.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		possiblePath := filepath.Join(ctx.Backups.GetBackupDir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		ctx.println(yellow("⚠️  Restoring adds every habit of the backup as a new record."))
		ctx.println("A backup of your current data will be created first.")
		ctx.printf("\nRestore from: %s\n", filepath.Base(backupPath))
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	report, err := ctx.Backups.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	for _, w := range report.Warnings {
		ctx.printf("%s %s\n", yellow("warning:"), w)
	}
	ctx.printf("%s Restored %d habits and %d logs\n", green("✓"), report.Habits, report.Logs)
	return nil
}
