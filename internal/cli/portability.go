package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/habithub/internal/backup"
)

type ExportCmd struct {
	Format string `help:"json or csv (default inferred from --out, else json)."`
	Out    string `help:"Output file; a .zst suffix compresses it. Prints to stdout when empty." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	format := backup.FormatJSON
	switch {
	case c.Format != "":
		f, err := backup.ParseFormat(c.Format)
		if err != nil {
			return err
		}
		format = f
	case c.Out != "":
		format = backup.FormatFromPath(c.Out)
	}

	if c.Out == "" {
		return ctx.Exporter.Export(ctx.Out, format)
	}
	if err := ctx.Exporter.ExportFile(c.Out, format); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "%s Exported %s to %s\n", green("✓"), format, c.Out)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"JSON export to import (.zst accepted)." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	report, err := ctx.Exporter.ImportFile(c.File)
	if err != nil {
		return err
	}

	for _, w := range report.Warnings {
		ctx.printf("%s %s\n", yellow("warning:"), w)
	}
	ctx.printf("%s Imported %d habits and %d logs\n", green("✓"), report.Habits, report.Logs)
	return nil
}
