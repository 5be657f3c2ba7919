package cli

import (
	"github.com/julianstephens/habithub/internal/config"
)

type InitCmd struct {
	WriteConfig bool `help:"Also write a default config file if none exists." name:"write-config"`
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized habithub storage at: %s\n", ctx.Store.GetConfigPath())

	if !c.WriteConfig {
		return nil
	}
	if ctx.Config.File != "" {
		ctx.printf("Config file already exists: %s\n", ctx.Config.File)
		return nil
	}
	path, err := config.WriteDefault("")
	if err != nil {
		return err
	}
	ctx.printf("Wrote default config to: %s\n", path)
	return nil
}
