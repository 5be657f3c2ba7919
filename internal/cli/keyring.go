package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habithub/internal/keyring"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check the OS keyring and stored credentials."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
}

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	embedded, err := keyring.New("").Set(cmd.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to store connection string: %w", err)
	}

	if embedded {
		ctx.println(yellow("⚠️  Warning: Connection string contains embedded credentials."))
		ctx.println("   It is stored as-is in the encrypted OS keyring.")
	}
	ctx.printf("%s Connection string stored successfully in OS keyring\n", green("✓"))
	ctx.println("  Set storage.use_keyring: true in your config to use it")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *Context) error {
	st := keyring.New("").Status()
	if !st.Available {
		ctx.printf("%s OS keyring is not available on this system\n", red("❌"))
		return keyring.ErrKeyringUnavailable
	}

	ctx.printf("%s OS keyring is available\n", green("✓"))
	if st.Stored {
		ctx.printf("%s Connection string is stored in keyring: %s\n", green("✓"), st.Redacted)
	} else {
		ctx.println("ℹ No connection string stored in keyring")
	}
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.New("").Delete(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}

	ctx.printf("%s Connection string deleted from OS keyring\n", green("✓"))
	return nil
}
