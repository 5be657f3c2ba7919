package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/storage"
	"github.com/julianstephens/habithub/internal/utils"
)

type StorageConfig struct {
	Location   string `mapstructure:"location"`
	UseKeyring bool   `mapstructure:"use_keyring"`
}

type StatsConfig struct {
	WindowDays int `mapstructure:"window_days"`
}

type BackupConfig struct {
	MaxBackups int `mapstructure:"max_backups"`
}

type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Level string `mapstructure:"level"`
}

// Config is the merged result of defaults, the config file, HABITHUB_*
// environment variables and command line flags.
type Config struct {
	Storage  StorageConfig `mapstructure:"storage"`
	Stats    StatsConfig   `mapstructure:"stats"`
	Timezone string        `mapstructure:"timezone"`
	Backup   BackupConfig  `mapstructure:"backup"`
	Log      LogConfig     `mapstructure:"log"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// Overrides carries command line flags; zero values leave the file setting alone
type Overrides struct {
	ConfigPath string
	Location   string
	Debug      bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.location", constants.DefaultConfigPath)
	v.SetDefault("storage.use_keyring", false)
	v.SetDefault("stats.window_days", constants.DefaultWindowDays)
	v.SetDefault("timezone", "Local")
	v.SetDefault("backup.max_backups", constants.MaxBackups)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.level", "")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. An explicit config path must exist; the
// default ~/.config/habithub/config.yaml is optional.
func Load(o Overrides) (*Config, error) {
	v := newViper()

	if o.ConfigPath != "" {
		path, err := homedir.Expand(o.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		dir, err := homedir.Expand(constants.DefaultConfigDir)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config dir: %w", err)
		}
		v.AddConfigPath(dir)
		v.SetConfigName(constants.ConfigFileName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if o.Location != "" {
		cfg.Storage.Location = o.Location
	}
	if o.Debug {
		cfg.Log.Debug = true
	}

	if !storage.IsPostgresConnString(cfg.Storage.Location) {
		path, err := homedir.Expand(cfg.Storage.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to expand storage location: %w", err)
		}
		cfg.Storage.Location = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type rules struct {
	Location   string `validate:"required"`
	WindowDays int    `validate:"required|min:1|max:365"`
	MaxBackups int    `validate:"required|min:1"`
	Level      string `validate:"in:debug,info,warn,error"`
}

// Validate checks ranges and the timezone name
func (c *Config) Validate() error {
	r := rules{
		Location:   c.Storage.Location,
		WindowDays: c.Stats.WindowDays,
		MaxBackups: c.Backup.MaxBackups,
		Level:      strings.ToLower(c.Log.Level),
	}
	v := validate.Struct(&r)
	v.AddTranslates(map[string]string{
		"Location":   "storage.location",
		"WindowDays": "stats.window_days",
		"MaxBackups": "backup.max_backups",
		"Level":      "log.level",
	})
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}
	if err := utils.ValidateTimezone(c.Timezone); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Location resolves the configured timezone
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ConfigDir is the directory holding logs and, by default, the database
func ConfigDir() string {
	dir, err := homedir.Expand(constants.DefaultConfigDir)
	if err != nil {
		return filepath.Join(os.TempDir(), constants.AppName)
	}
	return dir
}

// DataDir is where backups are kept: next to a SQLite file or a diskv
// directory, and in the config directory for PostgreSQL.
func (c *Config) DataDir() string {
	if c.Storage.Location == "" || storage.IsPostgresConnString(c.Storage.Location) {
		return ConfigDir()
	}
	return filepath.Dir(c.Storage.Location)
}

// WriteDefault writes a config file with every default value. It refuses to
// overwrite an existing file.
func WriteDefault(path string) (string, error) {
	if path == "" {
		path = filepath.Join(ConfigDir(), constants.ConfigFileName+".yaml")
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if err := v.SafeWriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
