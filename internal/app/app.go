package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/wire"

	"github.com/julianstephens/habithub/internal/backup"
	"github.com/julianstephens/habithub/internal/config"
	"github.com/julianstephens/habithub/internal/habits"
	"github.com/julianstephens/habithub/internal/keyring"
	"github.com/julianstephens/habithub/internal/logger"
	"github.com/julianstephens/habithub/internal/stats"
	"github.com/julianstephens/habithub/internal/storage"
	"github.com/julianstephens/habithub/internal/today"
	"github.com/julianstephens/habithub/internal/utils"
)

// App holds every long-lived collaborator of a habithub process
type App struct {
	Config   *config.Config
	Store    storage.Provider
	Stats    *stats.Calculator
	Editor   *habits.Editor
	Exporter *backup.Service
	Backups  *backup.Manager
	Clock    utils.Clock
	Location *time.Location
}

// ProviderSet builds an App from a loaded configuration
var ProviderSet = wire.NewSet(
	ProvideClock,
	ProvideLocation,
	ProvideCredentials,
	ProvideStore,
	stats.NewCalculator,
	habits.NewEditor,
	backup.NewService,
	ProvideBackupManager,
	wire.Struct(new(App), "*"),
)

func ProvideClock() utils.Clock {
	return utils.SystemClock
}

func ProvideLocation(cfg *config.Config) *time.Location {
	return cfg.Location()
}

func ProvideCredentials() *keyring.Credentials {
	return keyring.New("")
}

// ProvideStore opens the configured storage location. With use_keyring the
// PostgreSQL connection string comes from the OS keyring instead.
func ProvideStore(cfg *config.Config, creds *keyring.Credentials) (storage.Provider, error) {
	if !cfg.Storage.UseKeyring {
		return storage.Open(cfg.Storage.Location)
	}

	connStr, err := creds.Get()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("storage.use_keyring is set but %w", err)
		}
		return nil, err
	}
	if !storage.IsPostgresConnString(connStr) {
		return nil, storage.ErrInvalidConnectionString
	}
	logger.Debug("using connection string from keyring", "location", storage.RedactConnString(connStr))
	return storage.NewPostgresStore(connStr), nil
}

func ProvideBackupManager(svc *backup.Service, cfg *config.Config) *backup.Manager {
	return backup.NewManager(svc, cfg.DataDir(), cfg.Backup.MaxBackups)
}

// Today builds a today view reporting toggles to feedback
func (a *App) Today(feedback today.Feedback) *today.View {
	return today.NewView(a.Store, feedback, a.Clock, a.Location)
}

// AutoBackup snapshots the store and only logs failures
func (a *App) AutoBackup() {
	if _, err := a.Backups.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
