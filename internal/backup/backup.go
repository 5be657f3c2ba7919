package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/utils"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager keeps rotating compressed JSON snapshots of the store
type Manager struct {
	service    *Service
	backupDir  string
	maxBackups int
	now        utils.Clock
}

// NewManager creates a backup manager writing to <dataDir>/backups
func NewManager(service *Service, dataDir string, maxBackups int) *Manager {
	if maxBackups <= 0 {
		maxBackups = constants.MaxBackups
	}
	return &Manager{
		service:    service,
		backupDir:  filepath.Join(dataDir, constants.BackupDirName),
		maxBackups: maxBackups,
		now:        service.now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes a new snapshot and prunes the oldest ones
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// skipRotation is set for the safety snapshot taken before a restore
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.uniquePath()
	if err != nil {
		return "", err
	}

	if err := m.service.ExportFile(backupPath, FormatJSON); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	m.service.log.Info("backup created", "path", backupPath)

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			m.service.log.Warn("failed to rotate old backups", "error", err)
		}
	}
	return backupPath, nil
}

// uniquePath names a backup after the current minute, adding seconds and
// then a counter when the name is taken.
func (m *Manager) uniquePath() (string, error) {
	now := m.now()
	name := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	path := name(now.Format("20060102-1504"))
	if !exists(path) {
		return path, nil
	}

	stamp := now.Format("20060102-150405")
	path = name(stamp)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = name(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// parseBackupName extracts the timestamp of a backup file name,
// ignoring a trailing counter.
func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ListBackups returns all snapshots, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].Path > backups[j].Path
	})
	return backups, nil
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup imports a snapshot. A safety snapshot of the current data is
// written first and excluded from rotation.
func (m *Manager) RestoreBackup(backupPath string) (ImportReport, error) {
	if !exists(backupPath) {
		return ImportReport{}, fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	current, err := m.createBackup(true)
	if err != nil {
		return ImportReport{}, fmt.Errorf("failed to back up current data before restore: %w", err)
	}
	m.service.log.Info("created pre-restore backup", "path", filepath.Base(current))

	return m.service.ImportFile(backupPath)
}
