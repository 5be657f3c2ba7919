package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habithub/internal/logger"
)

// SQLiteStore keeps habits in a local SQLite database file
type SQLiteStore struct {
	sqlStore
	path string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		sqlStore: sqlStore{dialect: dialectSQLite},
		path:     path,
	}
}

func (s *SQLiteStore) dsn() string {
	return s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		db, err := sql.Open("sqlite", s.dsn())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		s.db = db
	}

	if err := s.runMigrations(func(msg string) { logger.Info(msg, "db", s.path) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", s.path, ErrNotInitialized)
	}

	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	exists, err := s.tableExists("habits")
	if err != nil {
		return fmt.Errorf("failed to inspect database: %w", err)
	}
	if !exists {
		return fmt.Errorf("%s has no habits table: %w", s.path, ErrNotInitialized)
	}

	// Pick up migrations added since the database was created
	if err := s.runMigrations(func(msg string) { logger.Debug(msg, "db", s.path) }); err != nil {
		return err
	}
	return s.validateSchemaVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// tableExists checks if a table exists in the SQLite database.
// The check is case-insensitive to match SQLite's behavior.
func (s *SQLiteStore) tableExists(tableName string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
