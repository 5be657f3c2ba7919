package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/logger"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// PostgresStore keeps habits in a PostgreSQL schema named after the app
type PostgresStore struct {
	sqlStore
	connStr string
}

func NewPostgresStore(connStr string) *PostgresStore {
	s := &PostgresStore{
		sqlStore: sqlStore{dialect: dialectPostgres},
		connStr:  connStr,
	}
	s.ensureSearchPath()
	return s
}

// IsPostgresConnString reports whether a storage location names a PostgreSQL database
func IsPostgresConnString(location string) bool {
	if strings.HasPrefix(location, constants.PostgresURLPrefix) || strings.HasPrefix(location, constants.PostgresURLPrefix2) {
		return true
	}
	for _, part := range strings.Fields(location) {
		if strings.HasPrefix(strings.ToLower(part), "host=") || strings.HasPrefix(strings.ToLower(part), "dbname=") {
			return true
		}
	}
	return false
}

func isURLConnString(connStr string) bool {
	return strings.HasPrefix(connStr, constants.PostgresURLPrefix) || strings.HasPrefix(connStr, constants.PostgresURLPrefix2)
}

func (s *PostgresStore) ensureSearchPath() {
	if isURLConnString(s.connStr) {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
		return
	}
	if !hasDSNParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasDSNParam returns true if a DSN-style connection string carries the
// given key (case-insensitive)
func hasDSNParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

// hasSSLMode checks both URL-style and DSN-style connection strings for sslmode
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasDSNParam(connStr, "sslmode")
}

// ValidateConnString checks that a connection string is a well-formed
// PostgreSQL URI or DSN and does not embed a password. Passwords belong in
// ~/.pgpass or PGPASSWORD.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if isURLConnString(connStr) {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	if hasDSNParam(connStr, "password") {
		return ErrEmbeddedCredentials
	}
	return nil
}

func (s *PostgresStore) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	return nil
}

func (s *PostgresStore) Init() error {
	if _, err := pq.NewConnector(s.connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(constants.AppName)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := s.runMigrations(func(msg string) { logger.Info(msg, "backend", "postgres") }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return err
	}
	if current == 0 {
		return fmt.Errorf("postgres schema %s: %w", constants.AppName, ErrNotInitialized)
	}
	return s.validateSchemaVersion()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// GetConfigPath returns the connection string with any password redacted
func (s *PostgresStore) GetConfigPath() string {
	return RedactConnString(s.connStr)
}

// RedactConnString masks the password of a URL or key=value connection string
func RedactConnString(connStr string) string {
	if isURLConnString(connStr) {
		if u, err := url.Parse(connStr); err == nil {
			return u.Redacted()
		}
		return connStr
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(part, "password=") {
			parts[i] = "password=xxxxx"
		}
	}
	return strings.Join(parts, " ")
}
