package storage

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Open picks a backend for a storage location: a PostgreSQL connection
// string, a directory ending in .kv for the diskv store, or otherwise a
// SQLite database file. Connection strings given this way must not carry a
// password.
func Open(location string) (Provider, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("storage location is empty")
	}

	if IsPostgresConnString(location) {
		if err := ValidateConnString(location); err != nil {
			return nil, err
		}
		return NewPostgresStore(location), nil
	}

	path, err := homedir.Expand(location)
	if err != nil {
		return nil, fmt.Errorf("failed to expand storage path: %w", err)
	}
	if IsDiskvLocation(path) {
		return NewDiskvStore(path), nil
	}
	return NewSQLiteStore(path), nil
}
