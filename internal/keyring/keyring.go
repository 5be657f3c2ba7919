package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/storage"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Status describes the keyring and whether a connection string is stored
type Status struct {
	Available bool
	Stored    bool
	// Redacted is the stored connection string with its password masked
	Redacted string
}

// Credentials reads and writes the PostgreSQL connection string kept under
// one keyring entry.
type Credentials struct {
	service string
	user    string
}

// New returns credentials for the habithub service; an empty user selects the default entry
func New(user string) *Credentials {
	if user == "" {
		user = constants.DefaultKeyringUser
	}
	return &Credentials{service: constants.AppName, user: user}
}

func (c *Credentials) Get() (string, error) {
	connStr, err := keyring.Get(c.service, c.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// Set stores a connection string. Embedded passwords are accepted because
// the keyring is encrypted; Set reports whether one was present.
func (c *Credentials) Set(connStr string) (embedded bool, err error) {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return false, errors.New("connection string cannot be empty")
	}
	if !storage.IsPostgresConnString(connStr) {
		return false, storage.ErrInvalidConnectionString
	}
	if err := storage.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, storage.ErrEmbeddedCredentials) {
			return false, err
		}
		embedded = true
	}

	if err := keyring.Set(c.service, c.user, connStr); err != nil {
		return false, fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return embedded, nil
}

func (c *Credentials) Delete() error {
	err := keyring.Delete(c.service, c.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Status probes the keyring with a read. A missing entry still means the
// keyring itself works.
func (c *Credentials) Status() Status {
	connStr, err := c.Get()
	switch {
	case err == nil:
		return Status{Available: true, Stored: true, Redacted: storage.RedactConnString(connStr)}
	case errors.Is(err, ErrNotFound):
		return Status{Available: true}
	default:
		return Status{}
	}
}
