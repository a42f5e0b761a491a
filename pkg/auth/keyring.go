package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "qctl"
	keyringUser    = "postgres-dsn"
)

// ErrNotFound is returned when no credential has been stored yet.
var ErrNotFound = errors.New("no stored credential")

// SetDSN stores the Postgres connection string in the OS keyring so it
// never lands in shell history or config files on disk.
func SetDSN(dsn string) error {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return errors.New("connection string required")
	}

	if err := keyring.Set(keyringService, keyringUser, dsn); err != nil {
		return fmt.Errorf("storing credential in keyring: %w", err)
	}
	return nil
}

// GetDSN retrieves the stored Postgres connection string.
func GetDSN() (string, error) {
	dsn, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading credential from keyring: %w", err)
	}
	return dsn, nil
}

// ClearDSN removes the stored credential. Clearing an absent credential
// is not an error.
func ClearDSN() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("removing credential from keyring: %w", err)
	}
	return nil
}
