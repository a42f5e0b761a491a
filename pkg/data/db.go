package data

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"log/slog"

	_ "modernc.org/sqlite"
)

// DataFileName is the default embedded database file name.
const DataFileName = "rates.db"

//go:embed sql/ddl.sql
var ddlFS embed.FS

var errDBNotInitialized = errors.New("database not initialized")

// Init creates the SQLite database file and its schema when missing.
// Safe to call repeatedly.
func Init(dbFilePath string) error {
	if dbFilePath == "" {
		return errors.New("dbFilePath not specified")
	}

	if _, err := os.Stat(dbFilePath); errors.Is(err, os.ErrNotExist) {
		db, err := GetDB(dbFilePath)
		if err != nil {
			return fmt.Errorf("opening database %s: %w", dbFilePath, err)
		}
		defer db.Close()

		slog.Debug("creating db schema", "path", dbFilePath)
		b, err := ddlFS.ReadFile("sql/ddl.sql")
		if err != nil {
			return fmt.Errorf("reading schema file: %w", err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			return fmt.Errorf("creating schema in %s: %w", dbFilePath, err)
		}
		slog.Debug("db schema created")
	}

	return nil
}

// GetDB opens the SQLite database at the given path.
func GetDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return conn, nil
}
