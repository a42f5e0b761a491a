package data

import (
	"database/sql"
	"strconv"
	"strings"
)

const (
	// DriverSQLite is the embedded default store.
	DriverSQLite = "sqlite"
	// DriverPostgres is the shared store, selected when a DSN is supplied.
	DriverPostgres = "postgres"
)

// Store wraps a SQL database and answers the record-store queries the
// quoting engine consumes. The same statements serve both drivers; only
// placeholder syntax differs.
type Store struct {
	db     *sql.DB
	driver string
}

// NewStore wraps an open database handle. A nil db is valid: queries
// return empty results rather than erroring, per the documented
// store-unavailable policy.
func NewStore(db *sql.DB, driver string) *Store {
	if driver == "" {
		driver = DriverSQLite
	}
	return &Store{db: db, driver: driver}
}

// DB exposes the underlying handle for lifecycle management.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver reports which SQL dialect the store speaks.
func (s *Store) Driver() string {
	return s.driver
}

// rebind rewrites ? placeholders to $N for the Postgres driver.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
