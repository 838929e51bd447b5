// Package store persists the finance records in a local SQLite
// database. It is the storage collaborator the core hands its results
// to: the planner never touches the database itself.
//
// Monetary amounts are stored as decimal strings and dates as
// YYYY-MM-DD text, so nothing is lost to binary floating point on the
// way through the database.
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"

	"kopilka/finance"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a SQLite-backed repository for every record type.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path and brings the schema up
// to date.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func runMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// parseAmount reads a stored decimal string, treating empty as zero.
func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt amount %q in database: %w", value, err)
	}
	return d, nil
}

// parseDate reads a stored date, treating empty as absent.
func parseDate(value string) (*finance.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := finance.NewDate(value)
	if err != nil {
		return nil, fmt.Errorf("corrupt date %q in database: %w", value, err)
	}
	return &d, nil
}

// dateString renders an optional date for storage.
func dateString(d *finance.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
