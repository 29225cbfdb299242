// Package migrations applies the SQL schema of the database backends.
// Files live under sql/<dialect> and are embedded into the binary.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/hptracker/backend/internal/store"
)

//go:embed sql
var files embed.FS

// Runner runs migrations against an already opened database. It never
// closes the database handle.
type Runner struct {
	db      *sql.DB
	dialect store.Dialect
}

func NewRunner(db *sql.DB, dialect store.Dialect) *Runner {
	return &Runner{db: db, dialect: dialect}
}

// Up applies all pending migrations.
func (r *Runner) Up() error {
	m, err := r.migrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back steps migrations, or all of them when steps <= 0.
func (r *Runner) Down(steps int) error {
	m, err := r.migrator()
	if err != nil {
		return err
	}
	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version returns the applied schema version; ok is false on an empty database.
func (r *Runner) Version() (version uint, dirty bool, ok bool, err error) {
	m, err := r.migrator()
	if err != nil {
		return 0, false, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("migrate version: %w", err)
	}
	return version, dirty, true, nil
}

func (r *Runner) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(files, "sql/"+string(r.dialect))
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	var drv database.Driver
	switch r.dialect {
	case store.SQLite:
		drv, err = sqlite.WithInstance(r.db, &sqlite.Config{})
	case store.Postgres:
		drv, err = pgxmigrate.WithInstance(r.db, &pgxmigrate.Config{})
	default:
		return nil, fmt.Errorf("unsupported dialect %q", r.dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(r.dialect), drv)
	if err != nil {
		return nil, fmt.Errorf("migrate init: %w", err)
	}
	return m, nil
}
