package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hptracker/backend/internal/characters"
)

// Dialect is the SQL flavour of a database/sql backend.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) placeholders(n int) []any {
	out := make([]any, n)
	for i := range out {
		if d == Postgres {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// SQLStore keeps the collection in the characters table. Save replaces
// every row in one transaction; position preserves insertion order.
type SQLStore struct {
	db        *sql.DB
	dialect   Dialect
	insertSQL string
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	insert := fmt.Sprintf(
		"INSERT INTO characters (id, position, name, max_hp, current_hp) VALUES (%s, %s, %s, %s, %s)",
		dialect.placeholders(5)...,
	)
	return &SQLStore{db: db, dialect: dialect, insertSQL: insert}
}

const selectCharacters = `SELECT id, name, max_hp, current_hp FROM characters ORDER BY position`

func (s *SQLStore) Load(ctx context.Context) ([]characters.Character, error) {
	rows, err := s.db.QueryContext(ctx, selectCharacters)
	if err != nil {
		return nil, fmt.Errorf("query characters: %w", err)
	}
	defer rows.Close()

	list := []characters.Character{}
	for rows.Next() {
		var c characters.Character
		if err := rows.Scan(&c.ID, &c.Name, &c.MaxHP, &c.CurrentHP); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characters: %w", err)
	}
	return list, nil
}

func (s *SQLStore) Save(ctx context.Context, list []characters.Character) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM characters`); err != nil {
		return fmt.Errorf("clear characters: %w", err)
	}
	for i, c := range list {
		if _, err := tx.ExecContext(ctx, s.insertSQL, c.ID, i, c.Name, c.MaxHP, c.CurrentHP); err != nil {
			return fmt.Errorf("insert character %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
