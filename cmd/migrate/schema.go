package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hptracker/backend/internal/config"
	"github.com/hptracker/backend/internal/db"
	"github.com/hptracker/backend/internal/migrations"
	"github.com/hptracker/backend/internal/store"
)

var errFileBackend = errors.New("the file backend has no schema; set STORE_BACKEND to sqlite or postgres")

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd.Context(), func(r *migrations.Runner) error {
			if err := r.Up(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations: up ok")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		return withRunner(cmd.Context(), func(r *migrations.Runner) error {
			if err := r.Down(steps); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations: down ok")
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd.Context(), func(r *migrations.Runner) error {
			v, dirty, ok, err := r.Version()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		})
	},
}

func init() {
	downCmd.Flags().Int("steps", 0, "number of steps (0 = all)")
}

func withRunner(ctx context.Context, fn func(*migrations.Runner) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, dialect, closeFn, err := openSQL(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(migrations.NewRunner(conn, dialect))
}

func openSQL(ctx context.Context, c config.Config) (*sql.DB, store.Dialect, func(), error) {
	switch c.Store.Backend {
	case config.BackendSQLite:
		conn, err := db.OpenSQLite(ctx, c.Store.Path)
		if err != nil {
			return nil, "", nil, err
		}
		return conn, store.SQLite, func() { _ = conn.Close() }, nil
	case config.BackendPostgres:
		conn, pool, err := db.OpenPostgres(ctx, c.Postgres)
		if err != nil {
			return nil, "", nil, err
		}
		return conn, store.Postgres, func() { _ = conn.Close(); pool.Close() }, nil
	case config.BackendFile:
		return nil, "", nil, errFileBackend
	}
	return nil, "", nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
}
