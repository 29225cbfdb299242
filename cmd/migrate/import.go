package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hptracker/backend/internal/characters"
	"github.com/hptracker/backend/internal/infra"
	"github.com/hptracker/backend/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <characters.json>",
	Short: "Copy characters from a JSON file into the configured store",
	Long: `Reads a characters.json file written by the file backend and appends
every record whose id is not stored yet. Records that break the HP rules
are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		records, err := store.NewFileStore(args[0]).Load(ctx)
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		deps, err := infra.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer deps.Close()

		added, err := characters.NewService(deps.Store, logger).Import(ctx, records)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d characters\n", added, len(records))
		return nil
	},
}
