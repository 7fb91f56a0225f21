package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stayledger/internal/store"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s, account %s).\n", db.Driver(), a.cfg.Store.AccountID)
			return nil
		},
	}
}

func newSeedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.json>",
		Short: "Load properties, channels, products, bookings and fixed costs from a JSON fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open fixture: %w", err)
			}
			defer f.Close()

			fixture, err := store.DecodeFixture(f)
			if err != nil {
				return err
			}

			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := db.Seed(cmd.Context(), fixture)
			if err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}

			a.logger.Info("fixture loaded", "file", args[0], "bookings", res.Bookings)
			fmt.Fprintf(cmd.OutOrStdout(),
				"Seeded %d properties, %d channels, %d products, %d bookings, %d fixed costs.\n",
				res.Properties, res.Channels, res.Products, res.Bookings, res.FixedCosts)
			return nil
		},
	}
}
