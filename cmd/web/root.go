package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"stayledger/internal/config"
	"stayledger/internal/observability"
	"stayledger/internal/services"
	"stayledger/internal/store"
)

const version = "1.0.0"

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	envFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "stayledger",
		Short:         "Financial and tourist-tax reporting for short-term rentals",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.envFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			a.logger = observability.NewLogger(cfg.Logger)
			slog.SetDefault(a.logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file to load (default .env)")

	cmd.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
		newSeedCommand(a),
		newReportCommand(a),
	)
	return cmd
}

// openStore connects to the configured store and brings its schema up to
// date.
func (a *app) openStore(ctx context.Context) (*store.DB, error) {
	db, err := store.Open(ctx, a.cfg.Store.Driver, a.cfg.Store.DSN, a.cfg.Store.AccountID)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (a *app) newReports(db *store.DB) *services.Reports {
	return services.NewReports(db, a.cfg.TaxRule(), a.logger)
}
