package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stayledger/internal/middleware"
	"stayledger/internal/server"
)

const limiterSweepInterval = time.Minute

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	logger := a.logger
	cfg := a.cfg

	logger.Info("starting application",
		"version", version,
		"store_driver", cfg.Store.Driver,
		"account", cfg.Store.AccountID,
	)

	db, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go rateLimiter.RunJanitor(janitorCtx, limiterSweepInterval)

	srv := server.NewServer(a.newReports(db), db, logger,
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)
	gracefulServer.RegisterShutdownHook(func(context.Context) error {
		stopJanitor()
		return nil
	})
	gracefulServer.RegisterShutdownHook(func(context.Context) error {
		logger.Info("closing store")
		return db.Close()
	})

	if err := gracefulServer.Run(ctx); err != nil {
		logger.Error("server failed", "error", err)
		stopJanitor()
		db.Close()
		return err
	}

	logger.Info("application stopped gracefully")
	return nil
}
