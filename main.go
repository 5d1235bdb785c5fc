package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bowling-game/internal/config"
	"bowling-game/internal/logging"
	"bowling-game/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, cfg); err != nil {
		logger.Errorw("server stopped", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("successful shutdown")
	logger.Sync()
}

func realMain(ctx context.Context, cfg *config.Config) error {
	srv, err := server.NewServer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer srv.Close()

	logging.FromContext(ctx).Infow("starting server", "port", cfg.Port, "store_driver", cfg.StoreDriver)
	return srv.Run(ctx)
}
