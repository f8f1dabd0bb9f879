// MarketIQ - market intelligence and portfolio analytics
// Entry point for the API server
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/findosh/marketiq/internal/config"
	"github.com/findosh/marketiq/internal/logging"
	"github.com/findosh/marketiq/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logging.New("info").Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logging.New("info").Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.NewForFormat(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize server")
	}
	defer srv.Close()

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited")
		srv.Close()
		os.Exit(1)
	}
}
