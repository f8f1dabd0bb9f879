// Package server assembles the MarketIQ API from configuration and runs it
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	rediscache "github.com/findosh/marketiq/internal/cache/redis"
	"github.com/findosh/marketiq/internal/config"
	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/handlers"
	"github.com/findosh/marketiq/internal/logging"
	"github.com/findosh/marketiq/internal/middleware"
	"github.com/findosh/marketiq/internal/services/marketdata"
	"github.com/findosh/marketiq/internal/services/portfolio"
	"github.com/findosh/marketiq/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP server and the resources behind it
type Server struct {
	cfg    *config.Config
	logger *logging.Logger

	db     *storage.DB
	redis  *rediscache.Client
	Market *marketdata.Service
	Store  *portfolio.Store

	httpServer *http.Server
}

// New opens storage, seeds the reference catalog on first run, selects the
// quote cache and builds the handler chain.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db

	if err := db.Migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	seeded, err := db.SeedIfEmpty(ctx, storage.Seed{
		Assets:        demodata.AllAssets(),
		Narratives:    demodata.Narratives(),
		Overview:      demodata.MarketOverview(),
		Contributions: demodata.Contributions(),
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}
	if seeded {
		logger.Info().Str("database", cfg.DatabaseURL).Msg("reference catalog seeded")
	}

	opts := []marketdata.Option{marketdata.WithLogger(logger.Component("marketdata"))}
	if cfg.MarketData.Cache == "redis" {
		rc, err := rediscache.New(ctx, rediscache.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		s.redis = rc
		opts = append(opts, marketdata.WithCache(rediscache.NewQuoteCache(rc, cfg.MarketData.CacheTTL.Duration)))
	}

	s.Market = marketdata.NewService(marketdata.Config{
		Provider: marketdata.Provider(cfg.MarketData.Provider),
		CacheTTL: cfg.MarketData.CacheTTL.Duration,
	}, storage.NewAssetRepository(db), opts...)

	s.Store = portfolio.NewStore(s.Market, logger.Component("portfolio"))
	s.Store.Seed(demodata.Holdings(), demodata.SubPortfolios())
	if err := s.refreshPrices(ctx); err != nil {
		logger.Warn().Err(err).Msg("price refresh failed, keeping seeded prices")
	}

	h := handlers.New(cfg, s.Market, s.Store, storage.NewContributionRepository(db), logger.Component("handlers"))
	handler := middleware.Chain(
		h.Routes(),
		middleware.Recover(logger),
		middleware.RequestID,
		middleware.SecurityHeaders,
		middleware.CORS(cfg.Server.CORSOrigins),
		middleware.Logger(logger.Component("http")),
	)

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// refreshPrices updates store prices from the catalog
func (s *Server) refreshPrices(ctx context.Context) error {
	holdings, err := s.Store.Holdings("")
	if err != nil {
		return err
	}
	updated, err := s.Market.RefreshHoldings(ctx, holdings)
	if err != nil {
		return err
	}

	prices := make(map[string]decimal.Decimal, len(updated))
	for _, h := range updated {
		prices[h.Symbol] = h.CurrentPrice
	}
	s.Store.UpdatePrices(prices)
	return nil
}

// Handler returns the full middleware chain, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", s.httpServer.Addr).
			Str("environment", s.cfg.Server.Environment).
			Str("cache", s.cfg.MarketData.Cache).
			Msg("MarketIQ server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info().Msg("server stopped")
	return nil
}

// Close releases storage and cache connections
func (s *Server) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
