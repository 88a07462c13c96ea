package app

import (
	"context"
	"fmt"
	"os"

	"github.com/mselser95/futures-bot/internal/exchange"
	"github.com/mselser95/futures-bot/internal/markets"
	"github.com/mselser95/futures-bot/internal/orders"
	"github.com/mselser95/futures-bot/internal/storage"
	"github.com/mselser95/futures-bot/pkg/cache"
	"github.com/mselser95/futures-bot/pkg/config"
	"github.com/mselser95/futures-bot/pkg/healthprobe"
	"github.com/mselser95/futures-bot/pkg/httpserver"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	a := &App{
		cfg:           cfg,
		logger:        logger,
		out:           opts.Output,
		healthChecker: setupHealthChecker(),
	}
	if a.out == nil {
		a.out = os.Stdout
	}

	if cfg.MetricsPort != "" {
		a.httpServer = setupHTTPServer(cfg, logger, a.healthChecker)
	}

	if !opts.Live {
		return a, nil
	}

	err := cfg.ValidateCredentials()
	if err != nil {
		return nil, err
	}

	a.exchange, err = setupExchangeClient(cfg, logger, opts)
	if err != nil {
		return nil, fmt.Errorf("setup exchange client: %w", err)
	}

	a.orders, err = orders.NewService(&orders.ServiceConfig{
		Client:              a.exchange,
		Logger:              logger,
		ClientOrderIDPrefix: "fb",
	})
	if err != nil {
		return nil, fmt.Errorf("setup order service: %w", err)
	}

	a.cache, err = setupCache(logger)
	if err != nil {
		return nil, fmt.Errorf("setup cache: %w", err)
	}
	a.symbols = markets.NewCachedSymbolClient(markets.NewMetadataClient(a.exchange), a.cache, cfg.SymbolCacheTTL, logger)

	a.storage, err = setupStorage(ctx, cfg, logger)
	if err != nil {
		a.cache.Close()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	return a, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.MetricsPort,
		Logger:        logger,
		HealthChecker: healthChecker,
	})
}

func setupExchangeClient(cfg *config.Config, logger *zap.Logger, opts *Options) (*exchange.Client, error) {
	return exchange.NewClient(&exchange.Config{
		BaseURL:    cfg.FuturesURL,
		APIKey:     cfg.APIKey,
		APISecret:  cfg.APISecret,
		RecvWindow: cfg.RecvWindow,
		Timeout:    cfg.HTTPTimeout,
		HTTPClient: opts.HTTPClient,
		Logger:     logger,
	})
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		Name:        "symbol-filters",
		NumCounters: 10000, // 10x expected max items
		MaxCost:     1000,  // Maximum 1000 symbols in cache
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == config.StorageModePostgres {
		pgStorage, err := storage.NewPostgresStorage(ctx, &storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}
