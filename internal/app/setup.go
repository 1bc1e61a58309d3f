package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mselser95/arbcore/internal/book"
	"github.com/mselser95/arbcore/internal/catalog"
	"github.com/mselser95/arbcore/internal/dispatch"
	"github.com/mselser95/arbcore/internal/feed"
	"github.com/mselser95/arbcore/internal/gateway"
	"github.com/mselser95/arbcore/internal/registry"
	"github.com/mselser95/arbcore/internal/risk"
	"github.com/mselser95/arbcore/internal/stats"
	"github.com/mselser95/arbcore/internal/storage"
	"github.com/mselser95/arbcore/pkg/cache"
	"github.com/mselser95/arbcore/pkg/config"
	"github.com/mselser95/arbcore/pkg/healthprobe"
	"github.com/mselser95/arbcore/pkg/httpserver"
	"github.com/mselser95/arbcore/pkg/types"
)

// New creates a new application instance: it fetches the active-market
// catalog once, builds the token registry from it, and wires the
// order-book cache, feed client, risk ledger and dispatcher around it.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	marketCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	catalogProvider := setupCatalogProvider(cfg, marketCache, logger)

	records, err := catalogProvider.ListActiveMarkets(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	if opts.SingleMarket != "" {
		records = filterSingleMarket(records, opts.SingleMarket)
	}

	reg := registry.New(records, logger)
	logger.Info("registry-built", zap.Int("markets", reg.MarketCount()))

	arbStorage, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	tradingGateway, err := setupGateway(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup gateway: %w", err)
	}

	ledger := risk.New(risk.Config{
		MaxPositionPerToken: cfg.MaxPositionQuote,
		MaxTotalExposure:    cfg.MaxTotalExposureQuote,
	})

	bookCache := book.New(logger)

	dispatcher := dispatch.New(reg, bookCache, tradingGateway, ledger, arbStorage, logger, dispatch.Config{
		FeeRate:          cfg.FeeRate,
		MinNetSpread:     cfg.MinNetSpread,
		MaxPositionQuote: cfg.MaxPositionQuote,
		BankrollQuote:    cfg.BankrollQuote,
		PerTradeFraction: cfg.PerTradeFraction,
		CooldownDuration: cfg.CooldownDuration,
	})
	bookCache.OnUpdate(dispatcher.OnTokenUpdate)

	feedClient := feed.New(feed.Config{
		URL:                cfg.PolymarketWSURL,
		BookCache:          bookCache,
		Logger:             logger,
		ReconnectDelay:     cfg.ReconnectDelay,
		SubscribeBatchSize: cfg.SubscribeBatchSize,
		DialTimeout:        cfg.WSDialTimeout,
		PingInterval:       cfg.WSPingInterval,
	})

	statsPrinter := stats.New(feedClient, ledger, cfg.StatsPrintInterval, logger)

	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		BookCache:     bookCache,
		Registry:      reg,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		registry:      reg,
		bookCache:     bookCache,
		feedClient:    feedClient,
		ledger:        ledger,
		dispatcher:    dispatcher,
		statsPrinter:  statsPrinter,
		storage:       arbStorage,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func filterSingleMarket(records []types.MarketRecord, marketID string) []types.MarketRecord {
	for _, rec := range records {
		if rec.ID == marketID {
			return []types.MarketRecord{rec}
		}
	}
	return nil
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupCatalogProvider(cfg *config.Config, appCache cache.Cache, logger *zap.Logger) catalog.Provider {
	gammaClient := catalog.NewGammaClient(cfg.PolymarketGammaURL, logger)
	return catalog.NewCachedProvider(gammaClient, appCache, cfg.CatalogCacheTTL, logger)
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
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

func setupGateway(cfg *config.Config, logger *zap.Logger) (gateway.Gateway, error) {
	if cfg.DryRun {
		logger.Info("gateway-dry-run-enabled")
		return gateway.NewDryRunGateway(logger), nil
	}

	return gateway.NewLiveGateway(gateway.LiveConfig{
		APIKey:        cfg.PolymarketAPIKey,
		Secret:        cfg.PolymarketSecret,
		Passphrase:    cfg.PolymarketPassphrase,
		PrivateKey:    cfg.PolymarketPrivateKey,
		Address:       cfg.PolymarketAddress,
		ProxyAddress:  cfg.PolymarketProxyAddr,
		SignatureType: cfg.PolymarketSigType,
		TickSize:      cfg.PolymarketTickSize,
		Logger:        logger,
	})
}
