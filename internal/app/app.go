package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mselser95/arbcore/internal/book"
	"github.com/mselser95/arbcore/internal/dispatch"
	"github.com/mselser95/arbcore/internal/feed"
	"github.com/mselser95/arbcore/internal/registry"
	"github.com/mselser95/arbcore/internal/risk"
	"github.com/mselser95/arbcore/internal/stats"
	"github.com/mselser95/arbcore/internal/storage"
	"github.com/mselser95/arbcore/pkg/config"
	"github.com/mselser95/arbcore/pkg/healthprobe"
	"github.com/mselser95/arbcore/pkg/httpserver"
)

// App is the main application orchestrator: it wires the catalog
// fetch, registry, order-book cache, feed client, arbitrage dispatcher
// and supporting services into a single runnable unit.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	registry      *registry.Registry
	bookCache     *book.Cache
	feedClient    *feed.Client
	ledger        *risk.Ledger
	dispatcher    *dispatch.Dispatcher
	statsPrinter  *stats.Printer
	storage       storage.Storage

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// SingleMarket restricts the feed subscription to a single market
	// id, for debugging.
	SingleMarket string
}
