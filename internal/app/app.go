package app

import (
	"io"
	"net/http"
	"sync"

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

// App wires configuration, the exchange client and the run journal for one
// CLI invocation.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	out           io.Writer
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	exchange      *exchange.Client
	orders        *orders.Service
	symbols       *markets.CachedSymbolClient
	cache         cache.Cache
	storage       storage.Storage
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// Live enables the exchange client, symbol filters and the run journal.
	// Dry runs leave it false and need no credentials.
	Live bool

	Output     io.Writer    // Report output, defaults to os.Stdout
	HTTPClient *http.Client // Optional transport override
}
