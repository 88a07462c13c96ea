package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mselser95/futures-bot/internal/orders"
	"github.com/mselser95/futures-bot/internal/twap"
	"github.com/mselser95/futures-bot/pkg/healthprobe"
	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Start launches the optional metrics endpoint and marks the app ready.
func (a *App) Start() {
	if a.httpServer != nil {
		a.wg.Add(1)
		go a.runHTTPServer()
	}

	a.healthChecker.SetReady(true)
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

// PlaceMarket submits one market order after the symbol filter preflight.
func (a *App) PlaceMarket(ctx context.Context, order *orders.MarketOrder) (*types.OrderResponse, error) {
	if a.orders == nil {
		return nil, fmt.Errorf("market orders require a live app")
	}

	a.preflight(ctx, order.Symbol, order.Quantity, decimal.Zero)
	resp, err := a.orders.PlaceMarketOrder(ctx, order.Symbol, order.Side, order.Quantity)
	if err != nil {
		a.dropStaleFilters(order.Symbol, err)
		return nil, err
	}
	return resp, nil
}

// PlaceLimit submits one GTC limit order after the symbol filter preflight.
func (a *App) PlaceLimit(ctx context.Context, order *orders.LimitOrder) (*types.OrderResponse, error) {
	if a.orders == nil {
		return nil, fmt.Errorf("limit orders require a live app")
	}

	a.preflight(ctx, order.Symbol, order.Quantity, order.Price)
	resp, err := a.orders.PlaceLimitOrder(ctx, order.Symbol, order.Side, order.Quantity, order.Price)
	if err != nil {
		a.dropStaleFilters(order.Symbol, err)
		return nil, err
	}
	return resp, nil
}

// RunTWAP executes req, prints the summary of a live run and journals it.
// The returned result is never nil.
func (a *App) RunTWAP(ctx context.Context, req *twap.Request) (*twap.Result, error) {
	cfg := &twap.Config{
		Logger: a.logger,
		Output: a.out,
		OnChunk: func(o twap.ChunkOutcome) {
			a.publishChunk(o)
			if o.Err != nil {
				a.dropStaleFilters(req.Symbol, o.Err)
			}
		},
	}

	plan := twap.NewPlan(req.TotalQuantity, req.NumChunks, req.IntervalSeconds)

	if !req.DryRun {
		if a.orders == nil {
			return nil, fmt.Errorf("live TWAP runs require a live app")
		}
		cfg.Placer = a.orders

		// The last chunk carries the remainder and can break the step size
		// even when the others do not.
		for _, qty := range plan.DistinctQuantities() {
			a.preflight(ctx, req.Symbol, qty, req.Price)
		}
	}

	executor, err := twap.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create twap executor: %w", err)
	}

	a.healthChecker.SetProgress(healthprobe.Progress{
		Symbol:           req.Symbol,
		Side:             string(req.Side),
		TotalChunks:      req.NumChunks,
		ExecutedQuantity: decimal.Zero.StringFixed(twap.QuantityPrecision),
		Status:           "running",
	})

	result := executor.ExecutePlan(ctx, req, plan)

	a.healthChecker.UpdateProgress(func(p *healthprobe.Progress) {
		p.RunID = result.RunID
		p.Status = string(result.Status)
	})

	if result.Status == twap.StatusDryRunPreview {
		return result, nil
	}

	twap.WriteSummary(a.out, result)
	a.journal(ctx, result)

	return result, nil
}

func (a *App) publishChunk(o twap.ChunkOutcome) {
	a.healthChecker.UpdateProgress(func(p *healthprobe.Progress) {
		p.RunID = o.RunID
		p.ExecutedQuantity = o.Executed.StringFixed(twap.QuantityPrecision)
		if o.Err != nil {
			p.FailedChunks++
			return
		}
		p.PlacedChunks++
		p.LastOrderID = o.OrderID
	})
}

// journal stores the run. Failures are logged only; the run already happened.
func (a *App) journal(ctx context.Context, result *twap.Result) {
	if a.storage == nil {
		return
	}

	// The run context may already be cancelled by the signal that ended it.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	err := a.storage.StoreRun(storeCtx, result)
	if err != nil {
		a.logger.Error("twap-run-journal-failed",
			zap.String("run-id", result.RunID),
			zap.Error(err))
	}
}

// preflight warns when the symbol filters suggest the exchange will reject
// the order. It never blocks the order.
func (a *App) preflight(ctx context.Context, symbol string, quantity, price decimal.Decimal) {
	if a.symbols == nil {
		return
	}

	filters, err := a.symbols.GetSymbolFilters(ctx, symbol)
	if err != nil {
		a.logger.Warn("symbol-filters-unavailable",
			zap.String("symbol", symbol),
			zap.Error(err))
		return
	}

	warnings := filters.CheckOrder(quantity, price)
	for _, w := range warnings {
		a.logger.Warn("order-filter-warning",
			zap.String("symbol", symbol),
			zap.String("warning", w))
	}
	if len(warnings) > 0 {
		fmt.Fprintf(a.out, "Warning: %s\n", strings.Join(warnings, "; "))
	}
}

// dropStaleFilters forgets the cached filters for symbol when the exchange
// rejects an order on a filter, so the next lookup sees current rules.
func (a *App) dropStaleFilters(symbol string, err error) {
	var apiErr *types.APIError
	if a.symbols == nil || !errors.As(err, &apiErr) || apiErr.Code != types.ErrCodeInvalidQuantity {
		return
	}

	a.symbols.Invalidate(symbol)
	a.logger.Info("symbol-filters-invalidated",
		zap.String("symbol", symbol),
		zap.Int("code", apiErr.Code))
}
