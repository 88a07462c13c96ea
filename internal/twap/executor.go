package twap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrPlacerNotConfigured is recorded against every chunk of a live run
// started without an order placer.
var ErrPlacerNotConfigured = errors.New("order placer not configured")

// OrderPlacer submits one limit order and returns the exchange acknowledgement.
type OrderPlacer interface {
	PlaceLimitOrder(ctx context.Context, symbol string, side types.Side, quantity, price decimal.Decimal) (*types.OrderResponse, error)
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Executor runs TWAP schedules. Chunks are submitted strictly one at a time.
// A failed chunk is recorded and the schedule continues with the next one.
type Executor struct {
	placer  OrderPlacer
	logger  *zap.Logger
	out     io.Writer
	sleep   SleepFunc
	now     func() time.Time
	onChunk func(ChunkOutcome)
}

// Config holds executor configuration.
type Config struct {
	Placer  OrderPlacer // Optional for dry runs
	Logger  *zap.Logger
	Output  io.Writer // Report output, defaults to os.Stdout
	Sleep   SleepFunc // Defaults to a context-aware timer
	Now     func() time.Time
	OnChunk func(ChunkOutcome) // Optional progress observer
}

// New creates a new TWAP executor.
func New(cfg *Config) (*Executor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	e := &Executor{
		placer:  cfg.Placer,
		logger:  cfg.Logger,
		out:     cfg.Output,
		sleep:   cfg.Sleep,
		now:     cfg.Now,
		onChunk: cfg.OnChunk,
	}
	if e.out == nil {
		e.out = os.Stdout
	}
	if e.sleep == nil {
		e.sleep = sleepContext
	}
	if e.now == nil {
		e.now = time.Now
	}

	return e, nil
}

// Execute computes the plan for req and either renders it (dry run) or
// submits each chunk in order, waiting the interval between submissions.
// Per-chunk failures never escape; inspect Result.Status and ChunkErrors.
func (e *Executor) Execute(ctx context.Context, req *Request) *Result {
	return e.ExecutePlan(ctx, req, nil)
}

// ExecutePlan is Execute with a plan the caller already computed for req,
// e.g. to check chunk sizes before submission. A nil plan is computed here.
func (e *Executor) ExecutePlan(ctx context.Context, req *Request, plan *Plan) *Result {
	if plan == nil {
		plan = NewPlan(req.TotalQuantity, req.NumChunks, req.IntervalSeconds)
	}

	result := &Result{
		RunID:            uuid.NewString(),
		Request:          *req,
		Plan:             plan,
		OrderIDs:         make([]int64, 0, len(plan.Chunks)),
		ExecutedQuantity: decimal.Zero,
		ChunkErrors:      make(map[int]error),
		StartedAt:        e.now(),
	}

	logger := e.logger.With(
		zap.String("run-id", result.RunID),
		zap.String("symbol", req.Symbol),
		zap.String("side", string(req.Side)))

	logger.Info("twap-execution-starting",
		zap.Stringer("total-quantity", req.TotalQuantity),
		zap.Stringer("price", req.Price),
		zap.Int("chunks", req.NumChunks),
		zap.Int("interval-seconds", req.IntervalSeconds),
		zap.String("chunk-size", plan.ChunkSize.StringFixed(QuantityPrecision)),
		zap.String("remainder", plan.Remainder.StringFixed(QuantityPrecision)),
		zap.Bool("dry-run", req.DryRun))

	if req.DryRun {
		WriteDryRunPlan(e.out, req, plan)
		result.Status = StatusDryRunPreview
		result.FinishedAt = e.now()
		RunsTotal.WithLabelValues(string(result.Status)).Inc()
		logger.Info("twap-dry-run-rendered", zap.Int("planned-orders", len(plan.Chunks)))
		return result
	}

	total := len(plan.Chunks)
	for i, chunk := range plan.Chunks {
		if i > 0 {
			logger.Info("twap-waiting", zap.Int("seconds", req.IntervalSeconds))
			err := e.sleep(ctx, plan.Interval())
			if err != nil {
				e.abandon(logger, result, plan.Chunks[i:], err)
				break
			}
		}

		e.submitChunk(ctx, logger, req, result, chunk, total)
	}

	result.Status = aggregateStatus(result.PlacedCount(), len(result.ChunkErrors))
	result.FinishedAt = e.now()

	RunsTotal.WithLabelValues(string(result.Status)).Inc()
	RunDurationSeconds.Observe(result.Duration().Seconds())

	logger.Info("twap-execution-finished",
		zap.String("status", string(result.Status)),
		zap.Int64s("order-ids", result.OrderIDs),
		zap.String("executed-quantity", result.ExecutedQuantity.StringFixed(QuantityPrecision)),
		zap.Ints("failed-chunks", result.FailedChunks()),
		zap.Duration("duration", result.Duration()))

	return result
}

func (e *Executor) submitChunk(
	ctx context.Context,
	logger *zap.Logger,
	req *Request,
	result *Result,
	chunk Chunk,
	total int,
) {
	qty := chunk.Quantity.StringFixed(QuantityPrecision)
	logger.Info("twap-chunk-submitting",
		zap.Int("chunk", chunk.Number()),
		zap.Int("of", total),
		zap.String("quantity", qty),
		zap.Stringer("price", req.Price))

	start := time.Now()
	var (
		resp *types.OrderResponse
		err  error
	)
	if e.placer == nil {
		err = ErrPlacerNotConfigured
	} else {
		resp, err = e.placer.PlaceLimitOrder(ctx, req.Symbol, req.Side, chunk.Quantity, req.Price)
	}
	ChunkSubmitDurationSeconds.Observe(time.Since(start).Seconds())

	if err == nil && resp == nil {
		err = fmt.Errorf("empty order response")
	}

	outcome := ChunkOutcome{RunID: result.RunID, Chunk: chunk, Total: total}

	if err != nil {
		result.ChunkErrors[chunk.Number()] = err
		ChunksTotal.WithLabelValues("failed").Inc()

		logger.Error("twap-chunk-failed",
			zap.Int("chunk", chunk.Number()),
			zap.Int("of", total),
			zap.String("quantity", qty),
			zap.Error(err))
		fmt.Fprintf(e.out, "✗ Order %d/%d failed: %v\n", chunk.Number(), total, err)

		outcome.Err = err
	} else {
		result.OrderIDs = append(result.OrderIDs, resp.OrderID)
		result.ExecutedQuantity = result.ExecutedQuantity.Add(chunk.Quantity)
		ChunksTotal.WithLabelValues("placed").Inc()
		ExecutedQuantityTotal.WithLabelValues(req.Symbol, string(req.Side)).Add(chunk.Quantity.InexactFloat64())

		logger.Info("twap-chunk-placed",
			zap.Int("chunk", chunk.Number()),
			zap.Int("of", total),
			zap.Int64("order-id", resp.OrderID),
			zap.String("order-status", resp.Status),
			zap.String("executed-so-far", result.ExecutedQuantity.StringFixed(QuantityPrecision)))
		fmt.Fprintf(e.out, "✓ Order %d/%d placed (Order ID: %d)\n", chunk.Number(), total, resp.OrderID)

		outcome.OrderID = resp.OrderID
	}

	outcome.Executed = result.ExecutedQuantity
	if e.onChunk != nil {
		e.onChunk(outcome)
	}
}

// abandon records every remaining chunk as not submitted after the wait was
// interrupted.
func (e *Executor) abandon(logger *zap.Logger, result *Result, remaining []Chunk, cause error) {
	logger.Warn("twap-execution-interrupted",
		zap.Int("remaining-chunks", len(remaining)),
		zap.Error(cause))

	for _, chunk := range remaining {
		err := fmt.Errorf("chunk not submitted: %w", cause)
		result.ChunkErrors[chunk.Number()] = err
		ChunksTotal.WithLabelValues("abandoned").Inc()
		if e.onChunk != nil {
			e.onChunk(ChunkOutcome{
				RunID:    result.RunID,
				Chunk:    chunk,
				Total:    len(result.Plan.Chunks),
				Err:      err,
				Executed: result.ExecutedQuantity,
			})
		}
	}
}

// sleepContext waits for d unless ctx is done first.
func sleepContext(ctx context.Context, d time.Duration) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
