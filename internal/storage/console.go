package storage

import (
	"context"

	"github.com/mselser95/futures-bot/internal/twap"
	"go.uber.org/zap"
)

// ConsoleStorage implements Storage by writing run records to the log.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Debug("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreRun logs one twap-run-recorded entry plus one entry per chunk.
func (c *ConsoleStorage) StoreRun(ctx context.Context, res *twap.Result) error {
	c.logger.Info("twap-run-recorded",
		zap.String("run-id", res.RunID),
		zap.String("symbol", res.Request.Symbol),
		zap.String("side", string(res.Request.Side)),
		zap.String("total-quantity", res.Request.TotalQuantity.StringFixed(twap.QuantityPrecision)),
		zap.String("executed-quantity", res.ExecutedQuantity.StringFixed(twap.QuantityPrecision)),
		zap.Stringer("price", res.Request.Price),
		zap.Int("chunks", res.Request.NumChunks),
		zap.Int("interval-seconds", res.Request.IntervalSeconds),
		zap.String("status", string(res.Status)),
		zap.Int64s("order-ids", res.OrderIDs),
		zap.Any("chunk-errors", chunkErrorStrings(res)),
		zap.Time("started-at", res.StartedAt),
		zap.Time("finished-at", res.FinishedAt))

	for _, rec := range chunkRecords(res) {
		c.logger.Debug("twap-chunk-recorded",
			zap.String("run-id", res.RunID),
			zap.Int("chunk", rec.Number),
			zap.String("quantity", rec.Quantity),
			zap.String("status", rec.Status),
			zap.Int64("order-id", rec.OrderID),
			zap.String("error", rec.Error))
	}

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Debug("closing-console-storage")
	return nil
}
