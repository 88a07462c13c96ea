package storage

import (
	"context"

	"github.com/mselser95/futures-bot/internal/twap"
)

// Storage is the interface for journaling TWAP runs.
type Storage interface {
	// StoreRun records the outcome of a live TWAP run.
	StoreRun(ctx context.Context, res *twap.Result) error

	// Close closes the storage connection.
	Close() error
}

// ChunkRecord is the per-chunk view of a run that storage backends persist.
type ChunkRecord struct {
	Number        int
	Quantity      string
	OffsetSeconds int
	Status        string // placed, failed
	OrderID       int64  // Zero when not placed
	Error         string
}

// chunkRecords pairs planned chunks with their outcome. Order IDs are
// appended in submission order, so the n-th successful chunk owns the n-th id.
func chunkRecords(res *twap.Result) []ChunkRecord {
	if res.Plan == nil {
		return nil
	}

	records := make([]ChunkRecord, 0, len(res.Plan.Chunks))
	next := 0
	for _, chunk := range res.Plan.Chunks {
		rec := ChunkRecord{
			Number:        chunk.Number(),
			Quantity:      chunk.Quantity.StringFixed(twap.QuantityPrecision),
			OffsetSeconds: chunk.OffsetSeconds,
		}

		if err, failed := res.ChunkErrors[chunk.Number()]; failed {
			rec.Status = "failed"
			rec.Error = err.Error()
		} else if next < len(res.OrderIDs) {
			rec.Status = "placed"
			rec.OrderID = res.OrderIDs[next]
			next++
		} else {
			rec.Status = "failed"
			rec.Error = "no order id recorded"
		}

		records = append(records, rec)
	}

	return records
}

// chunkErrorStrings flattens chunk errors for JSON encoding.
func chunkErrorStrings(res *twap.Result) map[int]string {
	out := make(map[int]string, len(res.ChunkErrors))
	for n, err := range res.ChunkErrors {
		out[n] = err.Error()
	}
	return out
}
