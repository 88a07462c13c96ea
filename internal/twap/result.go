package twap

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the terminal state of a TWAP invocation.
type Status string

const (
	StatusCompleted     Status = "completed"
	StatusPartial       Status = "partial"
	StatusFailed        Status = "failed"
	StatusDryRunPreview Status = "dry_run_preview"
)

// Result aggregates the outcome of one TWAP invocation.
type Result struct {
	RunID            string
	Request          Request
	Plan             *Plan
	OrderIDs         []int64 // In submission order, one per placed chunk
	ExecutedQuantity decimal.Decimal
	Status           Status
	ChunkErrors      map[int]error // Keyed by one-based chunk number
	StartedAt        time.Time
	FinishedAt       time.Time
}

// PlacedCount is the number of chunks the exchange accepted.
func (r *Result) PlacedCount() int {
	return len(r.OrderIDs)
}

// FailedChunks returns the failed chunk numbers in ascending order.
func (r *Result) FailedChunks() []int {
	numbers := make([]int, 0, len(r.ChunkErrors))
	for n := range r.ChunkErrors {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Duration is the wall time the invocation took.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// aggregateStatus derives the terminal execution status from chunk outcomes.
func aggregateStatus(placed, failed int) Status {
	switch {
	case failed == 0:
		return StatusCompleted
	case placed == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// ChunkOutcome is reported to the executor's observer after each chunk attempt.
type ChunkOutcome struct {
	RunID    string
	Chunk    Chunk
	Total    int
	OrderID  int64
	Err      error
	Executed decimal.Decimal // Running executed quantity
}
