package twap

import (
	"time"

	"github.com/shopspring/decimal"
)

// Chunk is one sub-order of the schedule.
type Chunk struct {
	Index         int // Zero-based position in the schedule
	Quantity      decimal.Decimal
	OffsetSeconds int // Index * interval
}

// Number is the one-based chunk number used in reports and error maps.
func (c Chunk) Number() int {
	return c.Index + 1
}

// Plan is the deterministic chunk schedule for a request.
type Plan struct {
	ChunkSize       decimal.Decimal
	Remainder       decimal.Decimal
	IntervalSeconds int
	Chunks          []Chunk
}

// NewPlan splits totalQuantity into numChunks equal chunks truncated to
// QuantityPrecision decimals. The remainder goes to the last chunk so the
// chunks always sum to totalQuantity exactly.
func NewPlan(totalQuantity decimal.Decimal, numChunks int, intervalSeconds int) *Plan {
	plan := &Plan{
		ChunkSize:       decimal.Zero,
		Remainder:       totalQuantity,
		IntervalSeconds: intervalSeconds,
	}
	if numChunks <= 0 {
		return plan
	}

	n := decimal.NewFromInt(int64(numChunks))
	chunkSize, _ := totalQuantity.QuoRem(n, QuantityPrecision)
	remainder := totalQuantity.Sub(chunkSize.Mul(n))

	plan.ChunkSize = chunkSize
	plan.Remainder = remainder
	plan.Chunks = make([]Chunk, numChunks)
	for i := range plan.Chunks {
		qty := chunkSize
		if i == numChunks-1 {
			qty = chunkSize.Add(remainder)
		}
		plan.Chunks[i] = Chunk{
			Index:         i,
			Quantity:      qty,
			OffsetSeconds: i * intervalSeconds,
		}
	}

	return plan
}

// DistinctQuantities returns each distinct chunk quantity once, in schedule
// order. Only the last chunk can differ, so there are at most two.
func (p *Plan) DistinctQuantities() []decimal.Decimal {
	var quantities []decimal.Decimal
	for _, c := range p.Chunks {
		if len(quantities) > 0 && quantities[len(quantities)-1].Equal(c.Quantity) {
			continue
		}
		quantities = append(quantities, c.Quantity)
	}
	return quantities
}

// Total returns the sum of all chunk quantities.
func (p *Plan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range p.Chunks {
		total = total.Add(c.Quantity)
	}
	return total
}

// DurationSeconds is the time from the first submission to the last.
func (p *Plan) DurationSeconds() int {
	if len(p.Chunks) == 0 {
		return 0
	}
	return (len(p.Chunks) - 1) * p.IntervalSeconds
}

// Interval returns the inter-chunk delay.
func (p *Plan) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}
