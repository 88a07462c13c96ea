package twap

import (
	"github.com/mselser95/futures-bot/internal/orders"
	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
)

// QuantityPrecision is the number of decimal places the plan works in.
// One unit at this precision is the smallest chunk that can be produced.
const QuantityPrecision = orders.QuantityPrecision

// MaxChunks bounds the schedule, which is built in memory before the first
// submission.
const MaxChunks = 10000

// Request is a validated TWAP order. Build it with ValidateInputs.
type Request struct {
	Symbol          string
	Side            types.Side
	TotalQuantity   decimal.Decimal
	Price           decimal.Decimal // Applied to every chunk
	NumChunks       int
	IntervalSeconds int
	DryRun          bool
}

// ValidateInputs checks TWAP parameters in a fixed order and returns the
// normalized request. It has no side effects; the first failing check wins.
func ValidateInputs(
	symbol string,
	side string,
	totalQuantity decimal.Decimal,
	price decimal.Decimal,
	numChunks int,
	intervalSeconds int,
) (*Request, error) {
	err := orders.ValidateSymbol(symbol)
	if err != nil {
		return nil, err
	}

	normalizedSide, err := orders.ValidateSide(side)
	if err != nil {
		return nil, err
	}

	err = orders.ValidateQuantity(totalQuantity)
	if err != nil {
		return nil, err
	}

	err = orders.ValidatePrice(price)
	if err != nil {
		return nil, err
	}

	if numChunks <= 0 {
		return nil, types.NewValidationError(types.ErrInvalidChunkCount, "chunks",
			"number of chunks must be greater than 0, got %d", numChunks)
	}
	if numChunks > MaxChunks {
		return nil, types.NewValidationError(types.ErrInvalidChunkCount, "chunks",
			"number of chunks must be at most %d, got %d", MaxChunks, numChunks)
	}

	// Every chunk must receive at least one minimum unit.
	units := totalQuantity.Shift(QuantityPrecision)
	if decimal.NewFromInt(int64(numChunks)).GreaterThan(units) {
		return nil, types.NewValidationError(types.ErrChunksExceedQuantity, "chunks",
			"%d chunks exceed total quantity %s (%s units of %s)",
			numChunks, totalQuantity, units, minimumUnit())
	}

	if intervalSeconds < 0 {
		return nil, types.NewValidationError(types.ErrInvalidInterval, "interval",
			"interval must be 0 or more seconds, got %d", intervalSeconds)
	}

	return &Request{
		Symbol:          symbol,
		Side:            normalizedSide,
		TotalQuantity:   totalQuantity,
		Price:           price,
		NumChunks:       numChunks,
		IntervalSeconds: intervalSeconds,
	}, nil
}

func minimumUnit() decimal.Decimal {
	return decimal.New(1, -QuantityPrecision)
}
