package orders

import (
	"regexp"

	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
)

// QuantityPrecision is the finest quantity increment accepted from input.
const QuantityPrecision = 8

// PricePrecision is the finest price increment accepted from input. It
// matches the scale of the journal's price column.
const PricePrecision = 8

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// MarketOrder is a validated market order.
type MarketOrder struct {
	Symbol   string
	Side     types.Side
	Quantity decimal.Decimal
}

// LimitOrder is a validated GTC limit order.
type LimitOrder struct {
	Symbol   string
	Side     types.Side
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// ValidateMarket checks symbol, side and quantity in that order.
func ValidateMarket(symbol, side string, quantity decimal.Decimal) (*MarketOrder, error) {
	err := ValidateSymbol(symbol)
	if err != nil {
		return nil, err
	}

	normalized, err := ValidateSide(side)
	if err != nil {
		return nil, err
	}

	err = ValidateQuantity(quantity)
	if err != nil {
		return nil, err
	}

	return &MarketOrder{Symbol: symbol, Side: normalized, Quantity: quantity}, nil
}

// ValidateLimit checks symbol, side, quantity and price in that order.
func ValidateLimit(symbol, side string, quantity, price decimal.Decimal) (*LimitOrder, error) {
	market, err := ValidateMarket(symbol, side, quantity)
	if err != nil {
		return nil, err
	}

	err = ValidatePrice(price)
	if err != nil {
		return nil, err
	}

	return &LimitOrder{
		Symbol:   market.Symbol,
		Side:     market.Side,
		Quantity: market.Quantity,
		Price:    price,
	}, nil
}

// ValidateSymbol requires a non-empty run of uppercase letters and digits.
func ValidateSymbol(symbol string) error {
	if symbol == "" || !symbolPattern.MatchString(symbol) {
		return types.NewValidationError(types.ErrInvalidSymbol, "symbol",
			"symbol %q must be non-empty uppercase letters and digits", symbol)
	}
	return nil
}

// ValidateSide accepts BUY or SELL in any case and returns the normalized side.
func ValidateSide(side string) (types.Side, error) {
	normalized, err := types.ParseSide(side)
	if err != nil {
		return "", types.NewValidationError(types.ErrInvalidSide, "side",
			"side must be BUY or SELL, got %q", side)
	}
	return normalized, nil
}

// ValidateQuantity requires a positive quantity with at most
// QuantityPrecision decimal places.
func ValidateQuantity(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return types.NewValidationError(types.ErrInvalidQuantity, "quantity",
			"quantity must be greater than 0, got %s", quantity)
	}

	if !quantity.Equal(quantity.Truncate(QuantityPrecision)) {
		return types.NewValidationError(types.ErrInvalidQuantity, "quantity",
			"quantity %s has more than %d decimal places", quantity, QuantityPrecision)
	}

	return nil
}

// ValidatePrice requires a positive price with at most PricePrecision
// decimal places.
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return types.NewValidationError(types.ErrInvalidPrice, "price",
			"price must be greater than 0, got %s", price)
	}

	if !price.Equal(price.Truncate(PricePrecision)) {
		return types.NewValidationError(types.ErrInvalidPrice, "price",
			"price %s has more than %d decimal places", price, PricePrecision)
	}

	return nil
}
