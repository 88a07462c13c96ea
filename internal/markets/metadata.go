package markets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
)

// ErrSymbolNotFound is returned when the exchange does not list a symbol.
var ErrSymbolNotFound = errors.New("symbol not listed")

// ExchangeInfoSource returns the exchange trading rules.
type ExchangeInfoSource interface {
	ExchangeInfo(ctx context.Context) (*types.ExchangeInfo, error)
}

// SymbolFilters are the trading rules the bot checks before placing orders.
type SymbolFilters struct {
	Symbol    string
	Status    string
	MinQty    decimal.Decimal // LOT_SIZE minQty
	StepSize  decimal.Decimal // LOT_SIZE stepSize
	TickSize  decimal.Decimal // PRICE_FILTER tickSize
	FetchedAt time.Time
}

// MetadataClient extracts symbol filters from exchange info.
type MetadataClient struct {
	source ExchangeInfoSource
}

// NewMetadataClient creates a new metadata client
func NewMetadataClient(source ExchangeInfoSource) *MetadataClient {
	return &MetadataClient{source: source}
}

// FetchAllFilters fetches filters for every listed symbol in one request.
func (c *MetadataClient) FetchAllFilters(ctx context.Context) (map[string]*SymbolFilters, error) {
	start := time.Now()
	info, err := c.source.ExchangeInfo(ctx)
	MetadataFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		MetadataFetchErrorsTotal.Inc()
		return nil, fmt.Errorf("fetch exchange info: %w", err)
	}

	now := time.Now()
	filters := make(map[string]*SymbolFilters, len(info.Symbols))
	for i := range info.Symbols {
		sf := filtersFor(&info.Symbols[i])
		sf.FetchedAt = now
		filters[sf.Symbol] = sf
	}

	return filters, nil
}

func filtersFor(info *types.SymbolInfo) *SymbolFilters {
	sf := &SymbolFilters{
		Symbol: info.Symbol,
		Status: info.Status,
	}
	if lot := info.Filter(types.FilterLotSize); lot != nil {
		sf.MinQty = lot.MinQty
		sf.StepSize = lot.StepSize
	}
	if price := info.Filter(types.FilterPriceFilter); price != nil {
		sf.TickSize = price.TickSize
	}
	return sf
}

// CheckOrder returns human-readable warnings for a quantity and price that
// the exchange is likely to reject. A zero price skips the tick check.
func (f *SymbolFilters) CheckOrder(quantity, price decimal.Decimal) []string {
	var warnings []string

	if f.MinQty.IsPositive() && quantity.LessThan(f.MinQty) {
		warnings = append(warnings, fmt.Sprintf(
			"quantity %s is below the %s minimum order quantity %s", quantity, f.Symbol, f.MinQty))
	}

	if f.StepSize.IsPositive() && !quantity.Mod(f.StepSize).IsZero() {
		warnings = append(warnings, fmt.Sprintf(
			"quantity %s is not a multiple of the %s step size %s", quantity, f.Symbol, f.StepSize))
	}

	if price.IsPositive() && f.TickSize.IsPositive() && !price.Mod(f.TickSize).IsZero() {
		warnings = append(warnings, fmt.Sprintf(
			"price %s is not a multiple of the %s tick size %s", price, f.Symbol, f.TickSize))
	}

	return warnings
}
