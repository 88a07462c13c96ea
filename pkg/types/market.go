package types

import "github.com/shopspring/decimal"

// Filter types used from GET /fapi/v1/exchangeInfo.
const (
	FilterLotSize     = "LOT_SIZE"
	FilterPriceFilter = "PRICE_FILTER"
)

// ExchangeInfo is the subset of GET /fapi/v1/exchangeInfo the bot reads.
type ExchangeInfo struct {
	ServerTime int64        `json:"serverTime"`
	Symbols    []SymbolInfo `json:"symbols"`
}

// Symbol returns the named symbol, or nil if the exchange does not list it.
func (e *ExchangeInfo) Symbol(name string) *SymbolInfo {
	for i := range e.Symbols {
		if e.Symbols[i].Symbol == name {
			return &e.Symbols[i]
		}
	}
	return nil
}

// SymbolInfo describes one tradable futures contract.
type SymbolInfo struct {
	Symbol            string         `json:"symbol"`
	Status            string         `json:"status"`
	BaseAsset         string         `json:"baseAsset"`
	QuoteAsset        string         `json:"quoteAsset"`
	PricePrecision    int            `json:"pricePrecision"`
	QuantityPrecision int            `json:"quantityPrecision"`
	Filters           []SymbolFilter `json:"filters"`
}

// Filter returns the filter with the given type, or nil.
func (s *SymbolInfo) Filter(filterType string) *SymbolFilter {
	for i := range s.Filters {
		if s.Filters[i].FilterType == filterType {
			return &s.Filters[i]
		}
	}
	return nil
}

// SymbolFilter holds the fields of LOT_SIZE and PRICE_FILTER entries.
// Fields not present on a given filter type stay zero.
type SymbolFilter struct {
	FilterType string          `json:"filterType"`
	MinQty     decimal.Decimal `json:"minQty"`
	MaxQty     decimal.Decimal `json:"maxQty"`
	StepSize   decimal.Decimal `json:"stepSize"`
	MinPrice   decimal.Decimal `json:"minPrice"`
	MaxPrice   decimal.Decimal `json:"maxPrice"`
	TickSize   decimal.Decimal `json:"tickSize"`
}
