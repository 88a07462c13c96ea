package testutil

import (
	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
)

// CreateTestSymbolInfo creates a futures symbol with LOT_SIZE and PRICE_FILTER filters.
func CreateTestSymbolInfo(symbol string, minQty string, stepSize string, tickSize string) types.SymbolInfo {
	return types.SymbolInfo{
		Symbol:            symbol,
		Status:            "TRADING",
		BaseAsset:         "BTC",
		QuoteAsset:        "USDT",
		PricePrecision:    2,
		QuantityPrecision: 3,
		Filters: []types.SymbolFilter{
			{
				FilterType: types.FilterPriceFilter,
				MinPrice:   decimal.RequireFromString("0.10"),
				MaxPrice:   decimal.RequireFromString("1000000"),
				TickSize:   decimal.RequireFromString(tickSize),
			},
			{
				FilterType: types.FilterLotSize,
				MinQty:     decimal.RequireFromString(minQty),
				MaxQty:     decimal.RequireFromString("1000"),
				StepSize:   decimal.RequireFromString(stepSize),
			},
		},
	}
}

// CreateTestExchangeInfo creates exchange info listing BTCUSDT and ETHUSDT.
func CreateTestExchangeInfo() *types.ExchangeInfo {
	return &types.ExchangeInfo{
		ServerTime: 1700000000000,
		Symbols: []types.SymbolInfo{
			CreateTestSymbolInfo("BTCUSDT", "0.001", "0.001", "0.10"),
			CreateTestSymbolInfo("ETHUSDT", "0.01", "0.01", "0.01"),
		},
	}
}
