package orders

import (
	"errors"
	"testing"

	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMarket(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		side     string
		quantity string
		wantKind error
	}{
		{name: "valid", symbol: "BTCUSDT", side: "BUY", quantity: "0.01"},
		{name: "lowercase-side", symbol: "ETHUSDT", side: "sell", quantity: "1"},
		{name: "empty-symbol", symbol: "", side: "BUY", quantity: "1", wantKind: types.ErrInvalidSymbol},
		{name: "symbol-lowercase", symbol: "btcusdt", side: "BUY", quantity: "1", wantKind: types.ErrInvalidSymbol},
		{name: "bad-side", symbol: "BTCUSDT", side: "LONG", quantity: "1", wantKind: types.ErrInvalidSide},
		{name: "zero-quantity", symbol: "BTCUSDT", side: "BUY", quantity: "0", wantKind: types.ErrInvalidQuantity},
		{name: "too-precise", symbol: "BTCUSDT", side: "BUY", quantity: "0.123456789", wantKind: types.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := ValidateMarket(tt.symbol, tt.side, decimal.RequireFromString(tt.quantity))
			if tt.wantKind != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantKind), "got %v", err)
				assert.Nil(t, order)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.symbol, order.Symbol)
			assert.Contains(t, []types.Side{types.SideBuy, types.SideSell}, order.Side)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	order, err := ValidateLimit("BTCUSDT", "buy", decimal.RequireFromString("0.01"), decimal.NewFromInt(40000))
	require.NoError(t, err)
	assert.Equal(t, types.SideBuy, order.Side)
	assert.True(t, order.Price.Equal(decimal.NewFromInt(40000)))

	_, err = ValidateLimit("BTCUSDT", "BUY", decimal.RequireFromString("0.01"), decimal.Zero)
	assert.ErrorIs(t, err, types.ErrInvalidPrice)

	_, err = ValidateLimit("BTCUSDT", "BUY", decimal.RequireFromString("-1"), decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, types.ErrInvalidQuantity, "quantity is checked before price")
}

func TestValidatePrice_Precision(t *testing.T) {
	assert.NoError(t, ValidatePrice(decimal.RequireFromString("0.00000001")))
	assert.NoError(t, ValidatePrice(decimal.RequireFromString("40000.12345678")))

	err := ValidatePrice(decimal.RequireFromString("40000.123456789"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidPrice)
	assert.Contains(t, err.Error(), "more than 8 decimal places")
}
