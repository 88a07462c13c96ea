package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide accepts BUY or SELL in any case and returns the normalized side.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("unknown side %q", s)
	}
}

// OrderType is the futures order type sent to the exchange.
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// TimeInForceGTC keeps a limit order resting until filled or cancelled.
const TimeInForceGTC = "GTC"

// OrderRequest is a well-formed order handed to the exchange client.
type OrderRequest struct {
	Symbol        string
	Side          Side
	Type          OrderType
	Quantity      decimal.Decimal
	Price         decimal.Decimal // LIMIT only
	TimeInForce   string          // LIMIT only
	ClientOrderID string          // Optional newClientOrderId
}

// OrderResponse is the acknowledgement returned by POST /fapi/v1/order.
type OrderResponse struct {
	OrderID       int64           `json:"orderId"`
	ClientOrderID string          `json:"clientOrderId"`
	Symbol        string          `json:"symbol"`
	Status        string          `json:"status"` // NEW, PARTIALLY_FILLED, FILLED, ...
	Side          string          `json:"side"`
	Type          string          `json:"type"`
	TimeInForce   string          `json:"timeInForce"`
	Price         decimal.Decimal `json:"price"`
	AvgPrice      decimal.Decimal `json:"avgPrice"`
	OrigQty       decimal.Decimal `json:"origQty"`
	ExecutedQty   decimal.Decimal `json:"executedQty"`
	UpdateTime    int64           `json:"updateTime"`
}
