package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
)

// MockOrderPlacer simulates order placement for testing.
// It satisfies the TWAP order placer and the single-shot order commands.
type MockOrderPlacer struct {
	mu             sync.Mutex
	placedOrders   []MockPlacedOrder
	calls          int
	failOnCall     map[int]error
	shouldFail     bool
	failureMessage string
	orderIDCounter int64
}

// MockPlacedOrder records details of a placed order for verification.
type MockPlacedOrder struct {
	Symbol   string
	Side     types.Side
	Type     types.OrderType
	Quantity decimal.Decimal
	Price    decimal.Decimal
	OrderID  int64
}

// NewMockOrderPlacer creates a mock order placer. Order IDs start at 1001.
func NewMockOrderPlacer() *MockOrderPlacer {
	return &MockOrderPlacer{
		placedOrders:   make([]MockPlacedOrder, 0),
		failOnCall:     make(map[int]error),
		orderIDCounter: 1001,
	}
}

// PlaceLimitOrder simulates a GTC limit order.
func (m *MockOrderPlacer) PlaceLimitOrder(
	ctx context.Context,
	symbol string,
	side types.Side,
	quantity decimal.Decimal,
	price decimal.Decimal,
) (*types.OrderResponse, error) {
	return m.place(symbol, side, types.OrderTypeLimit, quantity, price)
}

// PlaceMarketOrder simulates a market order.
func (m *MockOrderPlacer) PlaceMarketOrder(
	ctx context.Context,
	symbol string,
	side types.Side,
	quantity decimal.Decimal,
) (*types.OrderResponse, error) {
	return m.place(symbol, side, types.OrderTypeMarket, quantity, decimal.Zero)
}

func (m *MockOrderPlacer) place(
	symbol string,
	side types.Side,
	orderType types.OrderType,
	quantity decimal.Decimal,
	price decimal.Decimal,
) (*types.OrderResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	if err, ok := m.failOnCall[m.calls]; ok {
		return nil, err
	}
	if m.shouldFail {
		return nil, fmt.Errorf("mock order placement failed: %s", m.failureMessage)
	}

	orderID := m.orderIDCounter
	m.orderIDCounter++

	m.placedOrders = append(m.placedOrders, MockPlacedOrder{
		Symbol:   symbol,
		Side:     side,
		Type:     orderType,
		Quantity: quantity,
		Price:    price,
		OrderID:  orderID,
	})

	return &types.OrderResponse{
		OrderID: orderID,
		Symbol:  symbol,
		Status:  "NEW",
		Side:    string(side),
		Type:    string(orderType),
		Price:   price,
		OrigQty: quantity,
	}, nil
}

// FailOnCall makes the n-th call (one-based) return err.
func (m *MockOrderPlacer) FailOnCall(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOnCall[n] = err
}

// GetPlacedOrders returns all orders placed during the test.
func (m *MockOrderPlacer) GetPlacedOrders() []MockPlacedOrder {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]MockPlacedOrder, len(m.placedOrders))
	copy(orders, m.placedOrders)
	return orders
}

// Calls returns how many placement attempts were made.
func (m *MockOrderPlacer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// SetFailure configures the mock to fail every order placement.
func (m *MockOrderPlacer) SetFailure(shouldFail bool, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shouldFail = shouldFail
	m.failureMessage = message
}

// Reset clears all recorded orders and failure rules.
func (m *MockOrderPlacer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.placedOrders = make([]MockPlacedOrder, 0)
	m.failOnCall = make(map[int]error)
	m.shouldFail = false
	m.calls = 0
	m.orderIDCounter = 1001
}
