package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderCreator submits a single order to the exchange.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order *types.OrderRequest) (*types.OrderResponse, error)
}

// Service places single market and limit orders. It is also the order
// placer used by TWAP runs.
type Service struct {
	client     OrderCreator
	logger     *zap.Logger
	newOrderID func() string // nil leaves newClientOrderId unset
}

// ServiceConfig holds service configuration.
type ServiceConfig struct {
	Client OrderCreator
	Logger *zap.Logger

	// ClientOrderIDPrefix enables a unique newClientOrderId per order.
	ClientOrderIDPrefix string
}

// NewService creates a new order service.
func NewService(cfg *ServiceConfig) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("order client cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	s := &Service{
		client: cfg.Client,
		logger: cfg.Logger,
	}
	if cfg.ClientOrderIDPrefix != "" {
		s.newOrderID = clientOrderIDGenerator(cfg.ClientOrderIDPrefix)
	}

	return s, nil
}

// PlaceMarketOrder submits a MARKET order.
func (s *Service) PlaceMarketOrder(
	ctx context.Context,
	symbol string,
	side types.Side,
	quantity decimal.Decimal,
) (*types.OrderResponse, error) {
	return s.place(ctx, &types.OrderRequest{
		Symbol:   symbol,
		Side:     side,
		Type:     types.OrderTypeMarket,
		Quantity: quantity,
	})
}

// PlaceLimitOrder submits a GTC LIMIT order.
func (s *Service) PlaceLimitOrder(
	ctx context.Context,
	symbol string,
	side types.Side,
	quantity decimal.Decimal,
	price decimal.Decimal,
) (*types.OrderResponse, error) {
	return s.place(ctx, &types.OrderRequest{
		Symbol:      symbol,
		Side:        side,
		Type:        types.OrderTypeLimit,
		Quantity:    quantity,
		Price:       price,
		TimeInForce: types.TimeInForceGTC,
	})
}

func (s *Service) place(ctx context.Context, order *types.OrderRequest) (*types.OrderResponse, error) {
	if s.newOrderID != nil {
		order.ClientOrderID = s.newOrderID()
	}

	fields := []zap.Field{
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.String("type", string(order.Type)),
		zap.Stringer("quantity", order.Quantity),
	}
	if order.Type == types.OrderTypeLimit {
		fields = append(fields, zap.Stringer("price", order.Price))
	}
	if order.ClientOrderID != "" {
		fields = append(fields, zap.String("client-order-id", order.ClientOrderID))
	}

	s.logger.Info("order-placing", fields...)

	start := time.Now()
	resp, err := s.client.CreateOrder(ctx, order)
	OrderPlacementDurationSeconds.WithLabelValues(string(order.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		OrderErrorsTotal.WithLabelValues(string(order.Type)).Inc()
		s.logger.Error("order-placement-failed", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("place %s order: %w", strings.ToLower(string(order.Type)), err)
	}

	OrdersPlacedTotal.WithLabelValues(string(order.Type), string(order.Side)).Inc()
	s.logger.Info("order-placed", append(fields,
		zap.Int64("order-id", resp.OrderID),
		zap.String("status", resp.Status),
		zap.Stringer("executed-qty", resp.ExecutedQty))...)

	return resp, nil
}

// clientOrderIDGenerator returns ids of the form prefix-<32 hex chars>,
// truncated to the exchange's 36 character limit.
func clientOrderIDGenerator(prefix string) func() string {
	return func() string {
		id := prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")
		if len(id) > 36 {
			id = id[:36]
		}
		return id
	}
}
