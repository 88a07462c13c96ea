package orders

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersPlacedTotal tracks orders acknowledged by the exchange.
	OrdersPlacedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futures_bot_orders_placed_total",
			Help: "Total number of orders acknowledged by the exchange",
		},
		[]string{"type", "side"},
	)

	// OrderErrorsTotal tracks order placement failures.
	OrderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futures_bot_orders_errors_total",
			Help: "Total number of order placement failures",
		},
		[]string{"type"},
	)

	// OrderPlacementDurationSeconds tracks order round-trip latency.
	OrderPlacementDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "futures_bot_orders_placement_duration_seconds",
			Help:    "Duration of order placement calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)
)
