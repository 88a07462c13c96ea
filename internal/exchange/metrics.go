package exchange

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks futures API requests by endpoint and result.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futures_bot_exchange_requests_total",
			Help: "Total number of futures API requests",
		},
		[]string{"endpoint", "result"},
	)

	// RequestDurationSeconds tracks futures API latency.
	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "futures_bot_exchange_request_duration_seconds",
			Help:    "Duration of futures API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// APIErrorsTotal tracks rejections by exchange error code.
	APIErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futures_bot_exchange_api_errors_total",
			Help: "Total number of futures API error responses by code",
		},
		[]string{"code"},
	)
)
