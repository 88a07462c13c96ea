package twap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// RunsTotal tracks TWAP invocations by terminal status.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futures_bot_twap_runs_total",
			Help: "Total number of TWAP invocations by terminal status",
		},
		[]string{"status"},
	)

	// ChunksTotal tracks chunk attempts by outcome (placed, failed, abandoned).
	ChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futures_bot_twap_chunks_total",
			Help: "Total number of TWAP chunks by outcome",
		},
		[]string{"outcome"},
	)

	// ExecutedQuantityTotal tracks quantity placed through TWAP chunks.
	ExecutedQuantityTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futures_bot_twap_executed_quantity_total",
			Help: "Cumulative base-asset quantity placed by TWAP chunks",
		},
		[]string{"symbol", "side"},
	)

	// ChunkSubmitDurationSeconds tracks order placement latency per chunk.
	ChunkSubmitDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "futures_bot_twap_chunk_submit_duration_seconds",
		Help:    "Duration of a single TWAP chunk submission",
		Buckets: prometheus.DefBuckets,
	})

	// RunDurationSeconds tracks the wall time of live TWAP runs.
	RunDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "futures_bot_twap_run_duration_seconds",
		Help:    "Wall time of live TWAP runs",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
)
