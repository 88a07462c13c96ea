package markets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MetadataFetchDuration tracks exchange info fetch latency.
	MetadataFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "futures_bot_markets_metadata_fetch_duration_seconds",
		Help:    "Duration of exchange info fetches for symbol filters",
		Buckets: prometheus.DefBuckets,
	})

	// MetadataFetchErrorsTotal tracks exchange info fetch failures.
	MetadataFetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "futures_bot_markets_metadata_fetch_errors_total",
		Help: "Total number of exchange info fetch errors",
	})

	// MetadataCacheHitsTotal tracks cache hits for symbol filters.
	MetadataCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "futures_bot_markets_metadata_cache_hits_total",
		Help: "Total number of symbol filter cache hits",
	})

	// MetadataCacheMissesTotal tracks cache misses for symbol filters.
	MetadataCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "futures_bot_markets_metadata_cache_misses_total",
		Help: "Total number of symbol filter cache misses",
	})
)
