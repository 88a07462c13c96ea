package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_LabelledByCacheName(t *testing.T) {
	cache := newTestCache(t, "metrics-test")

	hits := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("metrics-test"))
	misses := testutil.ToFloat64(CacheMissesTotal.WithLabelValues("metrics-test"))
	sets := testutil.ToFloat64(CacheSetsTotal.WithLabelValues("metrics-test"))
	deletes := testutil.ToFloat64(CacheDeletesTotal.WithLabelValues("metrics-test"))

	cache.Get("absent")
	if cache.Set("present", 1, time.Hour) {
		cache.Wait()
		cache.Get("present")
		assert.Equal(t, sets+1, testutil.ToFloat64(CacheSetsTotal.WithLabelValues("metrics-test")))
		assert.Equal(t, hits+1, testutil.ToFloat64(CacheHitsTotal.WithLabelValues("metrics-test")))
	}
	cache.Delete("present")

	assert.Equal(t, misses+1, testutil.ToFloat64(CacheMissesTotal.WithLabelValues("metrics-test")))
	assert.Equal(t, deletes+1, testutil.ToFloat64(CacheDeletesTotal.WithLabelValues("metrics-test")))

	// Another cache name is tracked separately.
	assert.Equal(t, 0.0, testutil.ToFloat64(CacheHitsTotal.WithLabelValues("metrics-test-unused")))
}
