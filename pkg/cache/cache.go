package cache

import "time"

// Cache is a TTL key/value cache for exchange reference data.
type Cache interface {
	// Get returns (value, true) if key is present and not expired.
	Get(key string) (any, bool)

	// Set stores value under key for ttl. A false return means the write
	// was dropped; callers fall back to fetching again next time.
	Set(key string, value any, ttl time.Duration) bool

	Delete(key string)

	// Wait blocks until earlier Sets are visible to Get.
	Wait()

	// Close releases background resources. The cache is unusable afterwards.
	Close()
}
