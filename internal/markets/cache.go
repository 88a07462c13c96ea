package markets

import (
	"context"
	"fmt"
	"time"

	"github.com/mselser95/futures-bot/pkg/cache"
	"go.uber.org/zap"
)

// CachedSymbolClient wraps MetadataClient with caching
type CachedSymbolClient struct {
	client *MetadataClient
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSymbolClient creates a new cached symbol client. A nil cache
// disables caching.
func NewCachedSymbolClient(client *MetadataClient, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedSymbolClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSymbolClient{
		client: client,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// GetSymbolFilters returns filters for symbol, fetching exchange info on a
// cache miss. Every symbol in the response is cached, so one fetch serves
// later lookups for other symbols too.
func (c *CachedSymbolClient) GetSymbolFilters(ctx context.Context, symbol string) (*SymbolFilters, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey(symbol)); ok {
			if sf, ok := cached.(*SymbolFilters); ok {
				MetadataCacheHitsTotal.Inc()
				return sf, nil
			}
		}
		MetadataCacheMissesTotal.Inc()
	}

	all, err := c.client.FetchAllFilters(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		for name, sf := range all {
			c.cache.Set(cacheKey(name), sf, c.ttl)
		}
		// Sets are buffered; later lookups in this run must see them.
		c.cache.Wait()
		c.logger.Debug("symbol-filters-cached",
			zap.Int("symbols", len(all)),
			zap.Duration("ttl", c.ttl))
	}

	sf, ok := all[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	return sf, nil
}

// Invalidate drops the cached filters for symbol so the next lookup
// refetches exchange info.
func (c *CachedSymbolClient) Invalidate(symbol string) {
	if c.cache == nil {
		return
	}
	c.cache.Delete(cacheKey(symbol))
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("filters:%s", symbol)
}
