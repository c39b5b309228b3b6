package cache

import "fmt"

// ProviderConfig holds the configuration needed to create a cache instance.
type ProviderConfig[K comparable, V any] struct {
	// Size is the maximum number of entries. Must be positive.
	Size int

	// OnEvict is called when an entry is evicted.
	OnEvict EvictCallback[K, V]

	// Group is an optional label value used to namespace Prometheus metrics
	// (cache_hits_total, cache_misses_total, etc.).
	// When non-empty the cache is automatically wrapped with metric instrumentation.
	Group string
}

// New creates an in-memory LRU cache from the given config.
// When cfg.Group is non-empty the resulting cache is wrapped with metric
// instrumentation: hits, misses, and evictions are tracked with a
// "cache" label equal to Group, and a lazy entries collector is registered
// that queries Len() at scrape time instead of maintaining an in-process counter.
func New[K comparable, V any](cfg ProviderConfig[K, V]) (Cache[K, V], error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("cache: size must be positive, got %d", cfg.Size)
	}

	if cfg.Group == "" {
		return newMemoryCache(cfg)
	}

	group := cfg.Group
	// Wrap OnEvict so the cache layer counts evictions itself.
	original := cfg.OnEvict
	cfg.OnEvict = func(key K, value V) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if original != nil {
			original(key, value)
		}
	}

	inner, err := newMemoryCache(cfg)
	if err != nil {
		return nil, err
	}

	return newInstrumentedCache(inner, group), nil
}
