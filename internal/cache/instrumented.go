package cache

// instrumentedCache wraps a Cache and records Prometheus metrics
// for hits, misses, evictions, and current entry count under the given group label.
type instrumentedCache[K comparable, V any] struct {
	inner Cache[K, V]
	group string
}

// newInstrumentedCache wraps inner with metric instrumentation for the given group.
// A lazy entries collector is registered that queries inner.Len() at scrape time.
func newInstrumentedCache[K comparable, V any](inner Cache[K, V], group string) *instrumentedCache[K, V] {
	registerEntriesCollector(group, inner.Len)
	return &instrumentedCache[K, V]{inner: inner, group: group}
}

func (c *instrumentedCache[K, V]) Get(key K) (V, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		HitsTotal.WithLabelValues(c.group).Inc()
	} else {
		MissesTotal.WithLabelValues(c.group).Inc()
	}
	return val, ok
}

func (c *instrumentedCache[K, V]) Set(key K, value V) {
	c.inner.Set(key, value)
}

func (c *instrumentedCache[K, V]) Contains(key K) bool {
	return c.inner.Contains(key)
}

func (c *instrumentedCache[K, V]) Keys() []K {
	return c.inner.Keys()
}

func (c *instrumentedCache[K, V]) Len() int {
	return c.inner.Len()
}

func (c *instrumentedCache[K, V]) Clear() {
	c.inner.Clear()
}

// Close unregisters the entries collector and closes the underlying cache.
func (c *instrumentedCache[K, V]) Close() error {
	unregisterEntriesCollector(c.group)
	return c.inner.Close()
}
