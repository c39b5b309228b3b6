package cache

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// memoryCache wraps hashicorp/golang-lru/v2/simplelru to implement the Cache interface.
type memoryCache[K comparable, V any] struct {
	inner *simplelru.LRU[K, V]
	// clearing suppresses OnEvict while Clear purges the cache
	clearing bool
}

func newMemoryCache[K comparable, V any](cfg ProviderConfig[K, V]) (Cache[K, V], error) {
	m := &memoryCache[K, V]{}
	var onEvict simplelru.EvictCallback[K, V]
	if cfg.OnEvict != nil {
		onEvict = func(key K, value V) {
			if m.clearing {
				return
			}
			cfg.OnEvict(key, value)
		}
	}
	inner, err := simplelru.NewLRU[K, V](cfg.Size, onEvict)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	m.inner = inner
	return m, nil
}

func (m *memoryCache[K, V]) Get(key K) (V, bool) {
	return m.inner.Get(key)
}

func (m *memoryCache[K, V]) Set(key K, value V) {
	m.inner.Add(key, value)
}

func (m *memoryCache[K, V]) Contains(key K) bool {
	return m.inner.Contains(key)
}

func (m *memoryCache[K, V]) Keys() []K {
	return m.inner.Keys()
}

func (m *memoryCache[K, V]) Len() int {
	return m.inner.Len()
}

// Clear drops every entry. Dropped entries are not reported to OnEvict, which
// only sees entries pushed out by capacity.
func (m *memoryCache[K, V]) Clear() {
	m.clearing = true
	defer func() { m.clearing = false }()
	m.inner.Purge()
}

func (m *memoryCache[K, V]) Close() error {
	return nil
}
