// Package cache provides the bounded least-recently-used cache that holds
// parsed listing pages for the lifetime of a shell session.
package cache

// EvictCallback is called when an entry is evicted from the cache.
type EvictCallback[K comparable, V any] func(key K, value V)

// Cache defines the interface for key-value caching with LRU semantics.
// Implementations are not safe for concurrent use; the command loop is single-threaded.
type Cache[K comparable, V any] interface {
	// Get retrieves a value by key and promotes it to most recently used.
	// A miss returns the zero value and false and leaves size and order untouched.
	Get(key K) (V, bool)

	// Set stores a value with the given key. If the key already exists it is
	// overwritten and promoted; otherwise the least recently used entry is evicted
	// when the cache is full.
	Set(key K, value V)

	// Contains checks whether a key exists in the cache without affecting LRU ordering.
	Contains(key K) bool

	// Keys returns the keys from least to most recently used.
	Keys() []K

	// Len returns the number of entries currently in the cache.
	Len() int

	// Clear removes every entry.
	Clear()

	// Close releases any resources held by the cache.
	Close() error
}
