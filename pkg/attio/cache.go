package attio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNilCacheEntry = errors.New("cache entry must not be nil")
)

// Cache stores raw response payloads keyed by request identity. Backends
// must be safe for concurrent use.
type Cache interface {
	// Get returns the entry for key, or an error when the key is missing
	// or the entry has expired.
	Get(ctx context.Context, key string) (*CacheEntry, error)
	// Set stores an entry under key, evicting older entries when full.
	Set(ctx context.Context, key string, entry *CacheEntry) error
	// Delete removes the entry for key, if any.
	Delete(ctx context.Context, key string) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// Has reports whether a live entry exists for key.
	Has(ctx context.Context, key string) bool
}

// CacheEntry is one cached payload with its expiry and validator.
type CacheEntry struct {
	// Data is the raw response body.
	Data []byte

	// ExpiresAt is when the entry stops being served. The zero value means
	// the entry does not expire.
	ExpiresAt time.Time

	// ETag is the response validator used for conditional requests.
	ETag string
}

// Expired reports whether the entry is past its expiry.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// CacheOptions are the common knobs applied to any cache backend.
type CacheOptions struct {
	// TTL is the default lifetime for entries stored without an explicit one.
	TTL time.Duration

	// MaxSize is the maximum number of entries a bounded backend keeps.
	MaxSize int

	// EnableETags turns on conditional requests using cached validators.
	EnableETags bool
}

// DefaultCacheOptions returns the default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:         constants.DefaultCacheTTL,
		MaxSize:     constants.DefaultCacheSize,
		EnableETags: true,
	}
}

// MemoryCache is a bounded in-process cache. When full it first drops
// expired entries, then the least recently used one.
type MemoryCache struct {
	mutex   sync.Mutex
	entries map[string]*memoryCacheItem
	maxSize int
}

type memoryCacheItem struct {
	entry    *CacheEntry
	lastUsed time.Time
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
// A non-positive maxSize falls back to the default size.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	return &MemoryCache{
		entries: make(map[string]*memoryCacheItem),
		maxSize: maxSize,
	}
}

// Get returns the entry for key and marks it recently used. Expired entries
// are dropped on access.
func (m *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	item, ok := m.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", constants.ErrCacheKeyNotFound, key)
	}

	if item.entry.Expired() {
		delete(m.entries, key)

		return nil, fmt.Errorf("%w: %s", constants.ErrCacheEntryExpired, key)
	}

	item.lastUsed = time.Now()

	return item.entry, nil
}

// Set stores an entry under key. Oversized payloads are rejected rather
// than evicting the rest of the cache.
func (m *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if entry == nil {
		return ErrNilCacheEntry
	}

	if len(entry.Data) > constants.MaxCacheValueSize {
		return fmt.Errorf("%w: %s", constants.ErrCacheValueTooLarge, key)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxSize {
		m.evictLocked()
	}

	m.entries[key] = &memoryCacheItem{
		entry:    entry,
		lastUsed: time.Now(),
	}

	return nil
}

// Delete removes the entry for key, if any.
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.entries, key)

	return nil
}

// Clear removes every entry.
func (m *MemoryCache) Clear(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.entries = make(map[string]*memoryCacheItem)

	return nil
}

// Has reports whether a live entry exists for key without marking it used.
func (m *MemoryCache) Has(ctx context.Context, key string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	item, ok := m.entries[key]
	if !ok {
		return false
	}

	if item.entry.Expired() {
		delete(m.entries, key)

		return false
	}

	return true
}

// StartCleanup sweeps expired entries every interval until ctx is done.
func (m *MemoryCache) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Cleanup()
			}
		}
	}()
}

// Cleanup removes every expired entry.
func (m *MemoryCache) Cleanup() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for key, item := range m.entries {
		if item.entry.Expired() {
			delete(m.entries, key)
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return len(m.entries)
}

// evictLocked makes room for one more entry. Callers hold the mutex.
func (m *MemoryCache) evictLocked() {
	for key, item := range m.entries {
		if item.entry.Expired() {
			delete(m.entries, key)
		}
	}

	if len(m.entries) < m.maxSize {
		return
	}

	var (
		oldestKey  string
		oldestUsed time.Time
	)

	for key, item := range m.entries {
		if oldestKey == "" || item.lastUsed.Before(oldestUsed) {
			oldestKey = key
			oldestUsed = item.lastUsed
		}
	}

	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
