package attio

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
)

// CacheStats counts cache manager operations.
type CacheStats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// GetHitRate returns the fraction of lookups served from cache.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager keys raw response payloads by request identity and tracks
// hit statistics. A nil cache falls back to a no-op backend; a nil options
// falls back to defaults.
type CacheManager struct {
	cache   Cache
	options *CacheOptions

	mutex sync.Mutex
	stats CacheStats
}

// NewCacheManager creates a cache manager over the given backend.
func NewCacheManager(cache Cache, options *CacheOptions) *CacheManager {
	if cache == nil {
		cache = NewNoOpCache()
	}

	if options == nil {
		options = DefaultCacheOptions()
	}

	return &CacheManager{
		cache:   cache,
		options: options,
	}
}

// GetCacheKey derives the cache key for a request: "METHOD:path", with any
// params appended in sorted order so equivalent requests share a key.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	key := method + ":" + path

	if len(params) > 0 {
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}

		sort.Strings(names)

		pairs := make([]string, 0, len(names))
		for _, name := range names {
			pairs = append(pairs, name+"="+params[name])
		}

		key += ":" + strings.Join(pairs, "&")
	}

	return key
}

// Get returns the cached payload for key, counting the lookup as a hit or
// a miss.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.count(func(s *CacheStats) { s.Misses++ })

		return nil, err
	}

	m.count(func(s *CacheStats) { s.Hits++ })

	return entry.Data, nil
}

// GetEntry returns the full cached entry for key, without touching the hit
// statistics. Conditional-request plumbing uses it to read validators.
func (m *CacheManager) GetEntry(ctx context.Context, key string) (*CacheEntry, error) {
	return m.cache.Get(ctx, key)
}

// Set stores a payload under key. A non-positive ttl falls back to the
// manager's default; positive values are floored so entries outlive the
// request that stored them.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores a payload together with its response validator.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.options.TTL
	}

	if ttl < constants.CacheMinTTL {
		ttl = constants.CacheMinTTL
	}

	entry := &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
		ETag:      etag,
	}

	if err := m.cache.Set(ctx, key, entry); err != nil {
		return err
	}

	m.count(func(s *CacheStats) { s.Sets++ })

	return nil
}

// Delete removes the payload for key.
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	return m.cache.Delete(ctx, key)
}

// Clear removes every cached payload.
func (m *CacheManager) Clear(ctx context.Context) error {
	return m.cache.Clear(ctx)
}

// Has reports whether a live payload exists for key.
func (m *CacheManager) Has(ctx context.Context, key string) bool {
	return m.cache.Has(ctx, key)
}

// InvalidatePath drops the cached reads a mutation of path stales: the
// path itself and its parent collection.
func (m *CacheManager) InvalidatePath(ctx context.Context, path string) error {
	var lastErr error

	keys := []string{m.GetCacheKey(http.MethodGet, path, nil)}
	if parent := parentPath(path); parent != "" {
		keys = append(keys, m.GetCacheKey(http.MethodGet, parent, nil))
	}

	for _, key := range keys {
		if err := m.cache.Delete(ctx, key); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// GetStats returns a snapshot of the manager's counters.
func (m *CacheManager) GetStats() *CacheStats {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	snapshot := m.stats

	return &snapshot
}

func (m *CacheManager) count(update func(*CacheStats)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	update(&m.stats)
}

// parentPath returns the collection path above a resource path, or "" when
// the path is already a collection root.
func parentPath(path string) string {
	trimmed := strings.TrimSuffix(path, "/")

	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 {
		return ""
	}

	return trimmed[:idx]
}

// CachingPolicy decides which responses are cached.
type CachingPolicy struct {
	// CacheGET enables caching of GET responses.
	CacheGET bool
	// CachePOST enables caching of POST responses, for query endpoints
	// that read through POST.
	CachePOST bool
	// CacheErrors allows caching of non-2xx responses.
	CacheErrors bool
	// IncludePaths, when non-empty, restricts caching to paths under these
	// prefixes.
	IncludePaths []string
	// ExcludePaths blocks caching for paths under these prefixes. Ignored
	// when IncludePaths is set.
	ExcludePaths []string
}

// DefaultCachingPolicy caches successful GET responses, skipping the
// endpoints whose answers change outside record writes.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET:     true,
		ExcludePaths: []string{"/self", "/threads", "/comments"},
	}
}

// ShouldCache reports whether a response for the request should be stored.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	switch method {
	case http.MethodGet:
		if !p.CacheGET {
			return false
		}
	case http.MethodPost:
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	if !p.CacheErrors && (statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices) {
		return false
	}

	if len(p.IncludePaths) > 0 {
		return hasAnyPrefix(path, p.IncludePaths)
	}

	return !hasAnyPrefix(path, p.ExcludePaths)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
