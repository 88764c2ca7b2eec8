package attio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrWarmClientRequired = errors.New("client required for cache warming")
)

// CacheInterceptor returns the interceptor pair that serves repeat reads
// from cache and stores cacheable responses. The request side marks hits in
// the request metadata; transports honor the mark via CachedResponse.
func CacheInterceptor(manager *CacheManager, policy *CachingPolicy) (RequestInterceptor, ResponseInterceptor) {
	return newCacheInterceptors(manager, policy, nil)
}

func newCacheInterceptors(manager *CacheManager, policy *CachingPolicy, ttlForPath func(string) time.Duration) (RequestInterceptor, ResponseInterceptor) {
	if policy == nil {
		policy = DefaultCachingPolicy()
	}

	requestInterceptor := func(ctx context.Context, req *Request) error {
		if req.Method != http.MethodGet || !policy.ShouldCache(req.Method, req.Path, http.StatusOK) {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, nil)

		data, err := manager.Get(ctx, key)
		if err != nil {
			return nil
		}

		req.ensureMetadata()[metadataCachedResponse] = data

		return nil
	}

	responseInterceptor := func(ctx context.Context, req *Request, resp *Response) error {
		if resp.StatusCode == 0 {
			return nil
		}

		if _, served := CachedResponse(req); served {
			return nil
		}

		if !policy.ShouldCache(req.Method, req.Path, resp.StatusCode) {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, nil)

		var ttl time.Duration
		if ttlForPath != nil {
			ttl = ttlForPath(req.Path)
		}

		if etag := resp.Headers.Get("ETag"); etag != "" && manager.options.EnableETags {
			return manager.SetWithETag(ctx, key, resp.Body, etag, ttl)
		}

		return manager.Set(ctx, key, resp.Body, ttl)
	}

	return requestInterceptor, responseInterceptor
}

// ConditionalRequestInterceptor attaches If-None-Match to GET requests when
// a cached validator exists, letting the server answer 304 Not Modified.
func ConditionalRequestInterceptor(manager *CacheManager) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Method != http.MethodGet {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, nil)

		entry, err := manager.GetEntry(ctx, key)
		if err != nil || entry.ETag == "" {
			return nil
		}

		req.ensureHeaders().Set("If-None-Match", entry.ETag)

		return nil
	}
}

// NotModifiedInterceptor rewrites 304 Not Modified answers into the cached
// payload they revalidate, so callers always see a full response.
func NotModifiedInterceptor(manager *CacheManager) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		if resp.StatusCode != http.StatusNotModified || req.Method != http.MethodGet {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, nil)

		entry, err := manager.GetEntry(ctx, key)
		if err != nil {
			return nil
		}

		resp.StatusCode = http.StatusOK
		resp.Body = entry.Data
		resp.Error = nil

		return nil
	}
}

// CacheInvalidationInterceptor drops stale cached reads after a successful
// mutation: the mutated path and its parent collection.
func CacheInvalidationInterceptor(manager *CacheManager) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		switch req.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return nil
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return nil
		}

		if err := manager.InvalidatePath(ctx, req.Path); err != nil {
			return fmt.Errorf("invalidating cached reads: %w", err)
		}

		return nil
	}
}

// SmartCacheConfig tunes ConfigureSmartCache.
type SmartCacheConfig struct {
	// EnableSmartInvalidation drops cached reads stale after mutations.
	EnableSmartInvalidation bool
	// EnableConditionalRequests revalidates cached entries with ETags.
	EnableConditionalRequests bool
	// EnableMetrics attaches a metrics collector to the chain.
	EnableMetrics bool
	// ResourceTTLs maps path prefixes to cache lifetimes. The longest
	// matching prefix wins; unmatched paths use the manager default.
	ResourceTTLs map[string]time.Duration
}

// DefaultSmartCacheConfig returns the standard smart-cache tuning: schema
// endpoints cache long, record data short.
func DefaultSmartCacheConfig() *SmartCacheConfig {
	return &SmartCacheConfig{
		EnableSmartInvalidation:   true,
		EnableConditionalRequests: true,
		EnableMetrics:             true,
		ResourceTTLs: map[string]time.Duration{
			"/objects":           constants.ObjectsCacheTTL,
			"/attributes":        constants.ObjectsCacheTTL,
			"/lists":             constants.DefaultCacheTTL,
			"/records":           constants.RecordsCacheTTL,
			"/workspace_members": constants.ObjectsCacheTTL,
		},
	}
}

// TTLForPath returns the lifetime for a path, preferring the longest
// configured prefix. Zero means no specific lifetime is configured.
func (c *SmartCacheConfig) TTLForPath(path string) time.Duration {
	var (
		best    string
		bestTTL time.Duration
	)

	for prefix, ttl := range c.ResourceTTLs {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best = prefix
			bestTTL = ttl
		}
	}

	return bestTTL
}

// ConfigureSmartCache wires the caching interceptors into chain per config
// and returns the attached metrics collector, or nil when metrics are
// disabled.
func ConfigureSmartCache(chain *InterceptorChain, manager *CacheManager, config *SmartCacheConfig) *MetricsCollector {
	if config == nil {
		config = DefaultSmartCacheConfig()
	}

	requestInterceptor, responseInterceptor := newCacheInterceptors(manager, DefaultCachingPolicy(), config.TTLForPath)
	chain.AddRequestInterceptor(requestInterceptor)
	chain.AddResponseInterceptor(responseInterceptor)

	if config.EnableConditionalRequests {
		chain.AddRequestInterceptor(ConditionalRequestInterceptor(manager))
		chain.AddResponseInterceptor(NotModifiedInterceptor(manager))
	}

	if config.EnableSmartInvalidation {
		chain.AddResponseInterceptor(CacheInvalidationInterceptor(manager))
	}

	if !config.EnableMetrics {
		return nil
	}

	collector := NewMetricsCollector()
	chain.AddRequestInterceptor(MetricsRequestInterceptor(collector))
	chain.AddResponseInterceptor(MetricsResponseInterceptor(collector))

	return collector
}

// CacheWarmer pre-populates the cache with the slow-changing schema
// resources, so a fresh process answers its first reads locally.
type CacheWarmer struct {
	client  Client
	manager *CacheManager
}

// NewCacheWarmer creates a warmer that reads through client into manager.
func NewCacheWarmer(client Client, manager *CacheManager) *CacheWarmer {
	return &CacheWarmer{
		client:  client,
		manager: manager,
	}
}

// Warm fetches and caches the object and list schemas.
func (w *CacheWarmer) Warm(ctx context.Context) error {
	if err := w.WarmObjects(ctx); err != nil {
		return err
	}

	return w.WarmLists(ctx)
}

// WarmObjects fetches and caches every object schema.
func (w *CacheWarmer) WarmObjects(ctx context.Context) error {
	if w.client == nil {
		return ErrWarmClientRequired
	}

	objects, err := w.client.Objects().List(ctx)
	if err != nil {
		return fmt.Errorf("warming objects: %w", err)
	}

	for _, object := range objects.Data {
		w.store(ctx, "/objects/"+object.APISlug, DataEnvelope[Object]{Data: object}, constants.ObjectsCacheTTL)
	}

	return nil
}

// WarmLists fetches and caches every list schema.
func (w *CacheWarmer) WarmLists(ctx context.Context) error {
	if w.client == nil {
		return ErrWarmClientRequired
	}

	lists, err := w.client.Lists().List(ctx)
	if err != nil {
		return fmt.Errorf("warming lists: %w", err)
	}

	for _, list := range lists.Data {
		w.store(ctx, "/lists/"+list.APISlug, DataEnvelope[List]{Data: list}, constants.DefaultCacheTTL)
	}

	return nil
}

func (w *CacheWarmer) store(ctx context.Context, path string, payload interface{}, ttl time.Duration) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	key := w.manager.GetCacheKey(http.MethodGet, path, nil)

	_ = w.manager.Set(ctx, key, data, ttl)
}
