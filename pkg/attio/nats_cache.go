package attio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const defaultNATSBucket = "attio-cache"

// NATSKVConfig tunes the JetStream KV cache backend.
type NATSKVConfig struct {
	// URL is the NATS server URL (nats://host:port). Defaults to the
	// local server.
	URL string

	// Bucket is the KV bucket entries live in. Defaults to "attio-cache".
	Bucket string

	// CredsFile optionally points at a NATS credentials file.
	CredsFile string

	// Username and Password optionally authenticate the connection.
	Username string
	Password string

	// Token optionally authenticates the connection.
	Token string

	// TTL is the bucket-level entry lifetime enforced by the server. Zero
	// keeps entries until overwritten or deleted; per-entry expiry still
	// applies on read.
	TTL time.Duration

	// Replicas is the bucket replica count in clustered deployments.
	Replicas int
}

// NATSKVCache stores cache entries in a NATS JetStream KV bucket so
// multiple processes share one cache. Entries are JSON-encoded; expiry is
// enforced both by the bucket TTL and on read.
type NATSKVCache struct {
	conn *nats.Conn
	kv   jetstream.KeyValue
}

// NewNATSKVCache connects to NATS and binds the configured KV bucket,
// creating it when missing.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	serverURL := config.URL
	if serverURL == "" {
		serverURL = nats.DefaultURL
	}

	opts := []nats.Option{nats.Name("attio-cache")}

	if config.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(config.CredsFile))
	}

	if config.Username != "" {
		opts = append(opts, nats.UserInfo(config.Username, config.Password))
	}

	if config.Token != "" {
		opts = append(opts, nats.Token(config.Token))
	}

	conn, err := nats.Connect(serverURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening JetStream: %w", err)
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = defaultNATSBucket
	}

	replicas := config.Replicas
	if replicas <= 0 {
		replicas = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShortHTTPTimeout)
	defer cancel()

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:   bucket,
		TTL:      config.TTL,
		Replicas: replicas,
	})
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("binding KV bucket %q: %w", bucket, err)
	}

	return &NATSKVCache{
		conn: conn,
		kv:   kv,
	}, nil
}

// Get returns the entry for key. Entries past their expiry are purged and
// reported as expired.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(ctx, natsKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", constants.ErrCacheKeyNotFound, key)
		}

		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(kvEntry.Value(), &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if entry.Expired() {
		_ = c.kv.Purge(ctx, natsKey(key))

		return nil, fmt.Errorf("%w: %s", constants.ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores an entry under key. Oversized payloads are rejected.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if entry == nil {
		return ErrNilCacheEntry
	}

	if len(entry.Data) > constants.MaxCacheValueSize {
		return fmt.Errorf("%w: %s", constants.ErrCacheValueTooLarge, key)
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	if _, err := c.kv.Put(ctx, natsKey(key), encoded); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry for key, if any.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Purge(ctx, natsKey(key))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting cache entry: %w", err)
	}

	return nil
}

// Clear removes every entry in the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	lister, err := c.kv.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("listing cache keys: %w", err)
	}

	for key := range lister.Keys() {
		_ = c.kv.Purge(ctx, key)
	}

	return nil
}

// Has reports whether a live entry exists for key.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	kvEntry, err := c.kv.Get(ctx, natsKey(key))
	if err != nil {
		return false
	}

	var entry CacheEntry
	if err := json.Unmarshal(kvEntry.Value(), &entry); err != nil {
		return false
	}

	return !entry.Expired()
}

// Close drains the NATS connection.
func (c *NATSKVCache) Close() error {
	return c.conn.Drain()
}

// natsKey maps a cache key onto the KV key alphabet. Characters outside
// [-/_=.a-zA-Z0-9] become underscores; keys cannot start or end with a dot.
func natsKey(key string) string {
	var builder strings.Builder

	builder.Grow(len(key))

	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '/', r == '_', r == '=', r == '.':
			builder.WriteRune(r)
		default:
			builder.WriteByte('_')
		}
	}

	mapped := strings.Trim(builder.String(), ".")
	if mapped == "" {
		return "_"
	}

	return mapped
}
