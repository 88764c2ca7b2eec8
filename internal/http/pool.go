package http

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/hashicorp/go-cleanhttp"
)

// TransportPool hands out one pooled transport per origin so requests to
// unrelated hosts never share connection state. Entries idle past the
// keep-alive window are recycled, and the least-recently-used entry is
// evicted once the pool is full. The pool lock covers only the table
// bookkeeping; request I/O runs on the checked-out transport without it.
type TransportPool struct {
	mutex          sync.Mutex
	entries        map[string]*poolEntry
	limit          int
	keepAlive      time.Duration
	connectTimeout time.Duration
	tlsConfig      *tls.Config
	clock          func() time.Time
}

type poolEntry struct {
	transport *http.Transport
	lastUsed  time.Time
}

// NewTransportPool creates a pool bounded at limit origins. Zero values for
// limit, keepAlive, and connectTimeout fall back to the package defaults.
func NewTransportPool(tlsConfig *tls.Config, limit int, keepAlive, connectTimeout time.Duration) *TransportPool {
	if limit <= 0 {
		limit = constants.DefaultPoolSize
	}

	if keepAlive <= 0 {
		keepAlive = constants.DefaultKeepAlive
	}

	if connectTimeout <= 0 {
		connectTimeout = constants.DefaultConnectTimeout
	}

	return &TransportPool{
		entries:        make(map[string]*poolEntry),
		limit:          limit,
		keepAlive:      keepAlive,
		connectTimeout: connectTimeout,
		tlsConfig:      tlsConfig,
		clock:          time.Now,
	}
}

// RoundTrip implements http.RoundTripper.
func (p *TransportPool) RoundTrip(req *http.Request) (*http.Response, error) {
	transport, recycled := p.checkout(req.URL)

	// Dropped entries release their idle connections outside the lock.
	for _, old := range recycled {
		old.CloseIdleConnections()
	}

	return transport.RoundTrip(req)
}

// checkout returns the live transport for the request origin, creating one
// if needed, plus any transports dropped by the staleness sweep or LRU
// eviction. Callers must close idle connections on the dropped transports.
func (p *TransportPool) checkout(u *url.URL) (*http.Transport, []*http.Transport) {
	key := originKey(u)
	now := p.clock()

	p.mutex.Lock()
	defer p.mutex.Unlock()

	var recycled []*http.Transport

	for origin, entry := range p.entries {
		if now.Sub(entry.lastUsed) > p.keepAlive {
			recycled = append(recycled, entry.transport)
			delete(p.entries, origin)
		}
	}

	if entry, ok := p.entries[key]; ok {
		entry.lastUsed = now

		return entry.transport, recycled
	}

	if len(p.entries) >= p.limit {
		if victim := p.oldestOrigin(); victim != "" {
			recycled = append(recycled, p.entries[victim].transport)
			delete(p.entries, victim)
		}
	}

	transport := p.newTransport()
	p.entries[key] = &poolEntry{transport: transport, lastUsed: now}

	return transport, recycled
}

func (p *TransportPool) oldestOrigin() string {
	var (
		oldest     string
		oldestTime time.Time
	)

	for origin, entry := range p.entries {
		if oldest == "" || entry.lastUsed.Before(oldestTime) {
			oldest = origin
			oldestTime = entry.lastUsed
		}
	}

	return oldest
}

func (p *TransportPool) newTransport() *http.Transport {
	transport := cleanhttp.DefaultPooledTransport()
	transport.IdleConnTimeout = p.keepAlive
	transport.DialContext = (&net.Dialer{
		Timeout:   p.connectTimeout,
		KeepAlive: constants.DefaultKeepAlive,
	}).DialContext

	if p.tlsConfig != nil {
		transport.TLSClientConfig = p.tlsConfig.Clone()
	}

	return transport
}

// Len reports how many origins currently hold a pooled transport.
func (p *TransportPool) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return len(p.entries)
}

// CloseIdleConnections drops idle connections on every pooled transport.
func (p *TransportPool) CloseIdleConnections() {
	p.mutex.Lock()
	transports := make([]*http.Transport, 0, len(p.entries))

	for _, entry := range p.entries {
		transports = append(transports, entry.transport)
	}
	p.mutex.Unlock()

	for _, transport := range transports {
		transport.CloseIdleConnections()
	}
}

// originKey normalizes a URL to its scheme://host:port origin with default
// ports filled in.
func originKey(u *url.URL) string {
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}

	port := u.Port()
	if port == "" {
		if scheme == "http" {
			port = "80"
		} else {
			port = "443"
		}
	}

	return scheme + "://" + u.Hostname() + ":" + port
}

// BuildTLSConfig assembles the TLS settings shared by pooled transports.
// It returns nil when neither option is set, leaving the transport on its
// defaults. Callers are responsible for gating skipVerify behind an
// explicit development-mode check.
func BuildTLSConfig(skipVerify bool, caBundlePath string) (*tls.Config, error) {
	if !skipVerify && caBundlePath == "" {
		return nil, nil
	}

	config := &tls.Config{MinVersion: tls.VersionTLS12}

	if skipVerify {
		config.InsecureSkipVerify = true // #nosec G402 -- Protected by development environment check in the caller
	}

	if caBundlePath != "" {
		pem, err := os.ReadFile(caBundlePath)
		if err != nil {
			return nil, fmt.Errorf("reading CA bundle: %w", err)
		}

		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}

		if !pool.AppendCertsFromPEM(pem) {
			return nil, constants.ErrCABundleNoCerts
		}

		config.RootCAs = pool
	}

	return config, nil
}
