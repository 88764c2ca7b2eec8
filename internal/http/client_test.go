package http_test

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	attiohttp "github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTokenManager for testing.
type MockTokenManager struct {
	token string
	err   error
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, m.err
}

func (m *MockTokenManager) RefreshToken(ctx context.Context) error {
	return nil
}

func (m *MockTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

// failingTransport fails the first N round trips before delegating to the
// wrapped transport.
type failingTransport struct {
	mutex    sync.Mutex
	failures int
	attempts int
	err      error
	next     http.RoundTripper
}

func (t *failingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mutex.Lock()
	t.attempts++
	attempt := t.attempts
	t.mutex.Unlock()

	if attempt <= t.failures {
		return nil, t.err
	}

	return t.next.RoundTrip(req)
}

func (t *failingTransport) count() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.attempts
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v2/objects", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
			assert.NotEmpty(t, request.Header.Get("X-Request-Id"))

			response := map[string]string{"object_id": "obj-1", "api_slug": "people"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "test-token"}
		client := attiohttp.NewClient(server.URL, tokenManager)

		req := &attiohttp.Request{
			Method: "GET",
			Path:   "/objects",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "obj-1", result["object_id"])
		assert.Equal(t, "people", result["api_slug"])
	})

	t.Run("unique request ids", func(t *testing.T) {
		t.Parallel()

		var requestIDs []string

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestIDs = append(requestIDs, request.Header.Get("X-Request-Id"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		for i := 0; i < 3; i++ {
			_, err := client.Get(context.Background(), "/objects", nil)
			require.NoError(t, err)
		}

		require.Len(t, requestIDs, 3)
		assert.NotEqual(t, requestIDs[0], requestIDs[1])
		assert.NotEqual(t, requestIDs[1], requestIDs[2])
		assert.NotEqual(t, requestIDs[0], requestIDs[2])
	})

	t.Run("does not duplicate version prefix", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v2/objects", request.URL.Path)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		req := &attiohttp.Request{
			Method: "GET",
			Path:   "/v2/objects",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("normalizes path without leading slash", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v2/objects", request.URL.Path)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		req := &attiohttp.Request{
			Method: "GET",
			Path:   "objects",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v2/lists", request.URL.Path)
			assert.Equal(t, "limit=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		req := &attiohttp.Request{
			Method: "GET",
			Path:   "/lists",
			Query:  url.Values{"limit": []string{"2"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("flattens params into the query for reads", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			query := request.URL.Query()
			assert.Equal(t, "2", query.Get("limit"))
			assert.Equal(t, "Acme", query.Get("filter[name]"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		req := &attiohttp.Request{
			Method: "GET",
			Path:   "/lists",
			Params: map[string]interface{}{
				"limit":  2,
				"filter": map[string]interface{}{"name": "Acme"},
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "Acme", body["name"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		req := &attiohttp.Request{
			Method: "POST",
			Path:   "/objects",
			Body:   map[string]string{"name": "Acme"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("params become the body for writes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var body map[string]interface{}

			_ = json.NewDecoder(request.Body).Decode(&body)
			data, ok := body["data"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, "Acme", data["name"])

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		req := &attiohttp.Request{
			Method: "POST",
			Path:   "/objects",
			Params: map[string]interface{}{
				"data": map[string]interface{}{"name": "Acme"},
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("empty body is omitted for writes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			body, err := io.ReadAll(request.Body)
			require.NoError(t, err)
			assert.Empty(t, body)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		req := &attiohttp.Request{
			Method: "POST",
			Path:   "/objects",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("X-Request-Id", "req_123")
			writer.WriteHeader(http.StatusNotFound)

			response := map[string]interface{}{
				"status_code": 404,
				"type":        "invalid_request_error",
				"code":        "not_found",
				"message":     "Could not find object with slug or ID \"missing\".",
			}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		req := &attiohttp.Request{
			Method: "GET",
			Path:   "/objects/missing",
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		var apiErr *attio.Error

		ok := errors.As(err, &apiErr)
		require.True(t, ok)
		assert.Equal(t, attio.ErrorKindNotFound, apiErr.Kind)
		assert.Equal(t, "not_found", apiErr.Code)
		assert.Equal(t, "Could not find object with slug or ID \"missing\".", apiErr.Message)
		assert.Equal(t, 404, apiErr.HTTPStatus)
		assert.Equal(t, "req_123", apiErr.RequestID)
		require.NotNil(t, apiErr.Request)
		assert.Equal(t, "GET", apiErr.Request.Method)
		assert.True(t, attio.IsNotFound(err))
	})

	t.Run("invalid json on success status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_, _ = writer.Write([]byte("{not-json"))
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/objects", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var out map[string]interface{}

		decodeErr := resp.DecodeJSON(&out)
		require.Error(t, decodeErr)
		assert.True(t, attio.IsInvalidResponse(decodeErr))

		var apiErr *attio.Error

		require.ErrorAs(t, decodeErr, &apiErr)
		assert.Equal(t, 200, apiErr.HTTPStatus)
		require.NotNil(t, apiErr.Response)
		assert.Equal(t, "{not-json", apiErr.Response.Body)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil)

		req := &attiohttp.Request{
			Method: "GET",
			Path:   "/objects",
			Headers: map[string]string{
				"x-custom-header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		tokenManager := &MockTokenManager{token: "secret-token"}
		client := attiohttp.NewClient(server.URL, tokenManager, attiohttp.WithLogger(logger), attiohttp.WithDebug(true))

		req := &attiohttp.Request{
			Method: "GET",
			Path:   "/objects",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)

		// Should have logged request and response
		require.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])

		// The logged Authorization header is masked
		fields, ok := logger.logs[0]["fields"].(map[string]interface{})
		require.True(t, ok)
		headers, ok := fields["headers"].(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "***", headers["Authorization"])
	})
}

func TestClient_Credentials(t *testing.T) {
	t.Parallel()
	t.Run("empty api key", func(t *testing.T) {
		t.Parallel()

		requests := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requests++

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: ""}
		client := attiohttp.NewClient(server.URL, tokenManager)

		resp, err := client.Get(context.Background(), "/objects", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, attio.IsAuthentication(err))
		assert.Equal(t, 0, requests)
	})

	t.Run("token manager failure", func(t *testing.T) {
		t.Parallel()

		tokenManager := &MockTokenManager{err: errors.New("token store unavailable")}
		client := attiohttp.NewClient("https://api.attio.com", tokenManager)

		resp, err := client.Get(context.Background(), "/objects", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, attio.IsAuthentication(err))
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*attiohttp.Client, context.Context) (*attiohttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *attiohttp.Client, ctx context.Context) (*attiohttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *attiohttp.Client, ctx context.Context) (*attiohttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *attiohttp.Client, ctx context.Context) (*attiohttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *attiohttp.Client, ctx context.Context) (*attiohttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *attiohttp.Client, ctx context.Context) (*attiohttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/v2/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := attiohttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries transient transport failures", func(t *testing.T) {
		t.Parallel()

		serverHits := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			serverHits++

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		transport := &failingTransport{
			failures: 2,
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
			next:     http.DefaultTransport,
		}
		client := attiohttp.NewClient(server.URL, nil,
			attiohttp.WithTransport(transport),
			attiohttp.WithRetryConfig(3, time.Millisecond, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 3, transport.count())
		assert.Equal(t, 1, serverHits)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		t.Parallel()

		transport := &failingTransport{
			failures: 100,
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
		}
		client := attiohttp.NewClient("http://localhost:1", nil,
			attiohttp.WithTransport(transport),
			attiohttp.WithRetryConfig(2, time.Millisecond, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Nil(t, resp)

		// max retries of 2 means three attempts in total
		assert.Equal(t, 3, transport.count())

		var apiErr *attio.Error

		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, attio.ErrorKindSocket, apiErr.Kind)
		assert.True(t, attio.IsConnection(err))
	})

	t.Run("does not retry certificate failures", func(t *testing.T) {
		t.Parallel()

		transport := &failingTransport{
			failures: 100,
			err:      x509.UnknownAuthorityError{},
		}
		client := attiohttp.NewClient("https://localhost:1", nil,
			attiohttp.WithTransport(transport),
			attiohttp.WithRetryConfig(3, time.Millisecond, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Equal(t, 1, transport.count())

		var apiErr *attio.Error

		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, attio.ErrorKindSSL, apiErr.Kind)
	})

	t.Run("does not retry server errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil, attiohttp.WithRetryConfig(3, time.Millisecond, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
		assert.Equal(t, 1, attempts) // Should not retry
		assert.True(t, attio.IsServerError(err))
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil, attiohttp.WithRetryConfig(3, time.Millisecond, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, 1, attempts) // Should not retry
	})

	t.Run("propagates context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			<-request.Context().Done()
		}))
		defer server.Close()

		client := attiohttp.NewClient(server.URL, nil, attiohttp.WithRetryConfig(3, time.Millisecond, 10*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		resp, err := client.Get(ctx, "/test", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		require.ErrorIs(t, err, context.Canceled)

		// Cancellation is not dressed up as an API error
		var apiErr *attio.Error

		assert.False(t, errors.As(err, &apiErr))
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Interceptors(t *testing.T) {
	t.Parallel()
	t.Run("request interceptors shape the outgoing request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "trace-123", request.Header.Get("X-Trace-Id"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		chain := attio.NewInterceptorChain()
		chain.AddRequestInterceptor(attio.HeaderInterceptor(map[string]string{"X-Trace-Id": "trace-123"}))

		client := attiohttp.NewClient(server.URL, nil, attiohttp.WithInterceptors(chain))

		resp, err := client.Get(context.Background(), "/objects", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("serves repeat reads from cache without a round trip", func(t *testing.T) {
		t.Parallel()

		serverHits := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			serverHits++

			_, _ = writer.Write([]byte(`{"data": []}`))
		}))
		defer server.Close()

		manager := attio.NewCacheManager(attio.NewMemoryCache(100), nil)
		requestSide, responseSide := attio.CacheInterceptor(manager, nil)

		chain := attio.NewInterceptorChain()
		chain.AddRequestInterceptor(requestSide)
		chain.AddResponseInterceptor(responseSide)

		client := attiohttp.NewClient(server.URL, nil, attiohttp.WithInterceptors(chain))

		first, err := client.Get(context.Background(), "/objects", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, first.StatusCode)

		second, err := client.Get(context.Background(), "/objects", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, second.StatusCode)
		assert.Equal(t, "HIT", second.Headers.Get("X-Cache"))
		assert.Equal(t, first.Body, second.Body)
		assert.Equal(t, 1, serverHits)

		// The served hit is not written back to the cache
		stats := manager.GetStats()
		assert.Equal(t, int64(1), stats.Sets)
		assert.Equal(t, int64(1), stats.Hits)
	})

	t.Run("revalidates cached entries with etags", func(t *testing.T) {
		t.Parallel()

		serverHits := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			serverHits++

			assert.Equal(t, `"v1-abc"`, request.Header.Get("If-None-Match"))
			writer.WriteHeader(http.StatusNotModified)
		}))
		defer server.Close()

		manager := attio.NewCacheManager(attio.NewMemoryCache(100), nil)
		key := manager.GetCacheKey("GET", "/objects", nil)
		err := manager.SetWithETag(context.Background(), key, []byte(`{"data": ["cached"]}`), `"v1-abc"`, 0)
		require.NoError(t, err)

		chain := attio.NewInterceptorChain()
		chain.AddRequestInterceptor(attio.ConditionalRequestInterceptor(manager))
		chain.AddResponseInterceptor(attio.NotModifiedInterceptor(manager))

		client := attiohttp.NewClient(server.URL, nil, attiohttp.WithInterceptors(chain))

		resp, err := client.Get(context.Background(), "/objects", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, `{"data": ["cached"]}`, string(resp.Body))
		assert.Equal(t, 1, serverHits)
	})

	t.Run("invalidates cached reads after mutations", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "PATCH", request.Method)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		ctx := context.Background()
		manager := attio.NewCacheManager(attio.NewMemoryCache(100), nil)
		recordKey := manager.GetCacheKey("GET", "/objects/obj_1", nil)
		collectionKey := manager.GetCacheKey("GET", "/objects", nil)
		require.NoError(t, manager.Set(ctx, recordKey, []byte(`{"id": "obj_1"}`), 0))
		require.NoError(t, manager.Set(ctx, collectionKey, []byte(`{"data": []}`), 0))

		chain := attio.NewInterceptorChain()
		chain.AddResponseInterceptor(attio.CacheInvalidationInterceptor(manager))

		client := attiohttp.NewClient(server.URL, nil, attiohttp.WithInterceptors(chain))

		resp, err := client.Patch(ctx, "/objects/obj_1", map[string]string{"name": "Updated"})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		assert.False(t, manager.Has(ctx, recordKey))
		assert.False(t, manager.Has(ctx, collectionKey))
	})

	t.Run("request interceptor failure stops the call", func(t *testing.T) {
		t.Parallel()

		serverHits := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			serverHits++

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		chain := attio.NewInterceptorChain()
		chain.AddRequestInterceptor(func(ctx context.Context, req *attio.Request) error {
			return errors.New("quota exhausted")
		})

		client := attiohttp.NewClient(server.URL, nil, attiohttp.WithInterceptors(chain))

		resp, err := client.Get(context.Background(), "/objects", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Contains(t, err.Error(), "request interceptor failed")
		assert.Contains(t, err.Error(), "quota exhausted")
		assert.Equal(t, 0, serverHits)
	})

	t.Run("records latency metrics per endpoint", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if strings.HasSuffix(request.URL.Path, "/missing") {
				writer.WriteHeader(http.StatusInternalServerError)

				return
			}

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		collector := attio.NewMetricsCollector()

		chain := attio.NewInterceptorChain()
		chain.AddRequestInterceptor(attio.MetricsRequestInterceptor(collector))
		chain.AddResponseInterceptor(attio.MetricsResponseInterceptor(collector))

		client := attiohttp.NewClient(server.URL, nil, attiohttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/objects", nil)
		require.NoError(t, err)

		_, err = client.Get(context.Background(), "/missing", nil)
		require.Error(t, err)

		success := collector.GetMetrics("GET /objects")
		require.NotNil(t, success)
		assert.Equal(t, int64(1), success.TotalRequests)
		assert.Equal(t, int64(0), success.TotalErrors)

		failure := collector.GetMetrics("GET /missing")
		require.NotNil(t, failure)
		assert.Equal(t, int64(1), failure.TotalRequests)
		assert.Equal(t, int64(1), failure.TotalErrors)
	})
}
