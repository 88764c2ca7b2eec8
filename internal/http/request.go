package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/pkg/attio"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/nats-io/nuid"
)

// Request describes one API call before transport concerns apply.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is the endpoint path below the API version segment.
	Path string
	// Query holds pre-encoded query string values.
	Query url.Values
	// Params carries structured parameters: flattened into bracketed query
	// keys for GET and HEAD, serialized as the JSON body otherwise.
	Params map[string]interface{}
	// Body is an explicit JSON body; it takes precedence over Params.
	Body interface{}
	// Headers are extra headers, normalized to canonical Header-Case.
	Headers map[string]string
}

// buildRequest resolves a Request into a transport-ready retryable request
// with the resolved URL, encoded query, JSON body, and standard header set.
// body is the serialized JSON body from requestBody, or nil.
func (c *Client) buildRequest(ctx context.Context, req *Request, body []byte) (*retryablehttp.Request, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	var payload interface{}
	if body != nil {
		payload = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, c.requestURL(req), payload)
	if err != nil {
		return nil, attio.WrapError(attio.ErrorKindInvalidRequest, fmt.Sprintf("building request: %v", err), err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", nuid.Next())

	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	return httpReq, nil
}

// bearerToken resolves the credential for the Authorization header. A
// configured manager that yields no token is an authentication failure; a
// nil manager sends the request unauthenticated.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", nil
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", attio.WrapError(attio.ErrorKindAuthentication, fmt.Sprintf("resolving API credentials: %v", err), err)
	}

	if token == "" {
		return "", attio.WrapError(attio.ErrorKindAuthentication, "missing API key", constants.ErrMissingAPIKey)
	}

	return token, nil
}

// requestURL joins the base URL, the API version segment, and the request
// path, then appends the encoded query string.
func (c *Client) requestURL(req *Request) string {
	path := normalizePath(req.Path)

	if c.apiVersion != "" {
		prefix := "/" + c.apiVersion
		if path != prefix && !strings.HasPrefix(path, prefix+"/") {
			path = prefix + path
		}
	}

	full := c.baseURL + path

	if encoded := c.encodedQuery(req); encoded != "" {
		full += "?" + encoded
	}

	return full
}

// encodedQuery returns the encoded query string for a request: pre-encoded
// values merged with flattened params on query-carrying methods.
func (c *Client) encodedQuery(req *Request) string {
	values := url.Values{}

	for key, list := range req.Query {
		values[key] = append([]string(nil), list...)
	}

	if queryMethod(req.Method) && len(req.Params) > 0 {
		for key, list := range attio.FlattenParams(req.Params) {
			values[key] = append(values[key], list...)
		}
	}

	return values.Encode()
}

// normalizePath guarantees a single leading slash.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}

	return path
}

// requestBody serializes the JSON body, or returns nil when there is
// nothing to send. Params only become a body on methods that carry them
// outside the query string.
func requestBody(req *Request) ([]byte, error) {
	var payload interface{}

	switch {
	case req.Body != nil:
		payload = req.Body
	case len(req.Params) > 0 && !queryMethod(req.Method):
		payload = req.Params
	default:
		return nil, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, attio.WrapError(attio.ErrorKindInvalidRequest, fmt.Sprintf("encoding request body: %v", err), err)
	}

	return data, nil
}

func queryMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
