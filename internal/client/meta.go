package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// MetaClient implements attio.MetaClient
type MetaClient struct {
	httpClient *http.Client
}

// NewMetaClient creates a new meta client
func NewMetaClient(httpClient *http.Client) *MetaClient {
	return &MetaClient{
		httpClient: httpClient,
	}
}

// Identify implements attio.MetaClient.Identify. The introspection endpoint
// returns the token description directly, without the data envelope.
func (c *MetaClient) Identify(ctx context.Context) (*attio.Self, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathSelf, nil)
	if err != nil {
		return nil, fmt.Errorf("identifying token: %w", err)
	}

	var self attio.Self
	if err := resp.DecodeJSON(&self); err != nil {
		return nil, fmt.Errorf("parsing self response: %w", err)
	}

	return &self, nil
}
