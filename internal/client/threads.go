package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// ThreadsClient implements attio.ThreadsClient. Threads are created by
// commenting on a record or entry, so the surface is read-only.
type ThreadsClient struct {
	httpClient *http.Client
}

// NewThreadsClient creates a new threads client
func NewThreadsClient(httpClient *http.Client) *ThreadsClient {
	return &ThreadsClient{
		httpClient: httpClient,
	}
}

// List implements attio.ThreadsClient.List. Anchor filters such as
// record_id and entry_id travel in params.Extra.
func (c *ThreadsClient) List(ctx context.Context, params *attio.QueryParams) (*attio.ListResponse[attio.Thread], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathThreads, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}

	var list attio.ListResponse[attio.Thread]
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, fmt.Errorf("parsing threads list response: %w", err)
	}

	return &list, nil
}

// Get implements attio.ThreadsClient.Get
func (c *ThreadsClient) Get(ctx context.Context, threadID string) (*attio.Thread, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathThreads, threadID)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting thread: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Thread]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing thread response: %w", err)
	}

	return &envelope.Data, nil
}
