package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// ListsClient implements attio.ListsClient
type ListsClient struct {
	httpClient *http.Client
}

// NewListsClient creates a new lists client
func NewListsClient(httpClient *http.Client) *ListsClient {
	return &ListsClient{
		httpClient: httpClient,
	}
}

// List implements attio.ListsClient.List
func (c *ListsClient) List(ctx context.Context) (*attio.ListResponse[attio.List], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathLists, nil)
	if err != nil {
		return nil, fmt.Errorf("listing lists: %w", err)
	}

	var list attio.ListResponse[attio.List]
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, fmt.Errorf("parsing lists response: %w", err)
	}

	return &list, nil
}

// Get implements attio.ListsClient.Get
func (c *ListsClient) Get(ctx context.Context, list string) (*attio.List, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathLists, list)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting list: %w", err)
	}

	var envelope attio.DataEnvelope[attio.List]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}

	return &envelope.Data, nil
}

// Create implements attio.ListsClient.Create
func (c *ListsClient) Create(ctx context.Context, request *attio.ListCreateRequest) (*attio.List, error) {
	body := attio.DataEnvelope[*attio.ListCreateRequest]{Data: request}

	resp, err := c.httpClient.Post(ctx, constants.APIPathLists, body)
	if err != nil {
		return nil, fmt.Errorf("creating list: %w", err)
	}

	var envelope attio.DataEnvelope[attio.List]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}

	return &envelope.Data, nil
}

// Update implements attio.ListsClient.Update
func (c *ListsClient) Update(ctx context.Context, list string, request *attio.ListUpdateRequest) (*attio.List, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathLists, list)
	body := attio.DataEnvelope[*attio.ListUpdateRequest]{Data: request}

	resp, err := c.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("updating list: %w", err)
	}

	var envelope attio.DataEnvelope[attio.List]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}

	return &envelope.Data, nil
}
