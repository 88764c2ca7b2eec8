package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// ObjectsClient implements attio.ObjectsClient
type ObjectsClient struct {
	httpClient *http.Client
}

// NewObjectsClient creates a new objects client
func NewObjectsClient(httpClient *http.Client) *ObjectsClient {
	return &ObjectsClient{
		httpClient: httpClient,
	}
}

// List implements attio.ObjectsClient.List
func (c *ObjectsClient) List(ctx context.Context) (*attio.ListResponse[attio.Object], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathObjects, nil)
	if err != nil {
		return nil, fmt.Errorf("listing objects: %w", err)
	}

	var list attio.ListResponse[attio.Object]
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, fmt.Errorf("parsing objects list response: %w", err)
	}

	return &list, nil
}

// Get implements attio.ObjectsClient.Get
func (c *ObjectsClient) Get(ctx context.Context, object string) (*attio.Object, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathObjects, object)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting object: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Object]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing object response: %w", err)
	}

	return &envelope.Data, nil
}

// Create implements attio.ObjectsClient.Create
func (c *ObjectsClient) Create(ctx context.Context, request *attio.ObjectCreateRequest) (*attio.Object, error) {
	body := attio.DataEnvelope[*attio.ObjectCreateRequest]{Data: request}

	resp, err := c.httpClient.Post(ctx, constants.APIPathObjects, body)
	if err != nil {
		return nil, fmt.Errorf("creating object: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Object]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing object response: %w", err)
	}

	return &envelope.Data, nil
}

// Update implements attio.ObjectsClient.Update
func (c *ObjectsClient) Update(ctx context.Context, object string, request *attio.ObjectUpdateRequest) (*attio.Object, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathObjects, object)
	body := attio.DataEnvelope[*attio.ObjectUpdateRequest]{Data: request}

	resp, err := c.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("updating object: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Object]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing object response: %w", err)
	}

	return &envelope.Data, nil
}
