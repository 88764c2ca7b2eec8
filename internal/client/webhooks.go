package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// WebhooksClient implements attio.WebhooksClient
type WebhooksClient struct {
	httpClient *http.Client
}

// NewWebhooksClient creates a new webhooks client
func NewWebhooksClient(httpClient *http.Client) *WebhooksClient {
	return &WebhooksClient{
		httpClient: httpClient,
	}
}

// List implements attio.WebhooksClient.List
func (c *WebhooksClient) List(ctx context.Context, params *attio.QueryParams) (*attio.ListResponse[attio.Webhook], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathWebhooks, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}

	var list attio.ListResponse[attio.Webhook]
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, fmt.Errorf("parsing webhooks list response: %w", err)
	}

	return &list, nil
}

// Get implements attio.WebhooksClient.Get
func (c *WebhooksClient) Get(ctx context.Context, webhookID string) (*attio.Webhook, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathWebhooks, webhookID)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting webhook: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Webhook]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing webhook response: %w", err)
	}

	return &envelope.Data, nil
}

// Create implements attio.WebhooksClient.Create. The response carries the
// signing secret for the new webhook; it is not returned again afterwards.
func (c *WebhooksClient) Create(ctx context.Context, request *attio.WebhookCreateRequest) (*attio.Webhook, error) {
	body := attio.DataEnvelope[*attio.WebhookCreateRequest]{Data: request}

	resp, err := c.httpClient.Post(ctx, constants.APIPathWebhooks, body)
	if err != nil {
		return nil, fmt.Errorf("creating webhook: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Webhook]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing webhook response: %w", err)
	}

	return &envelope.Data, nil
}

// Update implements attio.WebhooksClient.Update
func (c *WebhooksClient) Update(ctx context.Context, webhookID string, request *attio.WebhookUpdateRequest) (*attio.Webhook, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathWebhooks, webhookID)
	body := attio.DataEnvelope[*attio.WebhookUpdateRequest]{Data: request}

	resp, err := c.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("updating webhook: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Webhook]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing webhook response: %w", err)
	}

	return &envelope.Data, nil
}

// Delete implements attio.WebhooksClient.Delete
func (c *WebhooksClient) Delete(ctx context.Context, webhookID string) error {
	path := fmt.Sprintf("%s/%s", constants.APIPathWebhooks, webhookID)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting webhook: %w", err)
	}

	return nil
}
