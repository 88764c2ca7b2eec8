package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// Static errors for err113 compliance.
var (
	ErrInvalidAttributeTarget = errors.New(`attribute target must be "objects" or "lists"`)
)

// AttributesClient implements attio.AttributesClient. Attributes live on
// both objects and lists, so every method takes the parent target and its
// identifier.
type AttributesClient struct {
	httpClient *http.Client
}

// NewAttributesClient creates a new attributes client
func NewAttributesClient(httpClient *http.Client) *AttributesClient {
	return &AttributesClient{
		httpClient: httpClient,
	}
}

// attributesPath resolves the attribute collection path for a parent schema.
func attributesPath(target, identifier string) (string, error) {
	if target != "objects" && target != "lists" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAttributeTarget, target)
	}

	return fmt.Sprintf("/%s/%s/attributes", target, identifier), nil
}

// List implements attio.AttributesClient.List
func (c *AttributesClient) List(ctx context.Context, target, identifier string, params *attio.QueryParams) (*attio.ListResponse[attio.Attribute], error) {
	path, err := attributesPath(target, identifier)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing attributes: %w", err)
	}

	var list attio.ListResponse[attio.Attribute]
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, fmt.Errorf("parsing attributes list response: %w", err)
	}

	return &list, nil
}

// Get implements attio.AttributesClient.Get
func (c *AttributesClient) Get(ctx context.Context, target, identifier, attribute string) (*attio.Attribute, error) {
	path, err := attributesPath(target, identifier)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, fmt.Sprintf("%s/%s", path, attribute), nil)
	if err != nil {
		return nil, fmt.Errorf("getting attribute: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Attribute]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing attribute response: %w", err)
	}

	return &envelope.Data, nil
}

// Create implements attio.AttributesClient.Create
func (c *AttributesClient) Create(ctx context.Context, target, identifier string, request *attio.AttributeCreateRequest) (*attio.Attribute, error) {
	path, err := attributesPath(target, identifier)
	if err != nil {
		return nil, err
	}

	body := attio.DataEnvelope[*attio.AttributeCreateRequest]{Data: request}

	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("creating attribute: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Attribute]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing attribute response: %w", err)
	}

	return &envelope.Data, nil
}

// Update implements attio.AttributesClient.Update
func (c *AttributesClient) Update(ctx context.Context, target, identifier, attribute string, request *attio.AttributeUpdateRequest) (*attio.Attribute, error) {
	path, err := attributesPath(target, identifier)
	if err != nil {
		return nil, err
	}

	body := attio.DataEnvelope[*attio.AttributeUpdateRequest]{Data: request}

	resp, err := c.httpClient.Patch(ctx, fmt.Sprintf("%s/%s", path, attribute), body)
	if err != nil {
		return nil, fmt.Errorf("updating attribute: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Attribute]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing attribute response: %w", err)
	}

	return &envelope.Data, nil
}
