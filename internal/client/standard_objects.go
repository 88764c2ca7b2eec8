package client

import (
	"context"

	"github.com/fivetwenty-io/attio/pkg/attio"
)

// StandardObjectClient implements attio.StandardObjectClient by delegating
// to a records client with the object slug fixed.
type StandardObjectClient struct {
	records attio.RecordsClient
	object  string
}

// NewStandardObjectClient creates a records client scoped to one object
func NewStandardObjectClient(records attio.RecordsClient, object string) *StandardObjectClient {
	return &StandardObjectClient{
		records: records,
		object:  object,
	}
}

// Object returns the slug the client is scoped to.
func (c *StandardObjectClient) Object() string {
	return c.object
}

// Query implements attio.StandardObjectClient.Query
func (c *StandardObjectClient) Query(ctx context.Context, params *attio.QueryParams) (*attio.ListResponse[attio.Record], error) {
	return c.records.Query(ctx, c.object, params)
}

// Get implements attio.StandardObjectClient.Get
func (c *StandardObjectClient) Get(ctx context.Context, recordID string) (*attio.Record, error) {
	return c.records.Get(ctx, c.object, recordID)
}

// Create implements attio.StandardObjectClient.Create
func (c *StandardObjectClient) Create(ctx context.Context, request *attio.RecordCreateRequest) (*attio.Record, error) {
	return c.records.Create(ctx, c.object, request)
}

// Update implements attio.StandardObjectClient.Update
func (c *StandardObjectClient) Update(ctx context.Context, recordID string, request *attio.RecordUpdateRequest) (*attio.Record, error) {
	return c.records.Update(ctx, c.object, recordID, request)
}

// Assert implements attio.StandardObjectClient.Assert
func (c *StandardObjectClient) Assert(ctx context.Context, matchingAttribute string, request *attio.RecordCreateRequest) (*attio.Record, error) {
	return c.records.Assert(ctx, c.object, matchingAttribute, request)
}

// Delete implements attio.StandardObjectClient.Delete
func (c *StandardObjectClient) Delete(ctx context.Context, recordID string) error {
	return c.records.Delete(ctx, c.object, recordID)
}
