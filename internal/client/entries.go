package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// EntriesClient implements attio.EntriesClient. Every operation is scoped
// to a list by its slug or id.
type EntriesClient struct {
	httpClient *http.Client
}

// NewEntriesClient creates a new list entries client
func NewEntriesClient(httpClient *http.Client) *EntriesClient {
	return &EntriesClient{
		httpClient: httpClient,
	}
}

// Query implements attio.EntriesClient.Query
func (c *EntriesClient) Query(ctx context.Context, list string, params *attio.QueryParams) (*attio.ListResponse[attio.Entry], error) {
	path := fmt.Sprintf("%s/%s/entries/query", constants.APIPathLists, list)

	resp, err := c.httpClient.Post(ctx, path, params.ToBody())
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}

	var result attio.ListResponse[attio.Entry]
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("parsing entries query response: %w", err)
	}

	return &result, nil
}

// QueryAll implements attio.EntriesClient.QueryAll by walking every page of
// the query endpoint.
func (c *EntriesClient) QueryAll(ctx context.Context, list string, params *attio.QueryParams) ([]attio.Entry, error) {
	pager := &entryPager{client: c, list: list}

	entries, err := attio.FetchAllPages(ctx, pager, "", params, nil)
	if err != nil {
		return nil, fmt.Errorf("querying all entries: %w", err)
	}

	return entries, nil
}

// Get implements attio.EntriesClient.Get
func (c *EntriesClient) Get(ctx context.Context, list, entryID string) (*attio.Entry, error) {
	path := fmt.Sprintf("%s/%s/entries/%s", constants.APIPathLists, list, entryID)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting entry: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Entry]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing entry response: %w", err)
	}

	return &envelope.Data, nil
}

// Create implements attio.EntriesClient.Create
func (c *EntriesClient) Create(ctx context.Context, list string, request *attio.EntryCreateRequest) (*attio.Entry, error) {
	path := fmt.Sprintf("%s/%s/entries", constants.APIPathLists, list)
	body := attio.DataEnvelope[*attio.EntryCreateRequest]{Data: request}

	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Entry]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing entry response: %w", err)
	}

	return &envelope.Data, nil
}

// Assert implements attio.EntriesClient.Assert. The PUT creates an entry
// for the parent record named in the request, or updates the existing one
// when the record is already on the list.
func (c *EntriesClient) Assert(ctx context.Context, list string, request *attio.EntryCreateRequest) (*attio.Entry, error) {
	path := fmt.Sprintf("%s/%s/entries", constants.APIPathLists, list)
	body := attio.DataEnvelope[*attio.EntryCreateRequest]{Data: request}

	resp, err := c.httpClient.Put(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("asserting entry: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Entry]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing entry response: %w", err)
	}

	return &envelope.Data, nil
}

// Update implements attio.EntriesClient.Update
func (c *EntriesClient) Update(ctx context.Context, list, entryID string, request *attio.EntryUpdateRequest) (*attio.Entry, error) {
	path := fmt.Sprintf("%s/%s/entries/%s", constants.APIPathLists, list, entryID)
	body := attio.DataEnvelope[*attio.EntryUpdateRequest]{Data: request}

	resp, err := c.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("updating entry: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Entry]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing entry response: %w", err)
	}

	return &envelope.Data, nil
}

// Delete implements attio.EntriesClient.Delete
func (c *EntriesClient) Delete(ctx context.Context, list, entryID string) error {
	path := fmt.Sprintf("%s/%s/entries/%s", constants.APIPathLists, list, entryID)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	return nil
}

// entryPager adapts a list's query endpoint to the pagination helpers.
type entryPager struct {
	client *EntriesClient
	list   string
}

// ListWithPath implements attio.PaginationClient. The path is fixed by the
// list the pager was built for.
func (p *entryPager) ListWithPath(ctx context.Context, _ string, params *attio.QueryParams) (*attio.ListResponse[attio.Entry], error) {
	return p.client.Query(ctx, p.list, params)
}
