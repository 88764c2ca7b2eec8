package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// RecordsClient implements attio.RecordsClient. Every operation is scoped
// to an object by its slug or id.
type RecordsClient struct {
	httpClient *http.Client
}

// NewRecordsClient creates a new records client
func NewRecordsClient(httpClient *http.Client) *RecordsClient {
	return &RecordsClient{
		httpClient: httpClient,
	}
}

// Query implements attio.RecordsClient.Query. Filters, sorts, and paging
// travel in the POST body, which is how the query endpoint accepts them.
func (c *RecordsClient) Query(ctx context.Context, object string, params *attio.QueryParams) (*attio.ListResponse[attio.Record], error) {
	path := fmt.Sprintf("%s/%s/records/query", constants.APIPathObjects, object)

	resp, err := c.httpClient.Post(ctx, path, params.ToBody())
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}

	var list attio.ListResponse[attio.Record]
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, fmt.Errorf("parsing records query response: %w", err)
	}

	return &list, nil
}

// QueryAll implements attio.RecordsClient.QueryAll by walking every page of
// the query endpoint.
func (c *RecordsClient) QueryAll(ctx context.Context, object string, params *attio.QueryParams) ([]attio.Record, error) {
	pager := &recordPager{client: c, object: object}

	records, err := attio.FetchAllPages(ctx, pager, "", params, nil)
	if err != nil {
		return nil, fmt.Errorf("querying all records: %w", err)
	}

	return records, nil
}

// Get implements attio.RecordsClient.Get
func (c *RecordsClient) Get(ctx context.Context, object, recordID string) (*attio.Record, error) {
	path := fmt.Sprintf("%s/%s/records/%s", constants.APIPathObjects, object, recordID)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Record]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing record response: %w", err)
	}

	return &envelope.Data, nil
}

// Create implements attio.RecordsClient.Create
func (c *RecordsClient) Create(ctx context.Context, object string, request *attio.RecordCreateRequest) (*attio.Record, error) {
	path := fmt.Sprintf("%s/%s/records", constants.APIPathObjects, object)
	body := attio.DataEnvelope[*attio.RecordCreateRequest]{Data: request}

	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("creating record: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Record]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing record response: %w", err)
	}

	return &envelope.Data, nil
}

// Update implements attio.RecordsClient.Update
func (c *RecordsClient) Update(ctx context.Context, object, recordID string, request *attio.RecordUpdateRequest) (*attio.Record, error) {
	path := fmt.Sprintf("%s/%s/records/%s", constants.APIPathObjects, object, recordID)
	body := attio.DataEnvelope[*attio.RecordUpdateRequest]{Data: request}

	resp, err := c.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("updating record: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Record]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing record response: %w", err)
	}

	return &envelope.Data, nil
}

// Assert implements attio.RecordsClient.Assert. The matching attribute
// travels as a query parameter on the PUT, which creates the record when no
// match exists and updates it otherwise.
func (c *RecordsClient) Assert(ctx context.Context, object, matchingAttribute string, request *attio.RecordCreateRequest) (*attio.Record, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: nethttp.MethodPut,
		Path:   fmt.Sprintf("%s/%s/records", constants.APIPathObjects, object),
		Query:  url.Values{"matching_attribute": []string{matchingAttribute}},
		Body:   attio.DataEnvelope[*attio.RecordCreateRequest]{Data: request},
	})
	if err != nil {
		return nil, fmt.Errorf("asserting record: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Record]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing record response: %w", err)
	}

	return &envelope.Data, nil
}

// Delete implements attio.RecordsClient.Delete
func (c *RecordsClient) Delete(ctx context.Context, object, recordID string) error {
	path := fmt.Sprintf("%s/%s/records/%s", constants.APIPathObjects, object, recordID)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	return nil
}

// ListEntries implements attio.RecordsClient.ListEntries. It returns the
// list entries pointing at the record across every list it appears in.
func (c *RecordsClient) ListEntries(ctx context.Context, object, recordID string, params *attio.QueryParams) (*attio.ListResponse[attio.Entry], error) {
	path := fmt.Sprintf("%s/%s/records/%s/entries", constants.APIPathObjects, object, recordID)

	resp, err := c.httpClient.Get(ctx, path, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing record entries: %w", err)
	}

	var list attio.ListResponse[attio.Entry]
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, fmt.Errorf("parsing record entries response: %w", err)
	}

	return &list, nil
}

// recordPager adapts an object's query endpoint to the pagination helpers.
type recordPager struct {
	client *RecordsClient
	object string
}

// ListWithPath implements attio.PaginationClient. The path is fixed by the
// object the pager was built for.
func (p *recordPager) ListWithPath(ctx context.Context, _ string, params *attio.QueryParams) (*attio.ListResponse[attio.Record], error) {
	return p.client.Query(ctx, p.object, params)
}
