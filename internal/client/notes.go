package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// NotesClient implements attio.NotesClient. Notes are immutable, so the
// surface has no update operation.
type NotesClient struct {
	httpClient *http.Client
}

// NewNotesClient creates a new notes client
func NewNotesClient(httpClient *http.Client) *NotesClient {
	return &NotesClient{
		httpClient: httpClient,
	}
}

// List implements attio.NotesClient.List. Parent filters such as
// parent_object and parent_record_id travel in params.Extra.
func (c *NotesClient) List(ctx context.Context, params *attio.QueryParams) (*attio.ListResponse[attio.Note], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathNotes, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	var list attio.ListResponse[attio.Note]
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, fmt.Errorf("parsing notes list response: %w", err)
	}

	return &list, nil
}

// Get implements attio.NotesClient.Get
func (c *NotesClient) Get(ctx context.Context, noteID string) (*attio.Note, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathNotes, noteID)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting note: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Note]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing note response: %w", err)
	}

	return &envelope.Data, nil
}

// Create implements attio.NotesClient.Create
func (c *NotesClient) Create(ctx context.Context, request *attio.NoteCreateRequest) (*attio.Note, error) {
	body := attio.DataEnvelope[*attio.NoteCreateRequest]{Data: request}

	resp, err := c.httpClient.Post(ctx, constants.APIPathNotes, body)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Note]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing note response: %w", err)
	}

	return &envelope.Data, nil
}

// Delete implements attio.NotesClient.Delete
func (c *NotesClient) Delete(ctx context.Context, noteID string) error {
	path := fmt.Sprintf("%s/%s", constants.APIPathNotes, noteID)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	return nil
}
