package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// CommentsClient implements attio.CommentsClient
type CommentsClient struct {
	httpClient *http.Client
}

// NewCommentsClient creates a new comments client
func NewCommentsClient(httpClient *http.Client) *CommentsClient {
	return &CommentsClient{
		httpClient: httpClient,
	}
}

// Get implements attio.CommentsClient.Get
func (c *CommentsClient) Get(ctx context.Context, commentID string) (*attio.Comment, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathComments, commentID)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting comment: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Comment]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing comment response: %w", err)
	}

	return &envelope.Data, nil
}

// Create implements attio.CommentsClient.Create
func (c *CommentsClient) Create(ctx context.Context, request *attio.CommentCreateRequest) (*attio.Comment, error) {
	body := attio.DataEnvelope[*attio.CommentCreateRequest]{Data: request}

	resp, err := c.httpClient.Post(ctx, constants.APIPathComments, body)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Comment]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing comment response: %w", err)
	}

	return &envelope.Data, nil
}

// Delete implements attio.CommentsClient.Delete
func (c *CommentsClient) Delete(ctx context.Context, commentID string) error {
	path := fmt.Sprintf("%s/%s", constants.APIPathComments, commentID)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	return nil
}
