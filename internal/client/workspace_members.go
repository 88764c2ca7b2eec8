package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// WorkspaceMembersClient implements attio.WorkspaceMembersClient.
// Membership is managed in the product, so the surface is read-only.
type WorkspaceMembersClient struct {
	httpClient *http.Client
}

// NewWorkspaceMembersClient creates a new workspace members client
func NewWorkspaceMembersClient(httpClient *http.Client) *WorkspaceMembersClient {
	return &WorkspaceMembersClient{
		httpClient: httpClient,
	}
}

// List implements attio.WorkspaceMembersClient.List
func (c *WorkspaceMembersClient) List(ctx context.Context) (*attio.ListResponse[attio.WorkspaceMember], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathWorkspaceMembers, nil)
	if err != nil {
		return nil, fmt.Errorf("listing workspace members: %w", err)
	}

	var list attio.ListResponse[attio.WorkspaceMember]
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, fmt.Errorf("parsing workspace members list response: %w", err)
	}

	return &list, nil
}

// Get implements attio.WorkspaceMembersClient.Get
func (c *WorkspaceMembersClient) Get(ctx context.Context, memberID string) (*attio.WorkspaceMember, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathWorkspaceMembers, memberID)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting workspace member: %w", err)
	}

	var envelope attio.DataEnvelope[attio.WorkspaceMember]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing workspace member response: %w", err)
	}

	return &envelope.Data, nil
}
