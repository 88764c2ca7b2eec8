package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// TasksClient implements attio.TasksClient
type TasksClient struct {
	httpClient *http.Client
}

// NewTasksClient creates a new tasks client
func NewTasksClient(httpClient *http.Client) *TasksClient {
	return &TasksClient{
		httpClient: httpClient,
	}
}

// List implements attio.TasksClient.List. Filters such as linked_object and
// assignee travel in params.Extra.
func (c *TasksClient) List(ctx context.Context, params *attio.QueryParams) (*attio.ListResponse[attio.Task], error) {
	return c.ListWithPath(ctx, constants.APIPathTasks, params)
}

// ListWithPath implements attio.PaginationClient, letting the pagination
// helpers drive the task list endpoint page by page.
func (c *TasksClient) ListWithPath(ctx context.Context, path string, params *attio.QueryParams) (*attio.ListResponse[attio.Task], error) {
	if path == "" {
		path = constants.APIPathTasks
	}

	resp, err := c.httpClient.Get(ctx, path, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var list attio.ListResponse[attio.Task]
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, fmt.Errorf("parsing tasks list response: %w", err)
	}

	return &list, nil
}

// Get implements attio.TasksClient.Get
func (c *TasksClient) Get(ctx context.Context, taskID string) (*attio.Task, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathTasks, taskID)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Task]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing task response: %w", err)
	}

	return &envelope.Data, nil
}

// Create implements attio.TasksClient.Create
func (c *TasksClient) Create(ctx context.Context, request *attio.TaskCreateRequest) (*attio.Task, error) {
	body := attio.DataEnvelope[*attio.TaskCreateRequest]{Data: request}

	resp, err := c.httpClient.Post(ctx, constants.APIPathTasks, body)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Task]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing task response: %w", err)
	}

	return &envelope.Data, nil
}

// Update implements attio.TasksClient.Update
func (c *TasksClient) Update(ctx context.Context, taskID string, request *attio.TaskUpdateRequest) (*attio.Task, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathTasks, taskID)
	body := attio.DataEnvelope[*attio.TaskUpdateRequest]{Data: request}

	resp, err := c.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	var envelope attio.DataEnvelope[attio.Task]
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("parsing task response: %w", err)
	}

	return &envelope.Data, nil
}

// Delete implements attio.TasksClient.Delete
func (c *TasksClient) Delete(ctx context.Context, taskID string) error {
	path := fmt.Sprintf("%s/%s", constants.APIPathTasks, taskID)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	return nil
}
