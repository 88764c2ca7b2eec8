package attio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/attio/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrTransactionFailed = errors.New("transaction failed")
)

// UpdateData pairs an update request with the id it targets.
type UpdateData[T any] struct {
	ID      string
	Request *T
}

// RecordCreateData scopes a batch record creation to its parent object.
type RecordCreateData struct {
	Object  string
	Request *RecordCreateRequest
}

// RecordUpdateData addresses the record to update and carries the new values.
type RecordUpdateData struct {
	Object   string
	RecordID string
	Request  *RecordUpdateRequest
}

// handleCrudOperation is a helper that handles the common CRUD pattern.
func handleCrudOperation(
	operation BatchOperation,
	createFunc func() (interface{}, error),
	updateFunc func() (interface{}, error),
	deleteFunc func() (interface{}, error),
	getFunc func() (interface{}, error),
) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	switch operation.Type {
	case "create":
		data, err := createFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case "update":
		data, err := updateFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case "delete":
		data, err := deleteFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case "get":
		data, err := getFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	default:
		result.Error = fmt.Errorf("%w: %s", constants.ErrUnsupportedOperation, operation.Type)
	}

	return result
}

// invalidOperationData reports a batch payload whose type does not match
// the resource and operation it was submitted for.
func invalidOperationData(resource, operation string) error {
	return fmt.Errorf("%w: %s %s", constants.ErrInvalidOperationData, resource, operation)
}

// CRUDOperationConfig holds the per-resource handlers for CRUD operations.
type CRUDOperationConfig struct {
	CreateFunc func(ctx context.Context, operation BatchOperation) (interface{}, error)
	UpdateFunc func(ctx context.Context, operation BatchOperation) (interface{}, error)
	DeleteFunc func(ctx context.Context, operation BatchOperation) (interface{}, error)
	GetFunc    func(ctx context.Context, operation BatchOperation) (interface{}, error)
}

// ResourceClientOps describes the uniform CRUD surface shared by resource
// clients addressed by a bare id, such as tasks and webhooks.
type ResourceClientOps[TCreateRequest, TUpdateRequest, TResponse any] interface {
	Create(ctx context.Context, request *TCreateRequest) (*TResponse, error)
	Update(ctx context.Context, id string, request *TUpdateRequest) (*TResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*TResponse, error)
}

// newCRUDConfig builds a CRUD operation configuration for a uniform
// resource client.
func newCRUDConfig[TCreateRequest, TUpdateRequest, TResponse any](
	resource string,
	client ResourceClientOps[TCreateRequest, TUpdateRequest, TResponse],
) CRUDOperationConfig {
	return CRUDOperationConfig{
		CreateFunc: func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if req, ok := operation.Data.(*TCreateRequest); ok {
				return client.Create(ctx, req)
			}

			return nil, invalidOperationData(resource, "create")
		},
		UpdateFunc: func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if data, ok := operation.Data.(*UpdateData[TUpdateRequest]); ok {
				return client.Update(ctx, data.ID, data.Request)
			}

			return nil, invalidOperationData(resource, "update")
		},
		DeleteFunc: func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				if err := client.Delete(ctx, id); err != nil {
					return nil, err
				}

				return nil, nil
			}

			return nil, invalidOperationData(resource, "delete")
		},
		GetFunc: func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				return client.Get(ctx, id)
			}

			return nil, invalidOperationData(resource, "get")
		},
	}
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // "create", "update", "delete", "get"
	Resource string // "record", "note", "task", "webhook"
	Data     interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor executes batch operations.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor. Concurrency outside the
// supported range is clamped.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	if concurrency > constants.MaxConcurrencyLimit {
		concurrency = constants.MaxConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the per-operation timeout.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations, at most concurrency at a time. Every
// operation gets a result in submission order; individual failures land in
// their result entry and never abort the rest of the batch.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	var group errgroup.Group

	group.SetLimit(b.concurrency)

	for index, operation := range operations {
		group.Go(func() error {
			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}

			return nil
		})
	}

	// Workers never return errors, so Wait only synchronizes completion.
	_ = group.Wait()

	return results, nil
}

// executeGenericCrudOperation handles CRUD operations using the provided configuration.
func (b *BatchExecutor) executeGenericCrudOperation(ctx context.Context, operation BatchOperation, config CRUDOperationConfig) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) { return config.CreateFunc(ctx, operation) },
		func() (interface{}, error) { return config.UpdateFunc(ctx, operation) },
		func() (interface{}, error) { return config.DeleteFunc(ctx, operation) },
		func() (interface{}, error) { return config.GetFunc(ctx, operation) },
	)
}

// executeOperation executes a single operation.
func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{
		ID: operation.ID,
	}

	switch operation.Resource {
	case "record":
		result = b.executeRecordOperation(ctx, operation)
	case "note":
		result = b.executeNoteOperation(ctx, operation)
	case "task":
		result = b.executeGenericCrudOperation(ctx, operation, newCRUDConfig("task", b.client.Tasks()))
	case "webhook":
		result = b.executeGenericCrudOperation(ctx, operation, newCRUDConfig("webhook", b.client.Webhooks()))
	default:
		result.Success = false
		result.Error = fmt.Errorf("%w: %s", constants.ErrUnsupportedResource, operation.Resource)
	}

	return result
}

// executeRecordOperation handles record operations, which are scoped to a
// parent object and cannot use the uniform CRUD configuration.
func (b *BatchExecutor) executeRecordOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if data, ok := operation.Data.(*RecordCreateData); ok {
				return b.client.Records().Create(ctx, data.Object, data.Request)
			}

			return nil, invalidOperationData("record", "create")
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*RecordUpdateData); ok {
				return b.client.Records().Update(ctx, data.Object, data.RecordID, data.Request)
			}

			return nil, invalidOperationData("record", "update")
		},
		func() (interface{}, error) {
			if pointer, ok := operation.Data.(RecordPointer); ok {
				err := b.client.Records().Delete(ctx, pointer.Object, pointer.RecordID)
				if err != nil {
					return nil, fmt.Errorf("deleting record: %w", err)
				}

				return nil, nil
			}

			return nil, invalidOperationData("record", "delete")
		},
		func() (interface{}, error) {
			if pointer, ok := operation.Data.(RecordPointer); ok {
				return b.client.Records().Get(ctx, pointer.Object, pointer.RecordID)
			}

			return nil, invalidOperationData("record", "get")
		},
	)
}

// executeNoteOperation handles note operations. Notes are immutable, so
// update is rejected.
func (b *BatchExecutor) executeNoteOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if req, ok := operation.Data.(*NoteCreateRequest); ok {
				return b.client.Notes().Create(ctx, req)
			}

			return nil, invalidOperationData("note", "create")
		},
		func() (interface{}, error) {
			return nil, fmt.Errorf("%w: note update", constants.ErrUnsupportedOperation)
		},
		func() (interface{}, error) {
			if noteID, ok := operation.Data.(string); ok {
				err := b.client.Notes().Delete(ctx, noteID)
				if err != nil {
					return nil, fmt.Errorf("deleting note: %w", err)
				}

				return nil, nil
			}

			return nil, invalidOperationData("note", "delete")
		},
		func() (interface{}, error) {
			if noteID, ok := operation.Data.(string); ok {
				return b.client.Notes().Get(ctx, noteID)
			}

			return nil, invalidOperationData("note", "get")
		},
	)
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddCreateRecord adds a record creation operation.
func (b *BatchBuilder) AddCreateRecord(id, object string, request *RecordCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "create",
		Resource: "record",
		Data: &RecordCreateData{
			Object:  object,
			Request: request,
		},
	})

	return b
}

// AddUpdateRecord adds a record update operation.
func (b *BatchBuilder) AddUpdateRecord(id, object, recordID string, request *RecordUpdateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "update",
		Resource: "record",
		Data: &RecordUpdateData{
			Object:   object,
			RecordID: recordID,
			Request:  request,
		},
	})

	return b
}

// AddDeleteRecord adds a record deletion operation.
func (b *BatchBuilder) AddDeleteRecord(id, object, recordID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "delete",
		Resource: "record",
		Data:     RecordPointer{Object: object, RecordID: recordID},
	})

	return b
}

// AddGetRecord adds a record get operation.
func (b *BatchBuilder) AddGetRecord(id, object, recordID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "get",
		Resource: "record",
		Data:     RecordPointer{Object: object, RecordID: recordID},
	})

	return b
}

// AddCreateNote adds a note creation operation.
func (b *BatchBuilder) AddCreateNote(id string, request *NoteCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "create",
		Resource: "note",
		Data:     request,
	})

	return b
}

// AddCreateTask adds a task creation operation.
func (b *BatchBuilder) AddCreateTask(id string, request *TaskCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "create",
		Resource: "task",
		Data:     request,
	})

	return b
}

// AddUpdateTask adds a task update operation.
func (b *BatchBuilder) AddUpdateTask(id, taskID string, request *TaskUpdateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "update",
		Resource: "task",
		Data: &UpdateData[TaskUpdateRequest]{
			ID:      taskID,
			Request: request,
		},
	})

	return b
}

// AddDeleteTask adds a task deletion operation.
func (b *BatchBuilder) AddDeleteTask(id, taskID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "delete",
		Resource: "task",
		Data:     taskID,
	})

	return b
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// BatchTransaction represents a transactional batch of operations.
type BatchTransaction struct {
	operations []BatchOperation
	results    []BatchResult
	executor   *BatchExecutor
	rollback   bool
}

// NewBatchTransaction creates a new batch transaction.
func NewBatchTransaction(executor *BatchExecutor) *BatchTransaction {
	return &BatchTransaction{
		executor:   executor,
		operations: make([]BatchOperation, 0),
		rollback:   true,
	}
}

// Add adds an operation to the transaction.
func (t *BatchTransaction) Add(operation BatchOperation) *BatchTransaction {
	t.operations = append(t.operations, operation)

	return t
}

// SetRollback sets whether to roll back on failure.
func (t *BatchTransaction) SetRollback(rollback bool) *BatchTransaction {
	t.rollback = rollback

	return t
}

// Execute executes the transaction. When any operation fails and rollback
// is enabled, successful creations are deleted again and the returned
// error wraps ErrTransactionFailed.
func (t *BatchTransaction) Execute(ctx context.Context) ([]BatchResult, error) {
	results, err := t.executor.Execute(ctx, t.operations)
	t.results = results

	var failedOps []string

	for _, result := range results {
		if !result.Success {
			failedOps = append(failedOps, result.ID)
		}
	}

	if len(failedOps) > 0 && t.rollback {
		t.performRollback(ctx)

		return results, fmt.Errorf("%w, %d operations failed: %v", ErrTransactionFailed, len(failedOps), failedOps)
	}

	return results, err
}

// performRollback deletes the resources created by successful operations.
// Updates and deletes have no recorded prior state and are not undone.
func (t *BatchTransaction) performRollback(ctx context.Context) {
	var rollbackOps []BatchOperation

	for i, result := range t.results {
		if !result.Success || t.operations[i].Type != "create" {
			continue
		}

		original := t.operations[i]

		data, ok := rollbackDeleteData(original.Resource, result.Data)
		if !ok {
			continue
		}

		rollbackOps = append(rollbackOps, BatchOperation{
			ID:       "rollback_" + original.ID,
			Type:     "delete",
			Resource: original.Resource,
			Data:     data,
		})
	}

	if len(rollbackOps) > 0 {
		_, _ = t.executor.Execute(ctx, rollbackOps)
	}
}

// rollbackDeleteData derives the delete payload that undoes a create from
// the created resource's identity.
func rollbackDeleteData(resource string, created interface{}) (interface{}, bool) {
	switch resource {
	case "record":
		if record, ok := created.(*Record); ok {
			return RecordPointer{Object: record.ID.ObjectID, RecordID: record.ID.RecordID}, true
		}
	case "note":
		if note, ok := created.(*Note); ok {
			return note.ID.NoteID, true
		}
	case "task":
		if task, ok := created.(*Task); ok {
			return task.ID.TaskID, true
		}
	case "webhook":
		if webhook, ok := created.(*Webhook); ok {
			return webhook.ID.WebhookID, true
		}
	}

	return nil, false
}
