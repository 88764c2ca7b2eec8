package attio_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fivetwenty-io/attio/pkg/attio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements attio.Client for testing
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Objects() attio.ObjectsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.ObjectsClient)
}

func (m *MockClient) Attributes() attio.AttributesClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.AttributesClient)
}

func (m *MockClient) Records() attio.RecordsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.RecordsClient)
}

func (m *MockClient) Lists() attio.ListsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.ListsClient)
}

func (m *MockClient) Entries() attio.EntriesClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.EntriesClient)
}

func (m *MockClient) Notes() attio.NotesClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.NotesClient)
}

func (m *MockClient) Tasks() attio.TasksClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.TasksClient)
}

func (m *MockClient) Comments() attio.CommentsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.CommentsClient)
}

func (m *MockClient) Threads() attio.ThreadsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.ThreadsClient)
}

func (m *MockClient) Webhooks() attio.WebhooksClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.WebhooksClient)
}

func (m *MockClient) WorkspaceMembers() attio.WorkspaceMembersClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.WorkspaceMembersClient)
}

func (m *MockClient) Meta() attio.MetaClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.MetaClient)
}

func (m *MockClient) People() attio.StandardObjectClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.StandardObjectClient)
}

func (m *MockClient) Companies() attio.StandardObjectClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.StandardObjectClient)
}

func (m *MockClient) Deals() attio.StandardObjectClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(attio.StandardObjectClient)
}

func (m *MockClient) WebhookVerifier() *attio.WebhookVerifier {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*attio.WebhookVerifier)
}

// MockRecordsClient implements attio.RecordsClient for testing
type MockRecordsClient struct {
	mock.Mock
}

func (m *MockRecordsClient) Query(ctx context.Context, object string, params *attio.QueryParams) (*attio.ListResponse[attio.Record], error) {
	args := m.Called(ctx, object, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.ListResponse[attio.Record]), args.Error(1)
}

func (m *MockRecordsClient) QueryAll(ctx context.Context, object string, params *attio.QueryParams) ([]attio.Record, error) {
	args := m.Called(ctx, object, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]attio.Record), args.Error(1)
}

func (m *MockRecordsClient) Get(ctx context.Context, object, recordID string) (*attio.Record, error) {
	args := m.Called(ctx, object, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.Record), args.Error(1)
}

func (m *MockRecordsClient) Create(ctx context.Context, object string, request *attio.RecordCreateRequest) (*attio.Record, error) {
	args := m.Called(ctx, object, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.Record), args.Error(1)
}

func (m *MockRecordsClient) Update(ctx context.Context, object, recordID string, request *attio.RecordUpdateRequest) (*attio.Record, error) {
	args := m.Called(ctx, object, recordID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.Record), args.Error(1)
}

func (m *MockRecordsClient) Assert(ctx context.Context, object, matchingAttribute string, request *attio.RecordCreateRequest) (*attio.Record, error) {
	args := m.Called(ctx, object, matchingAttribute, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.Record), args.Error(1)
}

func (m *MockRecordsClient) Delete(ctx context.Context, object, recordID string) error {
	args := m.Called(ctx, object, recordID)
	return args.Error(0)
}

func (m *MockRecordsClient) ListEntries(ctx context.Context, object, recordID string, params *attio.QueryParams) (*attio.ListResponse[attio.Entry], error) {
	args := m.Called(ctx, object, recordID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.ListResponse[attio.Entry]), args.Error(1)
}

// MockTasksClient implements attio.TasksClient for testing
type MockTasksClient struct {
	mock.Mock
}

func (m *MockTasksClient) List(ctx context.Context, params *attio.QueryParams) (*attio.ListResponse[attio.Task], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.ListResponse[attio.Task]), args.Error(1)
}

func (m *MockTasksClient) Get(ctx context.Context, taskID string) (*attio.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.Task), args.Error(1)
}

func (m *MockTasksClient) Create(ctx context.Context, request *attio.TaskCreateRequest) (*attio.Task, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.Task), args.Error(1)
}

func (m *MockTasksClient) Update(ctx context.Context, taskID string, request *attio.TaskUpdateRequest) (*attio.Task, error) {
	args := m.Called(ctx, taskID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.Task), args.Error(1)
}

func (m *MockTasksClient) Delete(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

// MockNotesClient implements attio.NotesClient for testing
type MockNotesClient struct {
	mock.Mock
}

func (m *MockNotesClient) List(ctx context.Context, params *attio.QueryParams) (*attio.ListResponse[attio.Note], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.ListResponse[attio.Note]), args.Error(1)
}

func (m *MockNotesClient) Get(ctx context.Context, noteID string) (*attio.Note, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.Note), args.Error(1)
}

func (m *MockNotesClient) Create(ctx context.Context, request *attio.NoteCreateRequest) (*attio.Note, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attio.Note), args.Error(1)
}

func (m *MockNotesClient) Delete(ctx context.Context, noteID string) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}

func TestBatchExecutor_Execute(t *testing.T) {
	mockClient := &MockClient{}
	mockRecords := &MockRecordsClient{}
	mockClient.On("Records").Return(mockRecords)

	executor := attio.NewBatchExecutor(mockClient, 2)
	ctx := context.Background()

	record1 := &attio.Record{
		ID: attio.RecordID{WorkspaceID: "ws-1", ObjectID: "obj-people", RecordID: "rec-1"},
	}
	record2 := &attio.Record{
		ID: attio.RecordID{WorkspaceID: "ws-1", ObjectID: "obj-people", RecordID: "rec-2"},
	}

	mockRecords.On("Get", mock.Anything, "people", "rec-1").Return(record1, nil)
	mockRecords.On("Get", mock.Anything, "people", "rec-2").Return(record2, nil)

	operations := []attio.BatchOperation{
		{
			ID:       "op1",
			Type:     "get",
			Resource: "record",
			Data:     attio.RecordPointer{Object: "people", RecordID: "rec-1"},
		},
		{
			ID:       "op2",
			Type:     "get",
			Resource: "record",
			Data:     attio.RecordPointer{Object: "people", RecordID: "rec-2"},
		},
	}

	results, err := executor.Execute(ctx, operations)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	for _, result := range results {
		assert.True(t, result.Success)
		require.NoError(t, result.Error)
		assert.NotNil(t, result.Data)
		assert.True(t, result.Duration > 0)
	}

	mockClient.AssertExpectations(t)
	mockRecords.AssertExpectations(t)
}

func TestBatchExecutor_WithCallback(t *testing.T) {
	mockClient := &MockClient{}
	mockRecords := &MockRecordsClient{}
	mockClient.On("Records").Return(mockRecords)

	executor := attio.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	record := &attio.Record{
		ID: attio.RecordID{WorkspaceID: "ws-1", ObjectID: "obj-people", RecordID: "rec-1"},
	}
	mockRecords.On("Get", mock.Anything, "people", "rec-1").Return(record, nil)

	var callbackCalled bool
	var callbackResult *attio.BatchResult

	operation := attio.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "record",
		Data:     attio.RecordPointer{Object: "people", RecordID: "rec-1"},
		Callback: func(result *attio.BatchResult) {
			callbackCalled = true
			callbackResult = result
		},
	}

	_, err := executor.Execute(ctx, []attio.BatchOperation{operation})
	require.NoError(t, err)

	assert.True(t, callbackCalled)
	require.NotNil(t, callbackResult)
	assert.True(t, callbackResult.Success)
	assert.Equal(t, "op1", callbackResult.ID)

	mockClient.AssertExpectations(t)
	mockRecords.AssertExpectations(t)
}

func TestBatchExecutor_WithError(t *testing.T) {
	mockClient := &MockClient{}
	mockRecords := &MockRecordsClient{}
	mockClient.On("Records").Return(mockRecords)

	executor := attio.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	mockRecords.On("Get", mock.Anything, "people", "rec-1").Return(nil, errors.New("record not found"))

	operation := attio.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "record",
		Data:     attio.RecordPointer{Object: "people", RecordID: "rec-1"},
	}

	results, err := executor.Execute(ctx, []attio.BatchOperation{operation})
	require.NoError(t, err) // Execute itself shouldn't fail
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "record not found")

	mockClient.AssertExpectations(t)
	mockRecords.AssertExpectations(t)
}

func TestBatchExecutor_InvalidData(t *testing.T) {
	mockClient := &MockClient{}
	executor := attio.NewBatchExecutor(mockClient, 1)

	operation := attio.BatchOperation{
		ID:       "op1",
		Type:     "create",
		Resource: "record",
		Data:     "not-a-create-request",
	}

	results, err := executor.Execute(context.Background(), []attio.BatchOperation{operation})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "invalid data type for operation")
	assert.Contains(t, result.Error.Error(), "record create")
}

func TestBatchExecutor_UnsupportedResource(t *testing.T) {
	mockClient := &MockClient{}
	executor := attio.NewBatchExecutor(mockClient, 1)

	operation := attio.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "pipeline",
		Data:     "anything",
	}

	results, err := executor.Execute(context.Background(), []attio.BatchOperation{operation})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "unsupported resource type")
	assert.Contains(t, result.Error.Error(), "pipeline")
}

func TestBatchExecutor_UnsupportedOperation(t *testing.T) {
	mockClient := &MockClient{}
	mockRecords := &MockRecordsClient{}
	mockClient.On("Records").Return(mockRecords)

	executor := attio.NewBatchExecutor(mockClient, 1)

	operation := attio.BatchOperation{
		ID:       "op1",
		Type:     "merge",
		Resource: "record",
		Data:     attio.RecordPointer{Object: "people", RecordID: "rec-1"},
	}

	results, err := executor.Execute(context.Background(), []attio.BatchOperation{operation})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "unsupported operation")
	assert.Contains(t, result.Error.Error(), "merge")
}

func TestBatchExecutor_TaskOperations(t *testing.T) {
	mockClient := &MockClient{}
	mockTasks := &MockTasksClient{}
	mockClient.On("Tasks").Return(mockTasks)

	executor := attio.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	task := &attio.Task{
		ID:               attio.TaskID{WorkspaceID: "ws-1", TaskID: "task-1"},
		ContentPlaintext: "Follow up with Acme",
	}
	createReq := &attio.TaskCreateRequest{Content: "Follow up with Acme", Format: "plaintext"}
	completed := true
	updateReq := &attio.TaskUpdateRequest{IsCompleted: &completed}

	mockTasks.On("Create", mock.Anything, createReq).Return(task, nil)
	mockTasks.On("Update", mock.Anything, "task-1", updateReq).Return(task, nil)
	mockTasks.On("Delete", mock.Anything, "task-1").Return(nil)

	operations := attio.NewBatchBuilder().
		AddCreateTask("create-1", createReq).
		AddUpdateTask("update-1", "task-1", updateReq).
		AddDeleteTask("delete-1", "task-1").
		Build()

	results, err := executor.Execute(ctx, operations)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	for _, result := range results {
		assert.True(t, result.Success)
		require.NoError(t, result.Error)
	}

	mockClient.AssertExpectations(t)
	mockTasks.AssertExpectations(t)
}

func TestBatchExecutor_NoteOperations(t *testing.T) {
	mockClient := &MockClient{}
	mockNotes := &MockNotesClient{}
	mockClient.On("Notes").Return(mockNotes)

	executor := attio.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	note := &attio.Note{
		ID:    attio.NoteID{WorkspaceID: "ws-1", NoteID: "note-1"},
		Title: "Call summary",
	}
	createReq := &attio.NoteCreateRequest{
		ParentObject:   "people",
		ParentRecordID: "rec-1",
		Title:          "Call summary",
		Format:         "plaintext",
		Content:        "Discussed the renewal.",
	}

	mockNotes.On("Create", mock.Anything, createReq).Return(note, nil)

	operations := []attio.BatchOperation{
		{ID: "create-1", Type: "create", Resource: "note", Data: createReq},
		{ID: "update-1", Type: "update", Resource: "note", Data: "note-1"},
	}

	results, err := executor.Execute(ctx, operations)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	assert.True(t, results[0].Success)

	// Notes cannot be updated
	assert.False(t, results[1].Success)
	require.Error(t, results[1].Error)
	assert.Contains(t, results[1].Error.Error(), "unsupported operation")

	mockClient.AssertExpectations(t)
	mockNotes.AssertExpectations(t)
}

func TestBatchExecutor_Timeout(t *testing.T) {
	mockClient := &MockClient{}
	mockRecords := &MockRecordsClient{}
	mockClient.On("Records").Return(mockRecords)

	executor := attio.NewBatchExecutor(mockClient, 1)
	executor.SetTimeout(10 * time.Millisecond)

	mockRecords.On("Get", mock.Anything, "people", "rec-slow").Run(func(args mock.Arguments) {
		opCtx := args.Get(0).(context.Context)
		<-opCtx.Done()
	}).Return(nil, context.DeadlineExceeded)

	operation := attio.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "record",
		Data:     attio.RecordPointer{Object: "people", RecordID: "rec-slow"},
	}

	results, err := executor.Execute(context.Background(), []attio.BatchOperation{operation})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.ErrorIs(t, result.Error, context.DeadlineExceeded)
}

func TestBatchBuilder(t *testing.T) {
	builder := attio.NewBatchBuilder()

	createReq := &attio.RecordCreateRequest{}
	updateReq := &attio.RecordUpdateRequest{}
	noteReq := &attio.NoteCreateRequest{Title: "Kickoff notes"}
	taskReq := &attio.TaskCreateRequest{Content: "Send contract", Format: "plaintext"}

	builder.
		AddCreateRecord("create-1", "people", createReq).
		AddUpdateRecord("update-1", "people", "rec-1", updateReq).
		AddDeleteRecord("delete-1", "people", "rec-1").
		AddGetRecord("get-1", "people", "rec-1").
		AddCreateNote("note-1", noteReq).
		AddCreateTask("task-1", taskReq)

	operations := builder.Build()
	assert.Len(t, operations, 6)

	assert.Equal(t, "create-1", operations[0].ID)
	assert.Equal(t, "create", operations[0].Type)
	assert.Equal(t, "record", operations[0].Resource)

	createData, ok := operations[0].Data.(*attio.RecordCreateData)
	require.True(t, ok)
	assert.Equal(t, "people", createData.Object)
	assert.Same(t, createReq, createData.Request)

	assert.Equal(t, "update-1", operations[1].ID)
	assert.Equal(t, "update", operations[1].Type)

	updateData, ok := operations[1].Data.(*attio.RecordUpdateData)
	require.True(t, ok)
	assert.Equal(t, "rec-1", updateData.RecordID)

	assert.Equal(t, "delete-1", operations[2].ID)
	assert.Equal(t, "delete", operations[2].Type)
	assert.Equal(t, attio.RecordPointer{Object: "people", RecordID: "rec-1"}, operations[2].Data)

	assert.Equal(t, "get-1", operations[3].ID)
	assert.Equal(t, "get", operations[3].Type)

	assert.Equal(t, "note", operations[4].Resource)
	assert.Equal(t, "task", operations[5].Resource)
}

func TestBatchTransaction_RollbackOnFailure(t *testing.T) {
	mockClient := &MockClient{}
	mockRecords := &MockRecordsClient{}
	mockClient.On("Records").Return(mockRecords)

	created := &attio.Record{
		ID: attio.RecordID{WorkspaceID: "ws-1", ObjectID: "obj-people", RecordID: "rec-1"},
	}

	mockRecords.On("Create", mock.Anything, "people", mock.Anything).Return(created, nil)
	mockRecords.On("Create", mock.Anything, "companies", mock.Anything).Return(nil, errors.New("insert rejected"))
	mockRecords.On("Delete", mock.Anything, "obj-people", "rec-1").Return(nil)

	executor := attio.NewBatchExecutor(mockClient, 1)
	transaction := attio.NewBatchTransaction(executor).
		Add(attio.BatchOperation{
			ID:       "op1",
			Type:     "create",
			Resource: "record",
			Data:     &attio.RecordCreateData{Object: "people", Request: &attio.RecordCreateRequest{}},
		}).
		Add(attio.BatchOperation{
			ID:       "op2",
			Type:     "create",
			Resource: "record",
			Data:     &attio.RecordCreateData{Object: "companies", Request: &attio.RecordCreateRequest{}},
		})

	results, err := transaction.Execute(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, attio.ErrTransactionFailed)
	assert.Contains(t, err.Error(), "op2")
	assert.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)

	// The surviving creation was deleted again
	mockRecords.AssertCalled(t, "Delete", mock.Anything, "obj-people", "rec-1")
}

func TestBatchTransaction_RollbackDisabled(t *testing.T) {
	mockClient := &MockClient{}
	mockRecords := &MockRecordsClient{}
	mockClient.On("Records").Return(mockRecords)

	created := &attio.Record{
		ID: attio.RecordID{WorkspaceID: "ws-1", ObjectID: "obj-people", RecordID: "rec-1"},
	}

	mockRecords.On("Create", mock.Anything, "people", mock.Anything).Return(created, nil)
	mockRecords.On("Create", mock.Anything, "companies", mock.Anything).Return(nil, errors.New("insert rejected"))

	executor := attio.NewBatchExecutor(mockClient, 1)
	transaction := attio.NewBatchTransaction(executor).
		SetRollback(false).
		Add(attio.BatchOperation{
			ID:       "op1",
			Type:     "create",
			Resource: "record",
			Data:     &attio.RecordCreateData{Object: "people", Request: &attio.RecordCreateRequest{}},
		}).
		Add(attio.BatchOperation{
			ID:       "op2",
			Type:     "create",
			Resource: "record",
			Data:     &attio.RecordCreateData{Object: "companies", Request: &attio.RecordCreateRequest{}},
		})

	results, err := transaction.Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)

	mockRecords.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
