package attio

import "context"

// ObjectsClient manages object schemas in the workspace.
type ObjectsClient interface {
	// List returns every object schema, standard and custom.
	List(ctx context.Context) (*ListResponse[Object], error)
	// Get returns one object schema by slug or id.
	Get(ctx context.Context, object string) (*Object, error)
	// Create registers a custom object.
	Create(ctx context.Context, request *ObjectCreateRequest) (*Object, error)
	// Update changes an object's slug or nouns.
	Update(ctx context.Context, object string, request *ObjectUpdateRequest) (*Object, error)
}

// AttributesClient manages attributes on objects and lists. The target is
// "objects" or "lists"; the identifier is the parent's slug or id.
type AttributesClient interface {
	// List returns the attributes of the target schema.
	List(ctx context.Context, target, identifier string, params *QueryParams) (*ListResponse[Attribute], error)
	// Get returns one attribute by slug or id.
	Get(ctx context.Context, target, identifier, attribute string) (*Attribute, error)
	// Create adds an attribute to the target schema.
	Create(ctx context.Context, target, identifier string, request *AttributeCreateRequest) (*Attribute, error)
	// Update changes an attribute's settings.
	Update(ctx context.Context, target, identifier, attribute string, request *AttributeUpdateRequest) (*Attribute, error)
}

// RecordsClient manages the records of an object.
type RecordsClient interface {
	// Query returns one page of records matching params.
	Query(ctx context.Context, object string, params *QueryParams) (*ListResponse[Record], error)
	// QueryAll walks every page and returns all matching records.
	QueryAll(ctx context.Context, object string, params *QueryParams) ([]Record, error)
	// Get returns one record by id.
	Get(ctx context.Context, object, recordID string) (*Record, error)
	// Create inserts a record with the given values.
	Create(ctx context.Context, object string, request *RecordCreateRequest) (*Record, error)
	// Update overwrites the listed attribute values of a record.
	Update(ctx context.Context, object, recordID string, request *RecordUpdateRequest) (*Record, error)
	// Assert creates or updates the record whose matchingAttribute value
	// equals the one in the request.
	Assert(ctx context.Context, object, matchingAttribute string, request *RecordCreateRequest) (*Record, error)
	// Delete removes a record.
	Delete(ctx context.Context, object, recordID string) error
	// ListEntries returns the list entries pointing at the record, across
	// every list it appears in.
	ListEntries(ctx context.Context, object, recordID string, params *QueryParams) (*ListResponse[Entry], error)
}

// ListsClient manages the lists of the workspace.
type ListsClient interface {
	// List returns every list the token can read.
	List(ctx context.Context) (*ListResponse[List], error)
	// Get returns one list by slug or id.
	Get(ctx context.Context, list string) (*List, error)
	// Create creates a list for an object.
	Create(ctx context.Context, request *ListCreateRequest) (*List, error)
	// Update changes a list's name, slug, or access.
	Update(ctx context.Context, list string, request *ListUpdateRequest) (*List, error)
}

// EntriesClient manages the entries of a list.
type EntriesClient interface {
	// Query returns one page of entries matching params.
	Query(ctx context.Context, list string, params *QueryParams) (*ListResponse[Entry], error)
	// QueryAll walks every page and returns all matching entries.
	QueryAll(ctx context.Context, list string, params *QueryParams) ([]Entry, error)
	// Get returns one entry by id.
	Get(ctx context.Context, list, entryID string) (*Entry, error)
	// Create adds a record to the list.
	Create(ctx context.Context, list string, request *EntryCreateRequest) (*Entry, error)
	// Assert adds the parent record to the list, or updates its existing
	// entry when the record is already on it.
	Assert(ctx context.Context, list string, request *EntryCreateRequest) (*Entry, error)
	// Update overwrites the listed entry values.
	Update(ctx context.Context, list, entryID string, request *EntryUpdateRequest) (*Entry, error)
	// Delete removes an entry from the list.
	Delete(ctx context.Context, list, entryID string) error
}

// NotesClient manages notes attached to records. List filters, such as
// parent_object and parent_record_id, travel in params.Extra.
type NotesClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Note], error)
	Get(ctx context.Context, noteID string) (*Note, error)
	Create(ctx context.Context, request *NoteCreateRequest) (*Note, error)
	Delete(ctx context.Context, noteID string) error
}

// TasksClient manages workspace tasks.
type TasksClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Task], error)
	Get(ctx context.Context, taskID string) (*Task, error)
	Create(ctx context.Context, request *TaskCreateRequest) (*Task, error)
	Update(ctx context.Context, taskID string, request *TaskUpdateRequest) (*Task, error)
	Delete(ctx context.Context, taskID string) error
}

// CommentsClient manages comments in threads.
type CommentsClient interface {
	Get(ctx context.Context, commentID string) (*Comment, error)
	Create(ctx context.Context, request *CommentCreateRequest) (*Comment, error)
	Delete(ctx context.Context, commentID string) error
}

// ThreadsClient reads comment threads. List filters, such as record_id and
// entry_id, travel in params.Extra.
type ThreadsClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Thread], error)
	Get(ctx context.Context, threadID string) (*Thread, error)
}

// WebhooksClient manages webhook registrations.
type WebhooksClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Webhook], error)
	Get(ctx context.Context, webhookID string) (*Webhook, error)
	Create(ctx context.Context, request *WebhookCreateRequest) (*Webhook, error)
	Update(ctx context.Context, webhookID string, request *WebhookUpdateRequest) (*Webhook, error)
	Delete(ctx context.Context, webhookID string) error
}

// WorkspaceMembersClient reads workspace membership.
type WorkspaceMembersClient interface {
	List(ctx context.Context) (*ListResponse[WorkspaceMember], error)
	Get(ctx context.Context, memberID string) (*WorkspaceMember, error)
}

// MetaClient introspects the authenticated token.
type MetaClient interface {
	// Identify returns the token's scopes and workspace.
	Identify(ctx context.Context) (*Self, error)
}

// StandardObjectClient scopes record operations to one standard object, so
// callers work with people, companies, or deals without repeating the slug.
type StandardObjectClient interface {
	Query(ctx context.Context, params *QueryParams) (*ListResponse[Record], error)
	Get(ctx context.Context, recordID string) (*Record, error)
	Create(ctx context.Context, request *RecordCreateRequest) (*Record, error)
	Update(ctx context.Context, recordID string, request *RecordUpdateRequest) (*Record, error)
	Assert(ctx context.Context, matchingAttribute string, request *RecordCreateRequest) (*Record, error)
	Delete(ctx context.Context, recordID string) error
}
