package attio

import "time"

// Object represents an object schema (standard or custom) in a workspace.
type Object struct {
	ID           ObjectID  `json:"id"            yaml:"id"`
	APISlug      string    `json:"api_slug"      yaml:"api_slug"`
	SingularNoun string    `json:"singular_noun" yaml:"singular_noun"`
	PluralNoun   string    `json:"plural_noun"   yaml:"plural_noun"`
	CreatedAt    time.Time `json:"created_at"    yaml:"created_at"`
}

// ObjectCreateRequest represents a request to create a custom object.
type ObjectCreateRequest struct {
	// APISlug is the unique slug used in API paths (e.g. "projects").
	APISlug string `json:"api_slug" yaml:"api_slug"`
	// SingularNoun is the human name for one instance.
	SingularNoun string `json:"singular_noun" yaml:"singular_noun"`
	// PluralNoun is the human name for many instances.
	PluralNoun string `json:"plural_noun" yaml:"plural_noun"`
}

// ObjectUpdateRequest represents a request to update an object.
type ObjectUpdateRequest struct {
	// APISlug updates the slug; nil leaves it unchanged.
	APISlug *string `json:"api_slug,omitempty" yaml:"api_slug,omitempty"`
	// SingularNoun updates the singular noun; nil leaves it unchanged.
	SingularNoun *string `json:"singular_noun,omitempty" yaml:"singular_noun,omitempty"`
	// PluralNoun updates the plural noun; nil leaves it unchanged.
	PluralNoun *string `json:"plural_noun,omitempty" yaml:"plural_noun,omitempty"`
}

// Attribute represents an attribute of an object or list.
type Attribute struct {
	ID            AttributeID            `json:"id"                      yaml:"id"`
	Title         string                 `json:"title"                   yaml:"title"`
	Description   string                 `json:"description,omitempty"   yaml:"description,omitempty"`
	APISlug       string                 `json:"api_slug"                yaml:"api_slug"`
	Type          string                 `json:"type"                    yaml:"type"`
	IsRequired    bool                   `json:"is_required"             yaml:"is_required"`
	IsUnique      bool                   `json:"is_unique"               yaml:"is_unique"`
	IsMultiselect bool                   `json:"is_multiselect"          yaml:"is_multiselect"`
	IsArchived    bool                   `json:"is_archived"             yaml:"is_archived"`
	Config        map[string]interface{} `json:"config,omitempty"        yaml:"config,omitempty"`
	CreatedAt     time.Time              `json:"created_at"              yaml:"created_at"`
}

// AttributeCreateRequest represents a request to create an attribute.
type AttributeCreateRequest struct {
	// Title is the display name of the attribute.
	Title string `json:"title" yaml:"title"`
	// Description optionally documents the attribute.
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	// APISlug is the slug used to address values of this attribute.
	APISlug string `json:"api_slug" yaml:"api_slug"`
	// Type is the attribute type (e.g. "text", "number", "select").
	Type string `json:"type" yaml:"type"`
	// IsRequired marks the attribute as mandatory on writes.
	IsRequired bool `json:"is_required" yaml:"is_required"`
	// IsUnique enforces value uniqueness across records.
	IsUnique bool `json:"is_unique" yaml:"is_unique"`
	// IsMultiselect allows multiple values per record.
	IsMultiselect bool `json:"is_multiselect" yaml:"is_multiselect"`
	// Config holds type-specific configuration.
	Config map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// AttributeUpdateRequest represents a request to update an attribute.
type AttributeUpdateRequest struct {
	// Title updates the display name; nil leaves it unchanged.
	Title *string `json:"title,omitempty" yaml:"title,omitempty"`
	// Description updates the description; nil leaves it unchanged.
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	// IsRequired updates the required flag; nil leaves it unchanged.
	IsRequired *bool `json:"is_required,omitempty" yaml:"is_required,omitempty"`
	// IsArchived archives or restores the attribute; nil leaves it unchanged.
	IsArchived *bool `json:"is_archived,omitempty" yaml:"is_archived,omitempty"`
	// Config updates type-specific configuration; nil leaves it unchanged.
	Config map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// RecordCreateRequest represents a request to create a record.
type RecordCreateRequest struct {
	// Values maps attribute slugs to the values to write.
	Values RecordValues `json:"values" yaml:"values"`
}

// RecordUpdateRequest represents a request to update a record's values.
type RecordUpdateRequest struct {
	// Values maps attribute slugs to the values to write; attributes not
	// listed keep their current values.
	Values RecordValues `json:"values" yaml:"values"`
}

// List represents a list in a workspace.
type List struct {
	ID              ListID    `json:"id"               yaml:"id"`
	Name            string    `json:"name"             yaml:"name"`
	APISlug         string    `json:"api_slug"         yaml:"api_slug"`
	ParentObject    []string  `json:"parent_object"    yaml:"parent_object"`
	WorkspaceAccess string    `json:"workspace_access,omitempty" yaml:"workspace_access,omitempty"`
	CreatedByActor  Actor     `json:"created_by_actor" yaml:"created_by_actor"`
	CreatedAt       time.Time `json:"created_at"       yaml:"created_at"`
}

// ListCreateRequest represents a request to create a list.
type ListCreateRequest struct {
	// Name is the display name of the list.
	Name string `json:"name" yaml:"name"`
	// APISlug is the unique slug used in API paths.
	APISlug string `json:"api_slug" yaml:"api_slug"`
	// ParentObject is the slug of the object the list contains.
	ParentObject string `json:"parent_object" yaml:"parent_object"`
	// WorkspaceAccess grants workspace-wide access ("full-access",
	// "read-and-write", "read-only"); empty keeps the list private.
	WorkspaceAccess string `json:"workspace_access,omitempty" yaml:"workspace_access,omitempty"`
}

// ListUpdateRequest represents a request to update a list.
type ListUpdateRequest struct {
	// Name updates the display name; nil leaves it unchanged.
	Name *string `json:"name,omitempty" yaml:"name,omitempty"`
	// APISlug updates the slug; nil leaves it unchanged.
	APISlug *string `json:"api_slug,omitempty" yaml:"api_slug,omitempty"`
	// WorkspaceAccess updates workspace-wide access; nil leaves it unchanged.
	WorkspaceAccess *string `json:"workspace_access,omitempty" yaml:"workspace_access,omitempty"`
}

// Entry represents an entry of a list.
type Entry struct {
	ID             EntryID      `json:"id"               yaml:"id"`
	ParentRecordID string       `json:"parent_record_id" yaml:"parent_record_id"`
	ParentObject   string       `json:"parent_object"    yaml:"parent_object"`
	EntryValues    RecordValues `json:"entry_values,omitempty" yaml:"entry_values,omitempty"`
	CreatedAt      time.Time    `json:"created_at"       yaml:"created_at"`
}

// EntryCreateRequest represents a request to add a record to a list.
type EntryCreateRequest struct {
	// ParentRecordID is the record to add.
	ParentRecordID string `json:"parent_record_id" yaml:"parent_record_id"`
	// ParentObject is the slug of the record's object.
	ParentObject string `json:"parent_object" yaml:"parent_object"`
	// EntryValues sets list-scoped attribute values on the new entry.
	EntryValues RecordValues `json:"entry_values,omitempty" yaml:"entry_values,omitempty"`
}

// EntryUpdateRequest represents a request to update a list entry's values.
type EntryUpdateRequest struct {
	// EntryValues maps list-scoped attribute slugs to the values to write.
	EntryValues RecordValues `json:"entry_values" yaml:"entry_values"`
}

// Note represents a note attached to a record.
type Note struct {
	ID               NoteID    `json:"id"                 yaml:"id"`
	ParentObject     string    `json:"parent_object"      yaml:"parent_object"`
	ParentRecordID   string    `json:"parent_record_id"   yaml:"parent_record_id"`
	Title            string    `json:"title"              yaml:"title"`
	ContentMarkdown  string    `json:"content_markdown,omitempty" yaml:"content_markdown,omitempty"`
	ContentPlaintext string    `json:"content_plaintext,omitempty" yaml:"content_plaintext,omitempty"`
	CreatedByActor   Actor     `json:"created_by_actor"   yaml:"created_by_actor"`
	CreatedAt        time.Time `json:"created_at"         yaml:"created_at"`
}

// NoteCreateRequest represents a request to create a note.
type NoteCreateRequest struct {
	// ParentObject is the slug of the object the note belongs to.
	ParentObject string `json:"parent_object" yaml:"parent_object"`
	// ParentRecordID is the record the note is attached to.
	ParentRecordID string `json:"parent_record_id" yaml:"parent_record_id"`
	// Title is the note title.
	Title string `json:"title" yaml:"title"`
	// Format declares how Content is interpreted ("plaintext" or "markdown").
	Format string `json:"format" yaml:"format"`
	// Content is the note body in the declared format.
	Content string `json:"content" yaml:"content"`
	// CreatedAt optionally backdates the note.
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// TaskLinkedRecord links a task to a record.
type TaskLinkedRecord struct {
	TargetObject   string `json:"target_object"    yaml:"target_object"`
	TargetRecordID string `json:"target_record_id" yaml:"target_record_id"`
}

// TaskAssignee assigns a task to an actor.
type TaskAssignee struct {
	ReferencedActorType string `json:"referenced_actor_type" yaml:"referenced_actor_type"`
	ReferencedActorID   string `json:"referenced_actor_id"   yaml:"referenced_actor_id"`
}

// Task represents a task in a workspace.
type Task struct {
	ID               TaskID             `json:"id"                yaml:"id"`
	ContentPlaintext string             `json:"content_plaintext" yaml:"content_plaintext"`
	DeadlineAt       *time.Time         `json:"deadline_at,omitempty" yaml:"deadline_at,omitempty"`
	IsCompleted      bool               `json:"is_completed"      yaml:"is_completed"`
	LinkedRecords    []TaskLinkedRecord `json:"linked_records,omitempty" yaml:"linked_records,omitempty"`
	Assignees        []TaskAssignee     `json:"assignees,omitempty"      yaml:"assignees,omitempty"`
	CreatedByActor   Actor              `json:"created_by_actor" yaml:"created_by_actor"`
	CreatedAt        time.Time          `json:"created_at"        yaml:"created_at"`
}

// TaskCreateRequest represents a request to create a task.
type TaskCreateRequest struct {
	// Content is the task text.
	Content string `json:"content" yaml:"content"`
	// Format declares how Content is interpreted; only "plaintext" is
	// currently accepted by the API.
	Format string `json:"format" yaml:"format"`
	// DeadlineAt optionally sets a due date.
	DeadlineAt *time.Time `json:"deadline_at,omitempty" yaml:"deadline_at,omitempty"`
	// IsCompleted creates the task already completed.
	IsCompleted bool `json:"is_completed" yaml:"is_completed"`
	// LinkedRecords attaches the task to records.
	LinkedRecords []TaskLinkedRecord `json:"linked_records,omitempty" yaml:"linked_records,omitempty"`
	// Assignees assigns the task to workspace members.
	Assignees []TaskAssignee `json:"assignees,omitempty" yaml:"assignees,omitempty"`
}

// TaskUpdateRequest represents a request to update a task.
type TaskUpdateRequest struct {
	// DeadlineAt updates the due date; nil leaves it unchanged.
	DeadlineAt *time.Time `json:"deadline_at,omitempty" yaml:"deadline_at,omitempty"`
	// IsCompleted updates completion state; nil leaves it unchanged.
	IsCompleted *bool `json:"is_completed,omitempty" yaml:"is_completed,omitempty"`
	// LinkedRecords replaces the linked records; nil leaves them unchanged.
	LinkedRecords []TaskLinkedRecord `json:"linked_records,omitempty" yaml:"linked_records,omitempty"`
	// Assignees replaces the assignees; nil leaves them unchanged.
	Assignees []TaskAssignee `json:"assignees,omitempty" yaml:"assignees,omitempty"`
}

// RecordPointer addresses a record by object slug and record id.
type RecordPointer struct {
	Object   string `json:"object"    yaml:"object"`
	RecordID string `json:"record_id" yaml:"record_id"`
}

// EntryPointer addresses a list entry by list slug and entry id.
type EntryPointer struct {
	List    string `json:"list"     yaml:"list"`
	EntryID string `json:"entry_id" yaml:"entry_id"`
}

// Comment represents a comment in a thread.
type Comment struct {
	ID               CommentID  `json:"id"                yaml:"id"`
	ThreadID         string     `json:"thread_id"         yaml:"thread_id"`
	ContentPlaintext string     `json:"content_plaintext" yaml:"content_plaintext"`
	Author           Actor      `json:"author"            yaml:"author"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty" yaml:"resolved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"        yaml:"created_at"`
}

// CommentCreateRequest represents a request to create a comment. Exactly one
// of ThreadID, Record, or Entry anchors the comment.
type CommentCreateRequest struct {
	// Format declares how Content is interpreted; only "plaintext" is
	// currently accepted by the API.
	Format string `json:"format" yaml:"format"`
	// Content is the comment text.
	Content string `json:"content" yaml:"content"`
	// Author attributes the comment to a workspace member.
	Author Actor `json:"author" yaml:"author"`
	// ThreadID replies to an existing thread.
	ThreadID *string `json:"thread_id,omitempty" yaml:"thread_id,omitempty"`
	// Record starts a new thread on a record.
	Record *RecordPointer `json:"record,omitempty" yaml:"record,omitempty"`
	// Entry starts a new thread on a list entry.
	Entry *EntryPointer `json:"entry,omitempty" yaml:"entry,omitempty"`
	// CreatedAt optionally backdates the comment.
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Thread represents a comment thread on a record or list entry.
type Thread struct {
	ID        ThreadID  `json:"id"         yaml:"id"`
	Comments  []Comment `json:"comments"   yaml:"comments"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// WebhookSubscription subscribes a webhook to one event type, optionally
// narrowed by a filter expression.
type WebhookSubscription struct {
	EventType string                 `json:"event_type"       yaml:"event_type"`
	Filter    map[string]interface{} `json:"filter,omitempty" yaml:"filter,omitempty"`
}

// Webhook represents a webhook registration.
type Webhook struct {
	ID            WebhookID             `json:"id"             yaml:"id"`
	TargetURL     string                `json:"target_url"     yaml:"target_url"`
	Subscriptions []WebhookSubscription `json:"subscriptions" yaml:"subscriptions"`
	Status        string                `json:"status"         yaml:"status"`
	Secret        string                `json:"secret,omitempty" yaml:"secret,omitempty"`
	CreatedAt     time.Time             `json:"created_at"     yaml:"created_at"`
}

// WebhookCreateRequest represents a request to register a webhook.
type WebhookCreateRequest struct {
	// TargetURL receives event deliveries; must be HTTPS.
	TargetURL string `json:"target_url" yaml:"target_url"`
	// Subscriptions lists the events to deliver.
	Subscriptions []WebhookSubscription `json:"subscriptions" yaml:"subscriptions"`
}

// WebhookUpdateRequest represents a request to update a webhook.
type WebhookUpdateRequest struct {
	// TargetURL updates the delivery URL; nil leaves it unchanged.
	TargetURL *string `json:"target_url,omitempty" yaml:"target_url,omitempty"`
	// Subscriptions replaces the subscriptions; nil leaves them unchanged.
	Subscriptions []WebhookSubscription `json:"subscriptions,omitempty" yaml:"subscriptions,omitempty"`
}

// WorkspaceMember represents a member of the workspace.
type WorkspaceMember struct {
	ID           WorkspaceMemberID `json:"id"            yaml:"id"`
	FirstName    string            `json:"first_name"    yaml:"first_name"`
	LastName     string            `json:"last_name"     yaml:"last_name"`
	EmailAddress string            `json:"email_address" yaml:"email_address"`
	AccessLevel  string            `json:"access_level" yaml:"access_level"`
	CreatedAt    time.Time         `json:"created_at"    yaml:"created_at"`
}

// Self describes the authenticated token and its workspace, as returned by
// the token introspection endpoint.
type Self struct {
	Active                        bool   `json:"active"     yaml:"active"`
	Scope                         string `json:"scope"      yaml:"scope"`
	ClientID                      string `json:"client_id" yaml:"client_id"`
	TokenType                     string `json:"token_type" yaml:"token_type"`
	WorkspaceID                   string `json:"workspace_id"   yaml:"workspace_id"`
	WorkspaceName                 string `json:"workspace_name" yaml:"workspace_name"`
	WorkspaceSlug                 string `json:"workspace_slug" yaml:"workspace_slug"`
	WorkspaceLogoURL              string `json:"workspace_logo_url,omitempty" yaml:"workspace_logo_url,omitempty"`
	AuthorizedByWorkspaceMemberID string `json:"authorized_by_workspace_member_id,omitempty" yaml:"authorized_by_workspace_member_id,omitempty"`
}
