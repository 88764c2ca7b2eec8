package attio

import (
	"encoding/json"
	"fmt"
	"time"
)

// WorkspaceID scoping is part of every composite identifier the API
// returns; the ID types below mirror the wire shape exactly.

// ObjectID identifies an object within a workspace.
type ObjectID struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	ObjectID    string `json:"object_id"    yaml:"object_id"`
}

// AttributeID identifies an attribute of an object or list.
type AttributeID struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	ObjectID    string `json:"object_id,omitempty" yaml:"object_id,omitempty"`
	AttributeID string `json:"attribute_id" yaml:"attribute_id"`
}

// RecordID identifies a record of an object.
type RecordID struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	ObjectID    string `json:"object_id"    yaml:"object_id"`
	RecordID    string `json:"record_id"    yaml:"record_id"`
}

// ListID identifies a list within a workspace.
type ListID struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	ListID      string `json:"list_id"      yaml:"list_id"`
}

// EntryID identifies an entry of a list.
type EntryID struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	ListID      string `json:"list_id"      yaml:"list_id"`
	EntryID     string `json:"entry_id"     yaml:"entry_id"`
}

// NoteID identifies a note within a workspace.
type NoteID struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	NoteID      string `json:"note_id"      yaml:"note_id"`
}

// TaskID identifies a task within a workspace.
type TaskID struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	TaskID      string `json:"task_id"      yaml:"task_id"`
}

// CommentID identifies a comment within a workspace.
type CommentID struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	CommentID   string `json:"comment_id"   yaml:"comment_id"`
}

// ThreadID identifies a comment thread within a workspace.
type ThreadID struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	ThreadID    string `json:"thread_id"    yaml:"thread_id"`
}

// WebhookID identifies a webhook within a workspace.
type WebhookID struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	WebhookID   string `json:"webhook_id"   yaml:"webhook_id"`
}

// WorkspaceMemberID identifies a member of a workspace.
type WorkspaceMemberID struct {
	WorkspaceID       string `json:"workspace_id"        yaml:"workspace_id"`
	WorkspaceMemberID string `json:"workspace_member_id" yaml:"workspace_member_id"`
}

// Actor identifies who performed an action (a workspace member, an API
// token, or the system).
type Actor struct {
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	ID   string `json:"id,omitempty"   yaml:"id,omitempty"`
}

// RecordValue is a single cell value of an attribute. The payload keys vary
// by attribute type (e.g. "value" for text and number attributes,
// "email_address" for email attributes, name parts for name attributes).
type RecordValue map[string]interface{}

// GetString returns a string payload key of the value, or "" when absent
// or not a string.
func (v RecordValue) GetString(key string) string {
	if raw, ok := v[key]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}

	return ""
}

// RecordValues maps attribute slugs (or attribute IDs) to their values.
// Multiselect attributes carry more than one value.
type RecordValues map[string][]RecordValue

// Record represents a record of an object.
type Record struct {
	ID        RecordID     `json:"id"                yaml:"id"`
	CreatedAt time.Time    `json:"created_at"        yaml:"created_at"`
	WebURL    string       `json:"web_url,omitempty" yaml:"web_url,omitempty"`
	Values    RecordValues `json:"values,omitempty" yaml:"values,omitempty"`
}

// Value returns the first value for an attribute slug.
func (r *Record) Value(slug string) (RecordValue, bool) {
	values, ok := r.Values[slug]
	if !ok || len(values) == 0 {
		return nil, false
	}

	return values[0], true
}

// SimpleValue returns the "value" payload key of the first value for an
// attribute slug, which covers text, number, and similar scalar attributes.
func (r *Record) SimpleValue(slug string) (interface{}, bool) {
	value, ok := r.Value(slug)
	if !ok {
		return nil, false
	}

	raw, ok := value["value"]

	return raw, ok
}

// Pagination is the normalized page metadata attached to list responses.
// Absent fields stay nil and are omitted when re-serialized.
type Pagination struct {
	HasNextPage     *bool   `json:"has_next_page,omitempty"     yaml:"has_next_page,omitempty"`
	HasPreviousPage *bool   `json:"has_previous_page,omitempty" yaml:"has_previous_page,omitempty"`
	PageSize        *int    `json:"page_size,omitempty"         yaml:"page_size,omitempty"`
	TotalCount      *int    `json:"total_count,omitempty"       yaml:"total_count,omitempty"`
	NextCursor      *string `json:"next_cursor,omitempty"       yaml:"next_cursor,omitempty"`
	PreviousCursor  *string `json:"previous_cursor,omitempty"   yaml:"previous_cursor,omitempty"`
}

// HasMore reports whether another page is available, either via an explicit
// flag or a next cursor.
func (p *Pagination) HasMore() bool {
	if p == nil {
		return false
	}

	if p.HasNextPage != nil {
		return *p.HasNextPage
	}

	return p.NextCursor != nil && *p.NextCursor != ""
}

// Next returns the cursor for the following page when the server provided
// one.
func (p *Pagination) Next() (string, bool) {
	if p == nil || p.NextCursor == nil || *p.NextCursor == "" {
		return "", false
	}

	return *p.NextCursor, true
}

// DataEnvelope is the {"data": ...} wrapper the API uses for single
// resources, on responses and on write request bodies alike.
type DataEnvelope[T any] struct {
	Data T `json:"data" yaml:"data"`
}

// ListResponse is a page of resources plus pagination metadata. Raw keeps
// the untouched provider payload for callers that need fields the typed
// view drops.
type ListResponse[T any] struct {
	Data       []T             `json:"data"                 yaml:"data"`
	Pagination *Pagination     `json:"pagination,omitempty" yaml:"pagination,omitempty"`
	Raw        json.RawMessage `json:"-"                    yaml:"-"`
}

// UnmarshalJSON decodes the list envelope and retains the raw payload.
func (l *ListResponse[T]) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Data       json.RawMessage `json:"data"`
		Pagination *Pagination     `json:"pagination"`
	}

	err := json.Unmarshal(data, &envelope)
	if err != nil {
		return fmt.Errorf("parsing list envelope: %w", err)
	}

	l.Data = nil

	if len(envelope.Data) > 0 {
		var items []T

		err = json.Unmarshal(envelope.Data, &items)
		if err != nil {
			return fmt.Errorf("parsing list data: %w", err)
		}

		l.Data = items
	}

	l.Pagination = envelope.Pagination
	l.Raw = append(json.RawMessage(nil), data...)

	return nil
}
