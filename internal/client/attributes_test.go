package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/attio/pkg/attio"
)

func TestAttributesClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/objects/people/attributes", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []attio.Attribute{
				{ID: attio.AttributeID{AttributeID: "attr_1"}, APISlug: "name", Type: "personal-name"},
				{ID: attio.AttributeID{AttributeID: "attr_2"}, APISlug: "email_addresses", Type: "email-address", IsMultiselect: true},
			},
		})
	}))
	defer server.Close()

	attributes := NewAttributesClient(NewTestClient(server.URL).httpClient)

	list, err := attributes.List(context.Background(), "objects", "people", attio.NewQueryParams().WithLimit(50))
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "email_addresses", list.Data[1].APISlug)
	assert.True(t, list.Data[1].IsMultiselect)
}

func TestAttributesClient_List_OnLists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/lists/pipeline/attributes", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []attio.Attribute{
				{ID: attio.AttributeID{AttributeID: "attr_stage"}, APISlug: "stage", Type: "status"},
			},
		})
	}))
	defer server.Close()

	attributes := NewAttributesClient(NewTestClient(server.URL).httpClient)

	list, err := attributes.List(context.Background(), "lists", "pipeline", nil)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "stage", list.Data[0].APISlug)
}

func TestAttributesClient_RejectsUnknownTarget(t *testing.T) {
	attributes := NewAttributesClient(NewTestClient("http://localhost").httpClient)

	_, err := attributes.List(context.Background(), "records", "people", nil)
	require.ErrorIs(t, err, ErrInvalidAttributeTarget)

	_, err = attributes.Get(context.Background(), "workspaces", "people", "name")
	require.ErrorIs(t, err, ErrInvalidAttributeTarget)

	_, err = attributes.Create(context.Background(), "", "people", &attio.AttributeCreateRequest{})
	require.ErrorIs(t, err, ErrInvalidAttributeTarget)

	_, err = attributes.Update(context.Background(), "object", "people", "name", &attio.AttributeUpdateRequest{})
	require.ErrorIs(t, err, ErrInvalidAttributeTarget)
}

func TestAttributesClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/objects/people/attributes/name", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(attio.DataEnvelope[attio.Attribute]{
			Data: attio.Attribute{ID: attio.AttributeID{AttributeID: "attr_1"}, APISlug: "name", IsRequired: true},
		})
	}))
	defer server.Close()

	attributes := NewAttributesClient(NewTestClient(server.URL).httpClient)

	attribute, err := attributes.Get(context.Background(), "objects", "people", "name")
	require.NoError(t, err)
	assert.Equal(t, "name", attribute.APISlug)
	assert.True(t, attribute.IsRequired)
}

func TestAttributesClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/objects/projects/attributes", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		data := requireEnvelopedBody(t, r)

		var req attio.AttributeCreateRequest
		require.NoError(t, json.Unmarshal(data, &req))
		assert.Equal(t, "budget", req.APISlug)
		assert.Equal(t, "currency", req.Type)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(attio.DataEnvelope[attio.Attribute]{
			Data: attio.Attribute{ID: attio.AttributeID{AttributeID: "attr_new"}, APISlug: "budget", Type: "currency"},
		})
	}))
	defer server.Close()

	attributes := NewAttributesClient(NewTestClient(server.URL).httpClient)

	created, err := attributes.Create(context.Background(), "objects", "projects", &attio.AttributeCreateRequest{
		Title:   "Budget",
		APISlug: "budget",
		Type:    "currency",
	})
	require.NoError(t, err)
	assert.Equal(t, "budget", created.APISlug)
}

func TestAttributesClient_Update(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/objects/projects/attributes/budget", r.URL.Path)
		assert.Equal(t, http.MethodPatch, r.Method)
		requireEnvelopedBody(t, r)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(attio.DataEnvelope[attio.Attribute]{
			Data: attio.Attribute{ID: attio.AttributeID{AttributeID: "attr_1"}, APISlug: "budget", IsArchived: true},
		})
	}))
	defer server.Close()

	attributes := NewAttributesClient(NewTestClient(server.URL).httpClient)

	archived := true

	updated, err := attributes.Update(context.Background(), "objects", "projects", "budget", &attio.AttributeUpdateRequest{
		IsArchived: &archived,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsArchived)
}
