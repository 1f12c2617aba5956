package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yantology/linkfy/internal/api"
)

const validLinkJSON = `{
	"id": "l1",
	"linkfy_id": "p1",
	"name": "GitHub",
	"icons_url": "https://example.com/gh.png",
	"created_at": "2025-01-02T15:04:05Z"
}`

func TestLinksListByProfile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/linkfy/p1/links", r.URL.Path)
		_, _ = w.Write([]byte(`{"data": [` + validLinkJSON + `], "message": "ok"}`))
	})

	resp, err := client.Links.ListByProfile(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "GitHub", resp.Data[0].Name)
	assert.Equal(t, "p1", resp.Data[0].LinkfyID)
}

func TestLinksListRejectsInvalidIconURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{
			"id": "l1", "linkfy_id": "p1", "name": "GitHub",
			"icons_url": "not a url", "created_at": "2025-01-02T15:04:05Z"
		}], "message": "ok"}`))
	})

	_, err := client.Links.ListByProfile(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.0.icons_url: invalid url")
}

func TestLinksListRejectsNullData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null, "message": "ok"}`))
	})

	resp, err := client.Links.ListByProfile(context.Background(), "p1")
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "data: expected an array")
}

func TestCreateLinkPreflight(t *testing.T) {
	var hits atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	neg := -1
	tests := []struct {
		name    string
		req     api.CreateLinkRequest
		wantErr string
	}{
		{
			name:    "empty title",
			req:     api.CreateLinkRequest{URL: "https://example.com"},
			wantErr: "title: cannot be empty",
		},
		{
			name:    "malformed url",
			req:     api.CreateLinkRequest{Title: "GitHub", URL: "nope"},
			wantErr: "url: invalid url",
		},
		{
			name:    "negative position",
			req:     api.CreateLinkRequest{Title: "GitHub", URL: "https://example.com", Position: &neg},
			wantErr: "position: must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Links.Create(context.Background(), "p1", tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.Zero(t, hits.Load())
}

func TestCreateLinkSingle(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/linkfy/p1/links/single", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "GitHub", got["title"])

		_, _ = w.Write([]byte(`{"message": "created"}`))
	})

	resp, err := client.Links.Create(context.Background(), "p1", api.CreateLinkRequest{
		Title: "GitHub",
		URL:   "https://github.com/alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "created", resp.Message)
}

func TestCreateLinksBatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/linkfy/p1/links", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"message": "created"}`))
	})

	resp, err := client.Links.CreateBatch(context.Background(), "p1", api.CreateLinksRequest{
		Data: []api.CreateLinkRequest{
			{Title: "GitHub", URL: "https://github.com/alice"},
			{Title: "Blog", URL: "https://alice.dev"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "created", resp.Message)
}

func TestCreateLinksBatchRejectsEmpty(t *testing.T) {
	var hits atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	_, err := client.Links.CreateBatch(context.Background(), "p1", api.CreateLinksRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data: cannot be empty")
	assert.Equal(t, int64(0), hits.Load())
}

func TestCreateLinksBatchNamesElementPath(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the network")
	})

	_, err := client.Links.CreateBatch(context.Background(), "p1", api.CreateLinksRequest{
		Data: []api.CreateLinkRequest{
			{Title: "GitHub", URL: "https://github.com/alice"},
			{Title: "Bad", URL: "nope"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.1.url: invalid url")
}
