package twelvelabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JacobChan182/NoMoreTears/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(config.TwelveLabsConfig{
		APIKey:  "key-123",
		IndexID: "idx-1",
		BaseURL: srv.URL,
	})
}

func TestClient_CreateIndex(t *testing.T) {
	var got createIndexRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/indexes", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"_id": "idx-new"})
	}))
	defer srv.Close()

	id, err := testClient(srv).CreateIndex(context.Background(), "lectures")
	require.NoError(t, err)
	assert.Equal(t, "idx-new", id)

	assert.Equal(t, "lectures", got.IndexName)
	require.Len(t, got.Models, 2)
	assert.Equal(t, "marengo2.7", got.Models[0].ModelName)
	assert.Equal(t, "pegasus1.2", got.Models[1].ModelName)
}

func TestClient_CreateIndexTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks", r.URL.Path)

		var got createTaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "idx-1", got.IndexID)
		assert.Equal(t, "https://cdn.example.com/lec1.mp4", got.VideoURL)

		json.NewEncoder(w).Encode(map[string]string{"_id": "task-1", "status": "pending"})
	}))
	defer srv.Close()

	task, err := testClient(srv).CreateIndexTask(context.Background(), "https://cdn.example.com/lec1.mp4")
	require.NoError(t, err)
	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "pending", task.Status)
}

func TestClient_GetTask_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv).GetTask(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
