// Package twelvelabs implements the HTTP client for the TwelveLabs
// video-understanding service. Only the index-task surface the backend
// needs is covered.
package twelvelabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/JacobChan182/NoMoreTears/internal/config"
	"github.com/JacobChan182/NoMoreTears/internal/domain"
)

// Client talks to the TwelveLabs REST API.
type Client struct {
	apiKey  string
	indexID string
	baseURL string
	client  *http.Client
}

// NewClient creates a TwelveLabs client.
func NewClient(cfg config.TwelveLabsConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		indexID: cfg.IndexID,
		baseURL: cfg.BaseURL,
		client:  &http.Client{},
	}
}

type createIndexRequest struct {
	IndexName string       `json:"index_name"`
	Models    []indexModel `json:"models"`
}

type indexModel struct {
	ModelName    string   `json:"model_name"`
	ModelOptions []string `json:"model_options"`
}

type indexResponse struct {
	ID string `json:"_id"`
}

// CreateIndex provisions a new index carrying both understanding models:
// marengo for search embeddings, pegasus for generative summaries.
func (c *Client) CreateIndex(ctx context.Context, name string) (string, error) {
	req := createIndexRequest{
		IndexName: name,
		Models: []indexModel{
			{ModelName: "marengo2.7", ModelOptions: []string{"visual", "conversation", "text_in_video"}},
			{ModelName: "pegasus1.2", ModelOptions: []string{"visual", "conversation"}},
		},
	}

	var resp indexResponse
	if err := c.do(ctx, http.MethodPost, "/indexes", req, &resp); err != nil {
		return "", fmt.Errorf("create index: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create index: empty id in response")
	}
	return resp.ID, nil
}

type createTaskRequest struct {
	IndexID  string `json:"index_id"`
	VideoURL string `json:"video_url"`
}

type taskResponse struct {
	ID      string `json:"_id"`
	VideoID string `json:"video_id"`
	Status  string `json:"status"`
}

// CreateIndexTask starts indexing a video URL on the configured index.
func (c *Client) CreateIndexTask(ctx context.Context, videoURL string) (*domain.IndexTask, error) {
	req := createTaskRequest{IndexID: c.indexID, VideoURL: videoURL}

	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &resp); err != nil {
		return nil, fmt.Errorf("create index task: %w", err)
	}
	return &domain.IndexTask{ID: resp.ID, VideoID: resp.VideoID, Status: resp.Status}, nil
}

// GetTask fetches the current state of an indexing task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*domain.IndexTask, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodGet, "/tasks/"+taskID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &domain.IndexTask{ID: resp.ID, VideoID: resp.VideoID, Status: resp.Status}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twelvelabs returned status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
