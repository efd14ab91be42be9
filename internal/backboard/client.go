// Package backboard implements the HTTP client for the Backboard
// assistant service: provisioning assistants and threads, and posting
// messages to them.
package backboard

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

// Client talks to the Backboard REST API.
type Client struct {
	apiKey     string
	baseURL    string
	memoryMode string
	client     *http.Client
}

// NewClient creates a Backboard client. The configured timeout caps each
// call on top of the caller's request context.
func NewClient(cfg config.BackboardConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		memoryMode: cfg.MemoryMode,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

type assistantRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type assistantResponse struct {
	ID string `json:"id"`
}

type threadResponse struct {
	ID string `json:"id"`
}

type messageRequest struct {
	Content    string `json:"content"`
	Provider   string `json:"llm_provider"`
	Model      string `json:"llm_model"`
	MemoryMode string `json:"memory_mode,omitempty"`
}

// CreateAssistant provisions a new assistant and returns its handle.
func (c *Client) CreateAssistant(ctx context.Context, name, description string) (string, error) {
	var resp assistantResponse
	err := c.post(ctx, "/assistants", assistantRequest{Name: name, Description: description}, &resp)
	if err != nil {
		return "", fmt.Errorf("create assistant: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create assistant: empty id in response")
	}
	return resp.ID, nil
}

// CreateThread opens a conversation thread on an assistant.
func (c *Client) CreateThread(ctx context.Context, assistantID string) (string, error) {
	var resp threadResponse
	path := fmt.Sprintf("/assistants/%s/threads", assistantID)
	if err := c.post(ctx, path, struct{}{}, &resp); err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create thread: empty id in response")
	}
	return resp.ID, nil
}

// SendMessage posts a message to a thread and returns the assistant reply.
func (c *Client) SendMessage(ctx context.Context, threadID, content, provider, model, memoryMode string) (*domain.AssistantReply, error) {
	if memoryMode == "" {
		memoryMode = c.memoryMode
	}

	req := messageRequest{
		Content:    content,
		Provider:   provider,
		Model:      model,
		MemoryMode: memoryMode,
	}

	var reply domain.AssistantReply
	path := fmt.Sprintf("/threads/%s/messages", threadID)
	if err := c.post(ctx, path, req, &reply); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &reply, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backboard returned status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
