package domain

import (
	"context"
	"time"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is one turn entry in a session's history. Routing provenance is
// recorded on every message: the provider/model the caller asked for, the
// pair actually used, and the human-readable reason trail from the router
// (plus any runtime fallback annotation).
type Message struct {
	ID                string      `bson:"id" json:"id"`
	SessionID         string      `bson:"session_id" json:"session_id"`
	UserID            string      `bson:"user_id" json:"user_id"`
	Role              MessageRole `bson:"role" json:"role"`
	Content           string      `bson:"content" json:"content"`
	Provider          string      `bson:"provider" json:"provider"`
	Model             string      `bson:"model" json:"model"`
	RequestedProvider string      `bson:"requested_provider,omitempty" json:"requested_provider,omitempty"`
	RequestedModel    string      `bson:"requested_model,omitempty" json:"requested_model,omitempty"`
	RouteMode         string      `bson:"route_mode,omitempty" json:"route_mode,omitempty"`
	RoutePreset       string      `bson:"route_preset,omitempty" json:"route_preset,omitempty"`
	RouteReason       string      `bson:"route_reason,omitempty" json:"route_reason,omitempty"`
	ResponseTimeMs    int64       `bson:"response_time_ms,omitempty" json:"response_time_ms,omitempty"`
	CreatedAt         time.Time   `bson:"created_at" json:"created_at"`
}

// AssistantReply is the result of a Backboard send.
type AssistantReply struct {
	Content   string `json:"content"`
	Status    string `json:"status"`
	ToolCalls []any  `json:"tool_calls,omitempty"`
}

// AssistantClient is the Backboard collaborator contract. All failures are
// treated uniformly by the orchestrator's fallback policy.
type AssistantClient interface {
	CreateAssistant(ctx context.Context, name, description string) (string, error)
	CreateThread(ctx context.Context, assistantID string) (string, error)
	SendMessage(ctx context.Context, threadID, content, provider, model, memoryMode string) (*AssistantReply, error)
}
