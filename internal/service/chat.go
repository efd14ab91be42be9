package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/JacobChan182/NoMoreTears/internal/routing"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// attemptState tracks the send pipeline: one attempt with the routed pair,
// at most one fallback attempt with the default pair.
type attemptState int

const (
	stateAttempting attemptState = iota
	stateFallbackAttempting
	stateSucceeded
	stateFailed
)

// ChatService orchestrates chat turns: routing provenance, session and
// handle resolution, the assistant call with its one-shot fallback, and
// history persistence. It is written against the ChatStore interface and
// never knows which backend is active.
type ChatService struct {
	store     domain.ChatStore
	assistant domain.AssistantClient
	router    *routing.Router
}

// NewChatService creates a new chat service.
func NewChatService(store domain.ChatStore, assistant domain.AssistantClient, router *routing.Router) *ChatService {
	return &ChatService{
		store:     store,
		assistant: assistant,
		router:    router,
	}
}

// Router exposes the routing component for handlers.
func (s *ChatService) Router() *routing.Router {
	return s.router
}

// TurnRequest is one inbound chat turn with its resolved routing decision.
type TurnRequest struct {
	Role      domain.Role
	UserID    string
	SessionID string // empty to start a new session
	TitleHint string
	Message   string

	Decision routing.Decision

	// provenance as supplied by the caller, recorded verbatim
	RequestedProvider string
	RequestedModel    string
	RouteMode         string
	RoutePreset       string
}

// TurnResult is the outcome of a completed turn.
type TurnResult struct {
	SessionID   string `json:"session_id"`
	Response    string `json:"response"`
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	RouteReason string `json:"route_reason"`
	AssistantID string `json:"assistant_id"`
	ThreadID    string `json:"thread_id"`
	LatencyMs   int64  `json:"latency_ms"`
}

// HandleTurn executes one chat turn. The user message is persisted before
// the assistant is called, so history keeps the question even when the
// assistant fails. On upstream failure the default pair is tried once,
// unless the routed pair already is the default.
func (s *ChatService) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	if !req.Role.Valid() {
		return nil, domain.NewValidationError("role", "must be student or instructor")
	}
	if req.UserID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if req.Message == "" {
		return nil, domain.NewValidationError("message", "is required")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sess, err := s.store.FindSession(ctx, req.Role, req.UserID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	title := req.TitleHint
	if title == "" {
		title = domain.DefaultSessionTitle
	}

	// The question goes into history first, tagged with the routed pair.
	userMsg := &domain.Message{
		ID:                uuid.NewString(),
		SessionID:         sessionID,
		UserID:            req.UserID,
		Role:              domain.MessageRoleUser,
		Content:           req.Message,
		Provider:          req.Decision.Provider,
		Model:             req.Decision.Model,
		RequestedProvider: req.RequestedProvider,
		RequestedModel:    req.RequestedModel,
		RouteMode:         req.RouteMode,
		RoutePreset:       req.RoutePreset,
		RouteReason:       req.Decision.Reason,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.store.AppendMessage(ctx, req.Role, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	assistantID, threadID, err := s.resolveHandles(ctx, req, sessionID, title, sess)
	if err != nil {
		return nil, err
	}

	provider, model, reason := req.Decision.Provider, req.Decision.Model, req.Decision.Reason
	cfg := s.router.Config()

	state := stateAttempting
	var reply *domain.AssistantReply
	var sendErr error

	start := time.Now()
	for state == stateAttempting || state == stateFallbackAttempting {
		reply, sendErr = s.assistant.SendMessage(ctx, threadID, req.Message, provider, model, "")
		if sendErr == nil {
			state = stateSucceeded
			break
		}

		if state == stateAttempting && !cfg.IsDefault(provider, model) {
			log.Warn().Err(sendErr).
				Str("provider", provider).
				Str("model", model).
				Msg("assistant call failed, retrying with default pair")
			reason += fmt.Sprintf(";runtime_fallback_from=%s:%s", provider, model)
			provider, model = cfg.DefaultProvider, cfg.DefaultModel
			state = stateFallbackAttempting
			continue
		}

		state = stateFailed
	}
	latencyMs := time.Since(start).Milliseconds()

	if state == stateFailed {
		// The user message stays in history on purpose.
		return nil, &domain.UpstreamError{Service: "backboard", Err: sendErr}
	}

	assistantMsg := &domain.Message{
		ID:                uuid.NewString(),
		SessionID:         sessionID,
		UserID:            req.UserID,
		Role:              domain.MessageRoleAssistant,
		Content:           reply.Content,
		Provider:          provider,
		Model:             model,
		RequestedProvider: req.RequestedProvider,
		RequestedModel:    req.RequestedModel,
		RouteMode:         req.RouteMode,
		RoutePreset:       req.RoutePreset,
		RouteReason:       reason,
		ResponseTimeMs:    latencyMs,
		CreatedAt:         time.Now().UTC(),
	}
	// The reply must land in history before the turn counts as complete.
	// The user message and any recorded handles stay valid on failure.
	if err := s.store.AppendMessage(ctx, req.Role, assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	if _, err := s.store.UpsertSession(ctx, req.Role, req.UserID, sessionID, domain.SessionUpsert{
		Title:       title,
		AssistantID: assistantID,
		ThreadID:    threadID,
	}); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to update session metadata")
	}

	return &TurnResult{
		SessionID:   sessionID,
		Response:    reply.Content,
		Provider:    provider,
		Model:       model,
		RouteReason: reason,
		AssistantID: assistantID,
		ThreadID:    threadID,
		LatencyMs:   latencyMs,
	}, nil
}

// resolveHandles returns the session's cached assistant/thread handles,
// provisioning them on the first turn. Freshly created handles are
// recorded immediately, under a context that survives caller cancellation,
// so a provisioned assistant can never go unrecorded.
func (s *ChatService) resolveHandles(ctx context.Context, req TurnRequest, sessionID, title string, sess *domain.ChatSession) (string, string, error) {
	if sess != nil && sess.AssistantID != "" && sess.ThreadID != "" {
		return sess.AssistantID, sess.ThreadID, nil
	}

	assistantID, err := s.assistant.CreateAssistant(ctx, title, "Tutor for lecture Q&A")
	if err != nil {
		return "", "", &domain.UpstreamError{Service: "backboard", Err: fmt.Errorf("create assistant: %w", err)}
	}

	threadID, err := s.assistant.CreateThread(ctx, assistantID)
	if err != nil {
		return "", "", &domain.UpstreamError{Service: "backboard", Err: fmt.Errorf("create thread: %w", err)}
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if _, err := s.store.UpsertSession(recordCtx, req.Role, req.UserID, sessionID, domain.SessionUpsert{
		Title:       title,
		AssistantID: assistantID,
		ThreadID:    threadID,
	}); err != nil {
		return "", "", fmt.Errorf("failed to record assistant handles: %w", err)
	}

	return assistantID, threadID, nil
}

// ListSessions lists the user's sessions, newest activity first.
func (s *ChatService) ListSessions(ctx context.Context, role domain.Role, userID string) ([]domain.ChatSession, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "must be student or instructor")
	}
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	return s.store.ListSessions(ctx, role, userID)
}

// CreateSession explicitly creates an empty session.
func (s *ChatService) CreateSession(ctx context.Context, role domain.Role, userID, title string) (*domain.ChatSession, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "must be student or instructor")
	}
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	return s.store.CreateSession(ctx, role, userID, title)
}

// DeleteSession removes a session and its messages.
func (s *ChatService) DeleteSession(ctx context.Context, role domain.Role, userID, sessionID string) error {
	if !role.Valid() {
		return domain.NewValidationError("role", "must be student or instructor")
	}
	if userID == "" {
		return domain.NewValidationError("user_id", "is required")
	}
	if sessionID == "" {
		return domain.NewValidationError("session_id", "is required")
	}
	return s.store.DeleteSession(ctx, role, userID, sessionID)
}

// ListMessages returns one chronological page of history.
func (s *ChatService) ListMessages(ctx context.Context, role domain.Role, userID, sessionID string, limit, offset int) ([]domain.Message, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "must be student or instructor")
	}
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	return s.store.ListMessages(ctx, role, userID, sessionID, limit, offset)
}
