package service

import (
	"context"
	"errors"
	"testing"

	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/JacobChan182/NoMoreTears/internal/repository/memory"
	"github.com/JacobChan182/NoMoreTears/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRouter() *routing.Router {
	return routing.NewRouter(routing.Config{
		DefaultProvider: "openai",
		DefaultModel:    "gpt-5",
		FastProvider:    "openai",
		FastModel:       "gpt-5-mini",
		LogicalProvider: "anthropic",
		LogicalModel:    "claude-sonnet-4",
	})
}

func TestChatService_Validation(t *testing.T) {
	svc := NewChatService(memory.NewChatStore(), new(MockAssistantClient), testRouter())
	ctx := context.Background()

	var vErr *domain.ValidationError

	_, err := svc.HandleTurn(ctx, TurnRequest{Role: "admin", UserID: "u1", Message: "hi"})
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.HandleTurn(ctx, TurnRequest{Role: domain.RoleStudent, Message: "hi"})
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.HandleTurn(ctx, TurnRequest{Role: domain.RoleStudent, UserID: "u1"})
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.ListSessions(ctx, domain.RoleStudent, "")
	assert.ErrorAs(t, err, &vErr)
}

// New user sends a turn with the fastest preset: the fast pair is used, a
// session is created with handles, and both messages land in history.
func TestChatService_FirstTurn(t *testing.T) {
	store := memory.NewChatStore()
	assistant := new(MockAssistantClient)
	router := testRouter()
	svc := NewChatService(store, assistant, router)
	ctx := context.Background()

	decision := router.Route(routing.Input{Preset: routing.PresetFastest})
	require.Equal(t, "gpt-5-mini", decision.Model)

	assistant.On("CreateAssistant", mock.Anything, "Intro to Calculus", mock.Anything).Return("asst_1", nil).Once()
	assistant.On("CreateThread", mock.Anything, "asst_1").Return("thr_1", nil).Once()
	assistant.On("SendMessage", mock.Anything, "thr_1", "What is a derivative?", "openai", "gpt-5-mini", "").
		Return(&domain.AssistantReply{Content: "A derivative measures...", Status: "completed"}, nil).Once()

	res, err := svc.HandleTurn(ctx, TurnRequest{
		Role:        domain.RoleStudent,
		UserID:      "u1",
		TitleHint:   "Intro to Calculus",
		Message:     "What is a derivative?",
		Decision:    decision,
		RoutePreset: string(routing.PresetFastest),
	})
	require.NoError(t, err)
	assistant.AssertExpectations(t)

	assert.Equal(t, "openai", res.Provider)
	assert.Equal(t, "gpt-5-mini", res.Model)
	assert.Equal(t, "bucket=fast_preset", res.RouteReason)
	assert.Equal(t, "asst_1", res.AssistantID)
	assert.Equal(t, "thr_1", res.ThreadID)

	sessions, err := svc.ListSessions(ctx, domain.RoleStudent, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, res.SessionID, sessions[0].SessionID)
	assert.Equal(t, "Intro to Calculus", sessions[0].Title)
	assert.Equal(t, "asst_1", sessions[0].AssistantID)
	assert.Equal(t, "thr_1", sessions[0].ThreadID)

	msgs, err := svc.ListMessages(ctx, domain.RoleStudent, "u1", res.SessionID, 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.MessageRoleUser, msgs[0].Role)
	assert.Equal(t, domain.MessageRoleAssistant, msgs[1].Role)
	assert.Equal(t, "gpt-5-mini", msgs[1].Model)
	assert.GreaterOrEqual(t, msgs[1].ResponseTimeMs, int64(0))
}

// A second turn on an established session reuses the cached handles: no
// assistant or thread provisioning calls are made.
func TestChatService_SecondTurnReusesHandles(t *testing.T) {
	store := memory.NewChatStore()
	assistant := new(MockAssistantClient)
	router := testRouter()
	svc := NewChatService(store, assistant, router)
	ctx := context.Background()

	_, err := store.UpsertSession(ctx, domain.RoleStudent, "u1", "s1", domain.SessionUpsert{
		Title:       "Week 2",
		AssistantID: "asst_9",
		ThreadID:    "thr_9",
	})
	require.NoError(t, err)

	assistant.On("SendMessage", mock.Anything, "thr_9", "continue", "openai", "gpt-5", "").
		Return(&domain.AssistantReply{Content: "sure", Status: "completed"}, nil).Once()

	res, err := svc.HandleTurn(ctx, TurnRequest{
		Role:      domain.RoleStudent,
		UserID:    "u1",
		SessionID: "s1",
		Message:   "continue",
		Decision:  routing.Decision{Provider: "openai", Model: "gpt-5", Reason: "bucket=auto_default"},
	})
	require.NoError(t, err)
	assistant.AssertExpectations(t)
	assistant.AssertNotCalled(t, "CreateAssistant", mock.Anything, mock.Anything, mock.Anything)
	assistant.AssertNotCalled(t, "CreateThread", mock.Anything, mock.Anything)

	sess, err := store.FindSession(ctx, domain.RoleStudent, "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "asst_9", sess.AssistantID)
	assert.Equal(t, "thr_9", sess.ThreadID)
	assert.Equal(t, "Week 2", sess.Title)
	assert.Equal(t, "s1", res.SessionID)
}

// The routed pair fails once and the default pair succeeds: the persisted
// assistant message carries the default pair and a fallback annotation.
func TestChatService_RuntimeFallback(t *testing.T) {
	store := memory.NewChatStore()
	assistant := new(MockAssistantClient)
	router := testRouter()
	svc := NewChatService(store, assistant, router)
	ctx := context.Background()

	_, err := store.UpsertSession(ctx, domain.RoleStudent, "u1", "s1", domain.SessionUpsert{
		Title: "T", AssistantID: "a", ThreadID: "th",
	})
	require.NoError(t, err)

	assistant.On("SendMessage", mock.Anything, "th", "hello", "anthropic", "claude-sonnet-4", "").
		Return(nil, errors.New("model overloaded")).Once()
	assistant.On("SendMessage", mock.Anything, "th", "hello", "openai", "gpt-5", "").
		Return(&domain.AssistantReply{Content: "hi", Status: "completed"}, nil).Once()

	res, err := svc.HandleTurn(ctx, TurnRequest{
		Role:      domain.RoleStudent,
		UserID:    "u1",
		SessionID: "s1",
		Message:   "hello",
		Decision:  routing.Decision{Provider: "anthropic", Model: "claude-sonnet-4", Reason: "bucket=logical_preset"},
	})
	require.NoError(t, err)
	assistant.AssertExpectations(t)

	assert.Equal(t, "openai", res.Provider)
	assert.Equal(t, "gpt-5", res.Model)
	assert.Contains(t, res.RouteReason, "runtime_fallback_from=anthropic:claude-sonnet-4")

	msgs, err := svc.ListMessages(ctx, domain.RoleStudent, "u1", "s1", 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "openai", msgs[1].Provider)
	assert.Equal(t, "gpt-5", msgs[1].Model)
	assert.Contains(t, msgs[1].RouteReason, "runtime_fallback_from")
}

// When the routed pair already is the default, failure propagates without
// a retry: exactly one send happens.
func TestChatService_NoFallbackFromDefault(t *testing.T) {
	store := memory.NewChatStore()
	assistant := new(MockAssistantClient)
	svc := NewChatService(store, assistant, testRouter())
	ctx := context.Background()

	_, err := store.UpsertSession(ctx, domain.RoleStudent, "u1", "s1", domain.SessionUpsert{
		Title: "T", AssistantID: "a", ThreadID: "th",
	})
	require.NoError(t, err)

	assistant.On("SendMessage", mock.Anything, "th", "hello", "openai", "gpt-5", "").
		Return(nil, errors.New("boom")).Once()

	_, err = svc.HandleTurn(ctx, TurnRequest{
		Role:      domain.RoleStudent,
		UserID:    "u1",
		SessionID: "s1",
		Message:   "hello",
		Decision:  routing.Decision{Provider: "openai", Model: "gpt-5", Reason: "bucket=auto_default"},
	})

	var upErr *domain.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assistant.AssertNumberOfCalls(t, "SendMessage", 1)

	// the user message survives the failed turn
	msgs, listErr := svc.ListMessages(ctx, domain.RoleStudent, "u1", "s1", 10, 0)
	require.NoError(t, listErr)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.MessageRoleUser, msgs[0].Role)
}

// The fallback attempt failing too surfaces the upstream error after
// exactly two sends.
func TestChatService_FallbackAlsoFails(t *testing.T) {
	store := memory.NewChatStore()
	assistant := new(MockAssistantClient)
	svc := NewChatService(store, assistant, testRouter())
	ctx := context.Background()

	_, err := store.UpsertSession(ctx, domain.RoleStudent, "u1", "s1", domain.SessionUpsert{
		Title: "T", AssistantID: "a", ThreadID: "th",
	})
	require.NoError(t, err)

	assistant.On("SendMessage", mock.Anything, "th", "hello", "mistral", "mistral-large-latest", "").
		Return(nil, errors.New("first failure")).Once()
	assistant.On("SendMessage", mock.Anything, "th", "hello", "openai", "gpt-5", "").
		Return(nil, errors.New("second failure")).Once()

	_, err = svc.HandleTurn(ctx, TurnRequest{
		Role:      domain.RoleStudent,
		UserID:    "u1",
		SessionID: "s1",
		Message:   "hello",
		Decision:  routing.Decision{Provider: "mistral", Model: "mistral-large-latest", Reason: "bucket=manual"},
	})

	var upErr *domain.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Contains(t, upErr.Error(), "second failure")
	assistant.AssertNumberOfCalls(t, "SendMessage", 2)
}

// failingAppendStore rejects assistant-message appends while delegating
// everything else to the wrapped store.
type failingAppendStore struct {
	domain.ChatStore
}

func (s *failingAppendStore) AppendMessage(ctx context.Context, role domain.Role, msg *domain.Message) error {
	if msg.Role == domain.MessageRoleAssistant {
		return errors.New("write refused")
	}
	return s.ChatStore.AppendMessage(ctx, role, msg)
}

// A reply that cannot be persisted fails the turn instead of silently
// dropping half of it; the user message survives.
func TestChatService_AssistantAppendFailureFailsTurn(t *testing.T) {
	inner := memory.NewChatStore()
	store := &failingAppendStore{ChatStore: inner}
	assistant := new(MockAssistantClient)
	svc := NewChatService(store, assistant, testRouter())
	ctx := context.Background()

	_, err := inner.UpsertSession(ctx, domain.RoleStudent, "u1", "s1", domain.SessionUpsert{
		Title: "T", AssistantID: "a", ThreadID: "th",
	})
	require.NoError(t, err)

	assistant.On("SendMessage", mock.Anything, "th", "hello", "openai", "gpt-5", "").
		Return(&domain.AssistantReply{Content: "hi", Status: "completed"}, nil).Once()

	_, err = svc.HandleTurn(ctx, TurnRequest{
		Role:      domain.RoleStudent,
		UserID:    "u1",
		SessionID: "s1",
		Message:   "hello",
		Decision:  routing.Decision{Provider: "openai", Model: "gpt-5", Reason: "bucket=auto_default"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save assistant message")

	msgs, listErr := inner.ListMessages(ctx, domain.RoleStudent, "u1", "s1", 10, 0)
	require.NoError(t, listErr)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.MessageRoleUser, msgs[0].Role)
}

func TestChatService_DeleteSessionIdempotence(t *testing.T) {
	store := memory.NewChatStore()
	svc := NewChatService(store, new(MockAssistantClient), testRouter())
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, domain.RoleStudent, "u1", "to delete")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, domain.RoleStudent, "u1", sess.SessionID))
	err = svc.DeleteSession(ctx, domain.RoleStudent, "u1", sess.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestVideoService_StartIndexing(t *testing.T) {
	client := new(MockVideoClient)
	svc := NewVideoService(client)
	ctx := context.Background()

	t.Run("missing url", func(t *testing.T) {
		var vErr *domain.ValidationError
		_, err := svc.StartIndexing(ctx, "")
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("success", func(t *testing.T) {
		client.On("CreateIndexTask", ctx, "https://cdn.example.com/lec1.mp4").
			Return(&domain.IndexTask{ID: "task_1", Status: "pending"}, nil).Once()

		task, err := svc.StartIndexing(ctx, "https://cdn.example.com/lec1.mp4")
		require.NoError(t, err)
		assert.Equal(t, "task_1", task.ID)
	})
}
