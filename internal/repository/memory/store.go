// Package memory provides a volatile chat store used when Mongo is
// unavailable at process start. It satisfies the same contract as the
// Mongo store but lives only for the process lifetime.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/google/uuid"
)

type sessionKey struct {
	role      domain.Role
	userID    string
	sessionID string
}

// ChatStore implements domain.ChatStore on in-process maps guarded by a
// single RWMutex, safe for concurrent turns.
type ChatStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*domain.ChatSession
	messages map[domain.Role][]domain.Message
}

// NewChatStore creates an empty in-memory chat store.
func NewChatStore() *ChatStore {
	return &ChatStore{
		sessions: make(map[sessionKey]*domain.ChatSession),
		messages: make(map[domain.Role][]domain.Message),
	}
}

// FindSession returns a copy of the session or (nil, nil) when absent.
func (s *ChatStore) FindSession(ctx context.Context, role domain.Role, userID, sessionID string) (*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionKey{role, userID, sessionID}]
	if !ok {
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

// UpsertSession creates or updates the session with the same title and
// handle rules as the Mongo store.
func (s *ChatStore) UpsertSession(ctx context.Context, role domain.Role, userID, sessionID string, up domain.SessionUpsert) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	key := sessionKey{role, userID, sessionID}

	sess, ok := s.sessions[key]
	if !ok {
		title := up.Title
		if title == "" {
			title = domain.DefaultSessionTitle
		}
		sess = &domain.ChatSession{
			SessionID:   sessionID,
			UserID:      userID,
			Title:       title,
			AssistantID: up.AssistantID,
			ThreadID:    up.ThreadID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.sessions[key] = sess
		cp := *sess
		return &cp, nil
	}

	if up.Title != "" && !(up.Title == domain.DefaultSessionTitle && sess.Title != "") {
		sess.Title = up.Title
	}
	if up.AssistantID != "" && up.ThreadID != "" {
		sess.AssistantID = up.AssistantID
		sess.ThreadID = up.ThreadID
	}
	sess.UpdatedAt = now

	cp := *sess
	return &cp, nil
}

// CreateSession generates a fresh session with no handles.
func (s *ChatStore) CreateSession(ctx context.Context, role domain.Role, userID, title string) (*domain.ChatSession, error) {
	if title == "" {
		title = domain.DefaultSessionTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	sess := &domain.ChatSession{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sessionKey{role, userID, sess.SessionID}] = sess

	cp := *sess
	return &cp, nil
}

// DeleteSession removes the session and its messages.
func (s *ChatStore) DeleteSession(ctx context.Context, role domain.Role, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{role, userID, sessionID}
	if _, ok := s.sessions[key]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, key)

	// Session ids are caller-supplied, so the cascade must match the
	// owner too: another user's history under the same id stays intact.
	kept := s.messages[role][:0]
	for _, m := range s.messages[role] {
		if m.SessionID != sessionID || m.UserID != userID {
			kept = append(kept, m)
		}
	}
	s.messages[role] = kept
	return nil
}

// ListSessions returns the user's sessions, most recently updated first,
// capped at MaxSessionList.
func (s *ChatStore) ListSessions(ctx context.Context, role domain.Role, userID string) ([]domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []domain.ChatSession
	for key, sess := range s.sessions {
		if key.role == role && key.userID == userID {
			sessions = append(sessions, *sess)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	if len(sessions) > domain.MaxSessionList {
		sessions = sessions[:domain.MaxSessionList]
	}
	return sessions, nil
}

// AppendMessage records a message. Insert-only; concurrent appends go to
// distinct slice entries under the lock and can never overwrite.
func (s *ChatStore) AppendMessage(ctx context.Context, role domain.Role, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.messages[role] = append(s.messages[role], *msg)
	return nil
}

// ListMessages returns one page of messages in chronological order, taken
// newest-first with limit/offset then reversed, matching the Mongo store.
func (s *ChatStore) ListMessages(ctx context.Context, role domain.Role, userID, sessionID string, limit, offset int) ([]domain.Message, error) {
	if limit <= 0 {
		return []domain.Message{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Message
	for _, m := range s.messages[role] {
		if m.UserID != userID {
			continue
		}
		if sessionID != "" && m.SessionID != sessionID {
			continue
		}
		matched = append(matched, m)
	}

	// Chronological, with insertion order breaking timestamp ties. The
	// page window is taken from the end so offset walks backward through
	// history, same as the newest-first query the Mongo store runs.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	end := len(matched) - offset
	if end <= 0 {
		return []domain.Message{}, nil
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	return append([]domain.Message(nil), matched[start:end]...), nil
}
