package domain

import (
	"context"
	"time"
)

// Role identifies which side of the platform a user belongs to. Each role
// has its own storage namespace.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleInstructor
}

// ChatSession represents a conversation thread between a user and the
// assistant. AssistantID and ThreadID are opaque handles returned by
// Backboard; they are created lazily on the first turn and always set
// together.
type ChatSession struct {
	SessionID   string    `bson:"session_id" json:"session_id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Title       string    `bson:"title" json:"title"`
	AssistantID string    `bson:"assistant_id,omitempty" json:"assistant_id,omitempty"`
	ThreadID    string    `bson:"thread_id,omitempty" json:"thread_id,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultSessionTitle is used when no title hint is available.
const DefaultSessionTitle = "Untitled"

// MaxSessionList caps the number of sessions returned by ListSessions.
const MaxSessionList = 50

// SessionUpsert carries the fields written by UpsertSession.
type SessionUpsert struct {
	Title       string
	AssistantID string
	ThreadID    string
}

// ChatStore is the storage contract for sessions and messages. Two
// implementations exist: the Mongo-backed store and a volatile in-memory
// store used when Mongo is unavailable at startup. Callers never branch on
// which one they hold.
type ChatStore interface {
	// FindSession returns the session or (nil, nil) when absent.
	FindSession(ctx context.Context, role Role, userID, sessionID string) (*ChatSession, error)

	// UpsertSession creates the session on first write and updates it on
	// subsequent writes. An existing non-empty title is never overwritten
	// by an empty or default one.
	UpsertSession(ctx context.Context, role Role, userID, sessionID string, up SessionUpsert) (*ChatSession, error)

	// CreateSession generates a fresh session id with no handles.
	CreateSession(ctx context.Context, role Role, userID, title string) (*ChatSession, error)

	// DeleteSession removes the session and all of its messages.
	// Returns ErrSessionNotFound if the session does not exist.
	DeleteSession(ctx context.Context, role Role, userID, sessionID string) error

	// ListSessions returns up to MaxSessionList sessions for the user,
	// most recently updated first.
	ListSessions(ctx context.Context, role Role, userID string) ([]ChatSession, error)

	// AppendMessage records a message. Messages are insert-only.
	AppendMessage(ctx context.Context, role Role, msg *Message) error

	// ListMessages returns one page of messages in chronological order.
	// Pages are taken newest-first with limit/offset, then reversed, so
	// offset walks backward through history while each page reads
	// oldest-first. sessionID may be empty to page over all of the
	// user's messages.
	ListMessages(ctx context.Context, role Role, userID, sessionID string, limit, offset int) ([]Message, error)
}
