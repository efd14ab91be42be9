package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatStore implements domain.ChatStore on Mongo. Each role gets its own
// pair of collections ("student_sessions"/"student_messages" and the
// instructor equivalents).
type ChatStore struct {
	db *mongo.Database
}

// NewChatStore creates a Mongo-backed chat store.
func NewChatStore(client *Client) *ChatStore {
	return &ChatStore{db: client.Database()}
}

func (s *ChatStore) sessions(role domain.Role) *mongo.Collection {
	return s.db.Collection(string(role) + "_sessions")
}

func (s *ChatStore) messages(role domain.Role) *mongo.Collection {
	return s.db.Collection(string(role) + "_messages")
}

// FindSession returns the session or (nil, nil) when absent.
func (s *ChatStore) FindSession(ctx context.Context, role domain.Role, userID, sessionID string) (*domain.ChatSession, error) {
	filter := bson.M{"user_id": userID, "session_id": sessionID}

	var sess domain.ChatSession
	err := s.sessions(role).FindOne(ctx, filter).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &sess, nil
}

// UpsertSession creates or updates the session. An existing non-empty title
// is never replaced by an empty or default one, and handles are only
// written as a pair.
func (s *ChatStore) UpsertSession(ctx context.Context, role domain.Role, userID, sessionID string, up domain.SessionUpsert) (*domain.ChatSession, error) {
	existing, err := s.FindSession(ctx, role, userID, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if existing == nil {
		title := up.Title
		if title == "" {
			title = domain.DefaultSessionTitle
		}
		sess := &domain.ChatSession{
			SessionID:   sessionID,
			UserID:      userID,
			Title:       title,
			AssistantID: up.AssistantID,
			ThreadID:    up.ThreadID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := s.sessions(role).InsertOne(ctx, sess); err != nil {
			return nil, fmt.Errorf("failed to insert session: %w", err)
		}
		return sess, nil
	}

	set := bson.M{"updated_at": now}
	if keepTitle(existing.Title, up.Title) {
		existing.Title = up.Title
		set["title"] = up.Title
	}
	if up.AssistantID != "" && up.ThreadID != "" {
		existing.AssistantID = up.AssistantID
		existing.ThreadID = up.ThreadID
		set["assistant_id"] = up.AssistantID
		set["thread_id"] = up.ThreadID
	}

	filter := bson.M{"user_id": userID, "session_id": sessionID}
	if _, err := s.sessions(role).UpdateOne(ctx, filter, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	existing.UpdatedAt = now
	return existing, nil
}

// keepTitle decides whether an incoming title may replace the stored one.
func keepTitle(current, incoming string) bool {
	if incoming == "" {
		return false
	}
	if incoming == domain.DefaultSessionTitle && current != "" {
		return false
	}
	return incoming != current
}

// CreateSession generates a fresh session with no handles.
func (s *ChatStore) CreateSession(ctx context.Context, role domain.Role, userID, title string) (*domain.ChatSession, error) {
	if title == "" {
		title = domain.DefaultSessionTitle
	}
	now := time.Now().UTC()
	sess := &domain.ChatSession{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.sessions(role).InsertOne(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// DeleteSession removes the session and cascades to its messages.
func (s *ChatStore) DeleteSession(ctx context.Context, role domain.Role, userID, sessionID string) error {
	filter := bson.M{"user_id": userID, "session_id": sessionID}

	res, err := s.sessions(role).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSessionNotFound
	}

	// Session ids are caller-supplied, so the cascade must match the
	// owner too: another user's history under the same id stays intact.
	if _, err := s.messages(role).DeleteMany(ctx, bson.M{"user_id": userID, "session_id": sessionID}); err != nil {
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	return nil
}

// ListSessions returns the user's sessions, most recently updated first.
func (s *ChatStore) ListSessions(ctx context.Context, role domain.Role, userID string) ([]domain.ChatSession, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(domain.MaxSessionList)

	cur, err := s.sessions(role).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cur.Close(ctx)

	var sessions []domain.ChatSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

// AppendMessage records a message. Each message carries its own uuid so
// concurrent turns can never overwrite one another.
func (s *ChatStore) AppendMessage(ctx context.Context, role domain.Role, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if _, err := s.messages(role).InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListMessages returns one page of messages in chronological order. The
// query runs newest-first with limit/offset and the page is reversed, so
// paging moves backward through history while each page reads oldest-first.
func (s *ChatStore) ListMessages(ctx context.Context, role domain.Role, userID, sessionID string, limit, offset int) ([]domain.Message, error) {
	if limit <= 0 {
		return []domain.Message{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	filter := bson.M{"user_id": userID}
	if sessionID != "" {
		filter["session_id"] = sessionID
	}

	// _id breaks created_at ties so a user/assistant pair written in the
	// same millisecond still pages in insertion order.
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := s.messages(role).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cur.Close(ctx)

	var messages []domain.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	// Reverse to return chronological order (oldest first)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
