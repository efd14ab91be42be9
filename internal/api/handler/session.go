package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/JacobChan182/NoMoreTears/internal/api/response"
	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/JacobChan182/NoMoreTears/internal/service"
	"github.com/go-chi/chi/v5"
)

// SessionHandler serves session CRUD and history endpoints.
type SessionHandler struct {
	chatService *service.ChatService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(chatService *service.ChatService) *SessionHandler {
	return &SessionHandler{chatService: chatService}
}

func roleFromQuery(r *http.Request) domain.Role {
	role := domain.Role(r.URL.Query().Get("role"))
	if role == "" {
		role = domain.RoleStudent
	}
	return role
}

// List returns the user's sessions, most recent activity first.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.chatService.ListSessions(r.Context(), roleFromQuery(r), r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if sessions == nil {
		sessions = []domain.ChatSession{}
	}
	response.OK(w, sessions)
}

// Create creates a new empty session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role   string `json:"role"`
		UserID string `json:"user_id"`
		Title  string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleStudent
	}

	sess, err := h.chatService.CreateSession(r.Context(), role, req.UserID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, sess)
}

// Delete removes a session and its messages.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	err := h.chatService.DeleteSession(r.Context(), roleFromQuery(r), r.URL.Query().Get("user_id"), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "session deleted"})
}

// Messages returns one chronological page of a session's history.
func (h *SessionHandler) Messages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v >= 0 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	msgs, err := h.chatService.ListMessages(r.Context(), roleFromQuery(r), r.URL.Query().Get("user_id"), sessionID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	response.OK(w, msgs)
}
