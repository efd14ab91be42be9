package handler

import (
	"encoding/json"
	"net/http"

	"github.com/JacobChan182/NoMoreTears/internal/api/response"
	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/JacobChan182/NoMoreTears/internal/routing"
	"github.com/JacobChan182/NoMoreTears/internal/service"
	"github.com/go-playground/validator/v10"
)

// ChatHandler serves the chat endpoint.
type ChatHandler struct {
	chatService *service.ChatService
	validate    *validator.Validate
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validate:    validator.New(),
	}
}

type chatRequest struct {
	Role         string `json:"role" validate:"omitempty,oneof=student instructor"`
	UserID       string `json:"user_id" validate:"required"`
	SessionID    string `json:"session_id"`
	Message      string `json:"message" validate:"required"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	RouteMode    string `json:"route_mode" validate:"omitempty,oneof=auto manual"`
	RoutePreset  string `json:"route_preset"`
	LectureID    string `json:"lecture_id"`
	LectureTitle string `json:"lecture_title"`
}

// Chat handles one chat turn: route the message, run the turn, return the
// reply with its routing and timing metadata.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleStudent
	}
	mode := routing.Mode(req.RouteMode)
	if req.RouteMode == "" {
		mode = routing.ModeAuto
	}

	decision := h.chatService.Router().Route(routing.Input{
		Mode:         mode,
		Preset:       routing.Preset(req.RoutePreset),
		Provider:     req.Provider,
		Model:        req.Model,
		Message:      req.Message,
		LectureID:    req.LectureID,
		LectureTitle: req.LectureTitle,
	})

	res, err := h.chatService.HandleTurn(r.Context(), service.TurnRequest{
		Role:              role,
		UserID:            req.UserID,
		SessionID:         req.SessionID,
		TitleHint:         req.LectureTitle,
		Message:           req.Message,
		Decision:          decision,
		RequestedProvider: req.Provider,
		RequestedModel:    req.Model,
		RouteMode:         string(mode),
		RoutePreset:       req.RoutePreset,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, res)
}
