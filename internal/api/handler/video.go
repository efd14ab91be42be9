package handler

import (
	"encoding/json"
	"net/http"

	"github.com/JacobChan182/NoMoreTears/internal/api/response"
	"github.com/JacobChan182/NoMoreTears/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// VideoHandler serves lecture-video indexing endpoints.
type VideoHandler struct {
	videoService *service.VideoService
	validate     *validator.Validate
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		validate:     validator.New(),
	}
}

type indexRequest struct {
	VideoURL string `json:"video_url" validate:"required,url"`
}

// Index starts indexing a lecture video.
func (h *VideoHandler) Index(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	task, err := h.videoService.StartIndexing(r.Context(), req.VideoURL)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, task)
}

// TaskStatus reports an indexing task's state.
func (h *VideoHandler) TaskStatus(w http.ResponseWriter, r *http.Request) {
	task, err := h.videoService.TaskStatus(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, task)
}
