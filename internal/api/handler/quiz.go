package handler

import (
	"net/http"
	"strconv"

	"github.com/JacobChan182/NoMoreTears/internal/api/response"
	"github.com/JacobChan182/NoMoreTears/internal/service"
	"github.com/go-chi/chi/v5"
)

// QuizHandler serves quiz generation from indexed lecture segments.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new quiz handler. The service is nil when
// persistent storage is unavailable, since lectures live in Mongo.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Generate produces quiz questions for a lecture.
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.quizService == nil {
		response.ServiceUnavailable(w, "quiz generation requires persistent storage")
		return
	}

	n := 0
	if q := r.URL.Query().Get("questions"); q != "" {
		if v, err := strconv.Atoi(q); err == nil {
			n = v
		}
	}

	lectureID := chi.URLParam(r, "lectureID")
	quiz, err := h.quizService.GenerateQuiz(r.Context(), lectureID, n)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"lecture_id": lectureID,
		"quiz":       quiz,
	})
}
