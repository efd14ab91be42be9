package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JacobChan182/NoMoreTears/internal/config"
	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/google/generative-ai-go/genai"
	gocache "github.com/patrickmn/go-cache"
	"google.golang.org/api/option"
)

const (
	quizContextTTL    = 5 * time.Minute
	quizMaxQuestions  = 10
	quizBaseQuestions = 5
)

// QuizService generates quiz questions from a lecture's indexed segments
// using Gemini. Segment contexts are cached briefly since lecture metadata
// only changes when a video is re-indexed.
type QuizService struct {
	lectures domain.LectureRepository
	apiKey   string
	model    string
	cache    *gocache.Cache
}

// NewQuizService creates a new quiz service.
func NewQuizService(lectures domain.LectureRepository, cfg config.GeminiConfig) *QuizService {
	return &QuizService{
		lectures: lectures,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		cache:    gocache.New(quizContextTTL, 10*time.Minute),
	}
}

// IsConfigured checks if the service has Gemini credentials.
func (s *QuizService) IsConfigured() bool {
	return s.apiKey != ""
}

// LectureContext builds the prompt context from a lecture's segments,
// cached per lecture id.
func (s *QuizService) LectureContext(ctx context.Context, lectureID string) (string, error) {
	if lectureID == "" {
		return "", domain.NewValidationError("lecture_id", "is required")
	}

	if cached, ok := s.cache.Get(lectureID); ok {
		return cached.(string), nil
	}

	lecture, err := s.lectures.GetLecture(ctx, lectureID)
	if err != nil {
		return "", err
	}
	if len(lecture.Segments) == 0 {
		return "", fmt.Errorf("lecture %s has no segments yet, indexing may still be in progress", lectureID)
	}

	var b strings.Builder
	b.WriteString("LECTURE DATA FOR QUIZ GENERATION:\n")
	for _, seg := range lecture.Segments {
		fmt.Fprintf(&b, "- Topic: %s\n  Summary: %s\n\n", seg.Title, seg.Summary)
	}

	text := b.String()
	s.cache.Set(lectureID, text, gocache.DefaultExpiration)
	return text, nil
}

// GenerateQuiz produces quiz questions for a lecture.
func (s *QuizService) GenerateQuiz(ctx context.Context, lectureID string, numQuestions int) (string, error) {
	if !s.IsConfigured() {
		return "", &domain.ConfigurationError{Subsystem: "gemini", Message: "missing API key"}
	}
	if numQuestions <= 0 {
		numQuestions = quizBaseQuestions
	}
	if numQuestions > quizMaxQuestions {
		numQuestions = quizMaxQuestions
	}

	lectureContext, err := s.LectureContext(ctx, lectureID)
	if err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.model)
	var temperature float32 = 0.2
	model.Temperature = &temperature

	prompt := fmt.Sprintf(
		"%s\nWrite %d multiple-choice questions covering the topics above. "+
			"For each question give four options labeled A-D and mark the correct answer.",
		lectureContext, numQuestions,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &domain.UpstreamError{Service: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &domain.UpstreamError{Service: "gemini", Err: fmt.Errorf("empty response")}
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return out.String(), nil
}
