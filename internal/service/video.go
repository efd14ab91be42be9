package service

import (
	"context"

	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/rs/zerolog/log"
)

// VideoService wraps the TwelveLabs client for lecture indexing.
type VideoService struct {
	client domain.VideoClient
}

// NewVideoService creates a new video service.
func NewVideoService(client domain.VideoClient) *VideoService {
	return &VideoService{client: client}
}

// StartIndexing kicks off an indexing task for a lecture video URL.
func (s *VideoService) StartIndexing(ctx context.Context, videoURL string) (*domain.IndexTask, error) {
	if videoURL == "" {
		return nil, domain.NewValidationError("video_url", "is required")
	}

	task, err := s.client.CreateIndexTask(ctx, videoURL)
	if err != nil {
		return nil, &domain.UpstreamError{Service: "twelvelabs", Err: err}
	}

	log.Info().Str("task_id", task.ID).Msg("video indexing started")
	return task, nil
}

// TaskStatus reports the current state of an indexing task.
func (s *VideoService) TaskStatus(ctx context.Context, taskID string) (*domain.IndexTask, error) {
	if taskID == "" {
		return nil, domain.NewValidationError("task_id", "is required")
	}

	task, err := s.client.GetTask(ctx, taskID)
	if err != nil {
		return nil, &domain.UpstreamError{Service: "twelvelabs", Err: err}
	}
	return task, nil
}
