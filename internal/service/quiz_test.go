package service

import (
	"context"
	"testing"

	"github.com/JacobChan182/NoMoreTears/internal/config"
	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizService_LectureContext(t *testing.T) {
	lectures := new(MockLectureRepository)
	svc := NewQuizService(lectures, config.GeminiConfig{APIKey: "k", Model: "gemini-2.5-flash"})
	ctx := context.Background()

	lecture := &domain.Lecture{
		LectureID: "lec1",
		Title:     "Sorting",
		Segments: []domain.Segment{
			{Title: "Quicksort", Summary: "Partition-based sorting."},
			{Title: "Mergesort", Summary: "Divide and conquer."},
		},
	}
	lectures.On("GetLecture", ctx, "lec1").Return(lecture, nil).Once()

	text, err := svc.LectureContext(ctx, "lec1")
	require.NoError(t, err)
	assert.Contains(t, text, "Topic: Quicksort")
	assert.Contains(t, text, "Summary: Divide and conquer.")

	// second call is served from cache, repo hit only once
	_, err = svc.LectureContext(ctx, "lec1")
	require.NoError(t, err)
	lectures.AssertNumberOfCalls(t, "GetLecture", 1)
}

func TestQuizService_LectureContextErrors(t *testing.T) {
	lectures := new(MockLectureRepository)
	svc := NewQuizService(lectures, config.GeminiConfig{APIKey: "k"})
	ctx := context.Background()

	t.Run("missing lecture id", func(t *testing.T) {
		var vErr *domain.ValidationError
		_, err := svc.LectureContext(ctx, "")
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown lecture", func(t *testing.T) {
		lectures.On("GetLecture", ctx, "nope").Return(nil, domain.ErrLectureNotFound).Once()
		_, err := svc.LectureContext(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrLectureNotFound)
	})

	t.Run("no segments yet", func(t *testing.T) {
		lectures.On("GetLecture", ctx, "fresh").Return(&domain.Lecture{LectureID: "fresh"}, nil).Once()
		_, err := svc.LectureContext(ctx, "fresh")
		assert.ErrorContains(t, err, "no segments")
	})
}

func TestQuizService_GenerateQuizUnconfigured(t *testing.T) {
	svc := NewQuizService(new(MockLectureRepository), config.GeminiConfig{})

	var cfgErr *domain.ConfigurationError
	_, err := svc.GenerateQuiz(context.Background(), "lec1", 5)
	assert.ErrorAs(t, err, &cfgErr)
}
