package service

import (
	"context"

	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockAssistantClient mocks the Backboard client
type MockAssistantClient struct {
	mock.Mock
}

func (m *MockAssistantClient) CreateAssistant(ctx context.Context, name, description string) (string, error) {
	args := m.Called(ctx, name, description)
	return args.String(0), args.Error(1)
}

func (m *MockAssistantClient) CreateThread(ctx context.Context, assistantID string) (string, error) {
	args := m.Called(ctx, assistantID)
	return args.String(0), args.Error(1)
}

func (m *MockAssistantClient) SendMessage(ctx context.Context, threadID, content, provider, model, memoryMode string) (*domain.AssistantReply, error) {
	args := m.Called(ctx, threadID, content, provider, model, memoryMode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssistantReply), args.Error(1)
}

// MockVideoClient mocks the TwelveLabs client
type MockVideoClient struct {
	mock.Mock
}

func (m *MockVideoClient) CreateIndexTask(ctx context.Context, videoURL string) (*domain.IndexTask, error) {
	args := m.Called(ctx, videoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IndexTask), args.Error(1)
}

func (m *MockVideoClient) GetTask(ctx context.Context, taskID string) (*domain.IndexTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IndexTask), args.Error(1)
}

// MockLectureRepository mocks the lecture lookup
type MockLectureRepository struct {
	mock.Mock
}

func (m *MockLectureRepository) GetLecture(ctx context.Context, lectureID string) (*domain.Lecture, error) {
	args := m.Called(ctx, lectureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lecture), args.Error(1)
}
