package services

import (
	"context"

	"github.com/NomadCrew/feedback-service/types"
	"github.com/stretchr/testify/mock"
)

type MockFeedbackStore struct {
	mock.Mock
}

func (m *MockFeedbackStore) ListFeedback(ctx context.Context) ([]*types.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) GetFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) CreateFeedback(ctx context.Context, fb *types.Feedback) (*types.Feedback, error) {
	args := m.Called(ctx, fb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) UpdateFeedback(ctx context.Context, id string, update *types.FeedbackUpdate) (*types.Feedback, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockFeedbackStore) Close() error {
	return m.Called().Error(0)
}
