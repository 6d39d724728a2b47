package handlers

import (
	"context"

	"github.com/NomadCrew/feedback-service/types"
	"github.com/stretchr/testify/mock"
)

type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) List(ctx context.Context) ([]*types.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Get(ctx context.Context, id string) (*types.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Create(ctx context.Context, input *types.FeedbackInput) (*types.Feedback, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Update(ctx context.Context, id string, input *types.FeedbackInput) (*types.Feedback, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Delete(ctx context.Context, id string) (*types.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}
