package store

import (
	"context"

	"github.com/NomadCrew/feedback-service/types"
)

// FeedbackStore is the persistence adapter for the feedback collection.
// Implementations provide per-record atomicity for every operation; callers
// never need more than one record per call.
type FeedbackStore interface {
	// ListFeedback returns every entry ordered by CreatedAt descending (ID
	// descending on ties). An empty collection yields an empty, non-nil slice.
	ListFeedback(ctx context.Context) ([]*types.Feedback, error)
	// GetFeedback returns ErrNotFound when no entry has the given id.
	GetFeedback(ctx context.Context, id string) (*types.Feedback, error)
	// CreateFeedback inserts fb as-is; ID and timestamps are assigned by the caller.
	CreateFeedback(ctx context.Context, fb *types.Feedback) (*types.Feedback, error)
	// UpdateFeedback overwrites name, message and updatedAt and returns the stored entry.
	UpdateFeedback(ctx context.Context, id string, update *types.FeedbackUpdate) (*types.Feedback, error)
	// DeleteFeedback removes the entry and returns it as it was before removal.
	DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error)
	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
	// Close releases the underlying connection pool.
	Close() error
}
