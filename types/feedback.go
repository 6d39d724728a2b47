package types

import "time"

// Field limits for feedback entries, counted in characters (runes).
const (
	FeedbackNameMaxLength    = 100
	FeedbackMessageMaxLength = 1000
)

// Feedback represents a feedback entry stored in the feedback collection.
type Feedback struct {
	ID        string    `json:"id" example:"6f1c2b9e-3d4a-4c55-9a0e-2f1f5b7c8d90"`
	Name      string    `json:"name" example:"Alice"`
	Message   string    `json:"message" example:"Great course"`
	CreatedAt time.Time `json:"createdAt" example:"2024-01-01T00:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" example:"2024-01-01T00:00:00Z"`
}

// FeedbackInput is the request body for creating or updating feedback.
// Fields are trimmed before the validate rules run.
type FeedbackInput struct {
	Name    string `json:"name" validate:"required,max=100" example:"Alice"`
	Message string `json:"message" validate:"required,max=1000" example:"Great course"`
}

// FeedbackUpdate carries the mutable fields of a feedback entry.
// ID and CreatedAt are never part of an update.
type FeedbackUpdate struct {
	Name      string
	Message   string
	UpdatedAt time.Time
}
