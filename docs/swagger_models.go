package docs

import (
	"time"
)

// This file contains models used by Swagger documentation
// It doesn't affect the actual application logic, just documentation

// FeedbackResponse is used for Swagger documentation
// @Description A single feedback entry wrapped in the response envelope
type FeedbackResponse struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message,omitempty" example:"Feedback submitted successfully"`
	Data    FeedbackItem `json:"data"`
}

// FeedbackListResponse is used for Swagger documentation
// @Description All feedback entries, newest first
type FeedbackListResponse struct {
	Success bool           `json:"success" example:"true"`
	Count   int            `json:"count" example:"1"`
	Data    []FeedbackItem `json:"data"`
}

// FeedbackItem is used for Swagger documentation
type FeedbackItem struct {
	// Server-assigned identifier
	ID string `json:"id" example:"6f1c2b9e-3d4a-4c55-9a0e-2f1f5b7c8d90"`

	// Author name, 1 to 100 characters
	Name string `json:"name" example:"Alice"`

	// Feedback text, 1 to 1000 characters
	Message string `json:"message" example:"Great course"`

	CreatedAt time.Time `json:"createdAt" example:"2024-01-01T00:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" example:"2024-01-01T00:00:00Z"`
}

// ErrorResponse is used for Swagger documentation
// @Description Failed request envelope
type ErrorResponse struct {
	Success bool `json:"success" example:"false"`

	// Human readable message
	Message string `json:"message" example:"Please provide both name and message"`

	// Machine readable code: VALIDATION_ERROR, NOT_FOUND, DATABASE_ERROR or SERVER_ERROR
	Error string `json:"error" example:"VALIDATION_ERROR"`

	Details string `json:"details,omitempty" example:"name is required"`
}
