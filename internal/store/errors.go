package store

import "errors"

// Error Handling Guidelines:
// - Stores: return ErrNotFound for missing records, wrap everything else with fmt.Errorf("context: %w", err)
// - Services: translate into apperrors.* for the handlers

// ErrNotFound indicates that a requested feedback entry was not found.
var ErrNotFound = errors.New("resource not found")
