package models

import "errors"

// Validation errors surfaced to callers as 4xx responses.
var (
	ErrEmptyOrder        = errors.New("order must contain items")
	ErrInvalidTotal      = errors.New("invalid order total")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("order already completed")
)
