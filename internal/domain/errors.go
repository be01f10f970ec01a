package domain

import "errors"

// Common domain errors shared across entity types.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Entity-specific errors usually give more detail.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or nil.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidDifficulty is returned when a difficulty rating is not one
	// of easy, medium, or hard.
	ErrInvalidDifficulty = errors.New("invalid difficulty rating")

	// ErrUnauthorized is returned when an operation is not permitted for
	// the requesting user.
	ErrUnauthorized = errors.New("unauthorized operation")
)
