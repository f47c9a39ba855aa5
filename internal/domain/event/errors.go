package event

import (
	"errors"
	"fmt"
)

// Event domain errors.
var (
	ErrEventNotFound            = errors.New("event not found")
	ErrSlugTaken                = errors.New("event slug already taken")
	ErrOptimisticLockConflict   = errors.New("event was modified concurrently")
	ErrInvalidEvent             = errors.New("invalid event")
	ErrInvalidStatus            = errors.New("invalid event status")
	ErrUnauthorizedTransition   = errors.New("actor is not allowed to perform this transition")
	ErrInvalidModerationTarget  = errors.New("invalid moderation target")
	ErrCapacityBelowReservation = errors.New("capacity cannot be lower than reserved seats")
)

// ValidationError names the field that made a request invalid.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message, Err: ErrInvalidEvent}
}
