package services

import (
	"errors"
	"fmt"
)

// Workflow errors. Controllers map these onto HTTP statuses: validation 400,
// conflicts 400, missing entities 404, everything else 500.
var (
	ErrAlreadyAssigned = errors.New("reviewer already assigned to this paper")
	ErrNoAvailableSlot = errors.New("no available slot")
	ErrNotFound        = errors.New("not found")
	ErrNotAssigned     = errors.New("paper not assigned to this reviewer")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrAlreadyNotified = errors.New("notification already sent")
	ErrNoDecision      = errors.New("no admin decision status found for this paper")
	ErrAlreadyExists   = errors.New("already exists")
)

// ValidationError reports malformed input with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
