package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// The settlement operations surface a small, fixed error taxonomy so transport
// code can map failures to HTTP statuses without string matching:
// NotFoundError -> 404; ConflictError, InsufficientStockError,
// ValidationError -> 400; anything else -> 500.

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(message string) error {
	return &NotFoundError{Message: message}
}

// ConflictError covers duplicates and already-processed guards
// (duplicate lot name, lots already materialized, reused transaction id).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(message string) error {
	return &ConflictError{Message: message}
}

type InsufficientStockError struct {
	Message string
}

func (e *InsufficientStockError) Error() string { return e.Message }

func NewInsufficientStockError(message string) error {
	return &InsufficientStockError{Message: message}
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsBusinessError reports whether err belongs to the caller-resolvable part of
// the taxonomy (HTTP 400).
func IsBusinessError(err error) bool {
	var conflict *ConflictError
	var insufficient *InsufficientStockError
	var validation *ValidationError
	return errors.As(err, &conflict) || errors.As(err, &insufficient) || errors.As(err, &validation)
}

func IsNotFoundError(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound) || errors.Is(err, ErrorRecordNotFound)
}
