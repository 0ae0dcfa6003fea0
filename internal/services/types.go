package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorForbidden    ErrorCode = "forbidden"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error  { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AlternativeOption is a resolved answer option for one question: the
// alternative id plus its display text after the fallback chain
// (link text, alternative entity text, raw id).
type AlternativeOption struct {
	ID    string `json:"id"`
	Texto string `json:"texto"`
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// NewID returns the short document id used across collections.
func NewID() string { return shortID(12) }
