package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface lets the transport layer translate domain
// failures without type-switching on every concrete error.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// NotFoundError indicates a referenced entity does not exist
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// BusinessRuleError indicates a named business rule was violated
	// (duplicate application, edit of a locked section, bad scan path)
	BusinessRuleError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *BusinessRuleError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *BusinessRuleError) StatusCode() int { return http.StatusBadRequest }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *BusinessRuleError) Is(target error) bool { return target == ErrValidation }

// ConflictError represents a uniqueness conflict with details about the
// existing resource. Repositories return it when a storage-level unique
// constraint fires, turning check-then-insert races into a clean
// Created-vs-AlreadyExists outcome.
type ConflictError struct {
	Message      string
	ResourceType string // opportunity, application, asset
	ResourceID   string // ID of the existing resource, when known
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
