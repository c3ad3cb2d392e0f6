package common

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service unwraps to exactly one of these,
// and the HTTP layer maps the kind to a status code.
var (
	ErrValidation    = errors.New("validation failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrPermission    = errors.New("permission denied")
	ErrNotFound      = errors.New("resource not found")
	ErrState         = errors.New("invalid state")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
)

// AppError carries a caller-facing message and the kind it belongs to
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match the kind sentinel
func (e *AppError) Unwrap() error {
	return e.Kind
}

func newError(kind error, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

// Validation builds a validation error with a formatted message
func Validation(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

// Permission builds a permission error with a formatted message
func Permission(format string, args ...any) error {
	return newError(ErrPermission, fmt.Sprintf(format, args...))
}

// State builds an invalid-state error with a formatted message
func State(format string, args ...any) error {
	return newError(ErrState, fmt.Sprintf(format, args...))
}

// Business errors
var (
	// Article errors
	ErrArticleNotFound     = newError(ErrNotFound, "article not found")
	ErrArticleNotPublished = newError(ErrState, "article is not published")
	ErrArticleModified     = newError(ErrConflict, "article was modified concurrently")
	ErrArticleNotEditable  = newError(ErrPermission, "article can only be edited in draft or review_failed state")

	// Building errors
	ErrBuildingNotFound = newError(ErrNotFound, "building not found")
	ErrNoModelFile      = newError(ErrState, "building has no model file")

	// Comment errors
	ErrCommentNotFound = newError(ErrNotFound, "comment not found")
	ErrParentMismatch  = newError(ErrValidation, "parent comment belongs to a different article")

	// Media errors
	ErrMediaUnavailable = newError(ErrState, "media storage is not configured")

	// Ledger errors
	ErrAlreadyLiked = newError(ErrAlreadyExists, "already liked")
	ErrNotLiked     = newError(ErrNotFound, "not liked")

	// Auth errors
	ErrLoginRequired = newError(ErrUnauthorized, "login required")
	ErrAdminRequired = newError(ErrPermission, "admin privileges required")
	ErrNotOwner      = newError(ErrPermission, "only the owner can perform this action")
)
