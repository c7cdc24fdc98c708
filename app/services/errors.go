package services

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/repositories"
)

// Error is a service failure that maps to an HTTP status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string   { return e.Message }
func (e *Error) HTTPStatus() int { return e.Status }

// Is matches any *Error with the same status, so errors.Is(err, ErrNotFound)
// holds for every NotFound variant.
func (e *Error) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Status == e.Status
}

var (
	ErrNotFound     = &Error{Status: http.StatusNotFound, Message: "Not found"}
	ErrForbidden    = &Error{Status: http.StatusForbidden, Message: "Forbidden"}
	ErrUnauthorized = &Error{Status: http.StatusUnauthorized, Message: "Unauthorized"}
)

// NotFound names the missing resource: "Product not found".
func NotFound(what string) error {
	return &Error{Status: http.StatusNotFound, Message: what + " not found"}
}

func Unauthorized(msg string) error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// ValidationError carries field errors; it renders as 422.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for _, msg := range e.Fields {
		return msg
	}
	return "Validation failed"
}

func (e *ValidationError) ValidationErrors() map[string]string { return e.Fields }

// Invalid builds a single-field ValidationError.
func Invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// missing turns gorm's record-not-found into NotFound(what).
func missing(err error, what string) error {
	if repositories.IsNotFound(err) {
		return NotFound(what)
	}
	return err
}

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
