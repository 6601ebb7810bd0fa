package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopfront/storefront/pkg/orm"
)

// Kind classifies a service failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
)

// Error is returned by every service method that fails for a reason the
// caller should see. Anything else is an internal error.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func validationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: map[string]string{field: message}}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// lookupError turns gorm's not-found into a NotFound error and anything else
// into an internal one.
func lookupError(err error, missing, failed string) error {
	if orm.IsNotFound(err) {
		return notFound(missing)
	}
	return internal(failed, err)
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
