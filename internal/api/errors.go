package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error so the error middleware can pick
// the right HTTP status without handlers doing it case by case.
type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindNotFound
	KindAlreadyExists
	KindUnauthorized
	KindForbidden
	KindConflict
	KindGatewayUnavailable
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error    { return NewError(KindValidation, message) }
func NotFound(message string) *Error      { return NewError(KindNotFound, message) }
func AlreadyExists(message string) *Error { return NewError(KindAlreadyExists, message) }
func Unauthorized(message string) *Error  { return NewError(KindUnauthorized, message) }
func Conflict(message string) *Error      { return NewError(KindConflict, message) }

// StatusFor maps an error to its HTTP status code. Unknown errors are 500.
func StatusFor(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindGatewayUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor returns the client-safe message for an error. Internal errors
// get a generic message so wrapped causes don't leak.
func MessageFor(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "internal server error"
	}
	if appErr.Kind == KindServer {
		return "internal server error"
	}
	return appErr.Message
}
