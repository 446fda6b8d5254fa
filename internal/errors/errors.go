// Package errors defines typed domain errors with captured stack traces.
//
// Pipeline components use them internally and log them; the tracker and
// detail handlers map them to HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeInvalidInput ErrorType = "INVALID_INPUT"
	ErrTypeInternal     ErrorType = "INTERNAL"
	ErrTypeUnavailable  ErrorType = "UNAVAILABLE"
	ErrTypeConflict     ErrorType = "CONFLICT"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

func InvalidInput(message string, err error) *DomainError {
	return New(ErrTypeInvalidInput, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

func Unavailable(message string, err error) *DomainError {
	return New(ErrTypeUnavailable, message, err)
}

// Conflict reports a write that lost a race with another request.
func Conflict(message string, err error) *DomainError {
	return New(ErrTypeConflict, message, err)
}

// Is reports whether err is a DomainError of the given type anywhere in its chain.
func Is(err error, errType ErrorType) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type == errType
	}
	return false
}

// HTTPStatus maps an error to the status code a handler should answer with.
func HTTPStatus(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Type {
	case ErrTypeNotFound:
		return http.StatusNotFound
	case ErrTypeInvalidInput:
		return http.StatusBadRequest
	case ErrTypeConflict:
		return http.StatusConflict
	case ErrTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to clients.
func PublicMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) && de.Type != ErrTypeInternal {
		return de.Message
	}
	return "internal server error"
}
