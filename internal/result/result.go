package result

import (
	"errors"
	"fmt"
	"net/http"
)

type Status int

const (
	StatusOK Status = iota
	StatusCreated
	StatusBadRequest
	StatusUnauthorized
	StatusNotFound
	StatusConflict
	StatusInternal
)

type Class int

const (
	ClassSuccess Class = iota
	ClassClientError
	ClassServerError
)

const internalMessage = "internal server error"

func (s Status) HTTPCode() int {
	switch s {
	case StatusOK:
		return http.StatusOK
	case StatusCreated:
		return http.StatusCreated
	case StatusBadRequest:
		return http.StatusBadRequest
	case StatusUnauthorized:
		return http.StatusUnauthorized
	case StatusNotFound:
		return http.StatusNotFound
	case StatusConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s Status) Class() Class {
	switch s {
	case StatusOK, StatusCreated:
		return ClassSuccess
	case StatusInternal:
		return ClassServerError
	default:
		return ClassClientError
	}
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusCreated:
		return "created"
	case StatusBadRequest:
		return "bad_request"
	case StatusUnauthorized:
		return "unauthorized"
	case StatusNotFound:
		return "not_found"
	case StatusConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Result is the outcome of a service operation: a status, and either a
// payload (success) or a message (failure).
type Result[T any] struct {
	Status  Status
	Data    T
	Message string
}

func (r Result[T]) OK() bool { return r.Status.Class() == ClassSuccess }

func OK[T any](data T, msg string) Result[T] {
	return Result[T]{Status: StatusOK, Data: data, Message: msg}
}

func Created[T any](data T, msg string) Result[T] {
	return Result[T]{Status: StatusCreated, Data: data, Message: msg}
}

func Fail[T any](status Status, msg string) Result[T] {
	return Result[T]{Status: status, Message: msg}
}

func Internal[T any]() Result[T] {
	return Result[T]{Status: StatusInternal, Message: internalMessage}
}

// Violation is a domain rule failure raised inside a unit of work. Returning
// it from a transaction callback rolls the transaction back.
type Violation struct {
	Status  Status
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Status, v.Message)
}

func Violate(status Status, msg string) *Violation {
	return &Violation{Status: status, Message: msg}
}

// AsViolation reports whether err carries a domain violation.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// FromViolation converts a violation into a failed Result of any payload type.
func FromViolation[T any](v *Violation) Result[T] {
	return Fail[T](v.Status, v.Message)
}
