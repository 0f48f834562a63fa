// Package errorbank defines the error taxonomy shared by the service layer
// and the transports. Services return AppErrors; the response builder maps
// them onto status codes without inspecting messages.
package errorbank

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

// Kind categorizes an application error.
type Kind string

const (
	KindBadRequest          Kind = "bad_request"
	KindConflict            Kind = "conflict"
	KindForbidden           Kind = "forbidden"
	KindNotFound            Kind = "not_found"
	KindUnprocessableEntity Kind = "unprocessable_entity"
	KindInternal            Kind = "internal"
)

var httpStatus = map[Kind]int{
	KindBadRequest:          http.StatusBadRequest,
	KindConflict:            http.StatusConflict,
	KindForbidden:           http.StatusForbidden,
	KindNotFound:            http.StatusNotFound,
	KindUnprocessableEntity: http.StatusUnprocessableEntity,
	KindInternal:            http.StatusInternalServerError,
}

var grpcStatus = map[Kind]codes.Code{
	KindBadRequest:          codes.InvalidArgument,
	KindConflict:            codes.AlreadyExists,
	KindForbidden:           codes.PermissionDenied,
	KindNotFound:            codes.NotFound,
	KindUnprocessableEntity: codes.FailedPrecondition,
	KindInternal:            codes.Internal,
}

// AppError carries a kind, a user-facing message, optional detail metadata,
// and the wrapped cause.
type AppError struct {
	kind    Kind
	message string
	details map[string]any
	cause   error
}

// Option mutates an AppError during construction.
type Option func(*AppError)

// WithCause attaches an underlying error.
func WithCause(err error) Option {
	return func(e *AppError) { e.cause = err }
}

// WithDetail adds a single named detail value.
func WithDetail(key string, value any) Option {
	return func(e *AppError) {
		if e.details == nil {
			e.details = make(map[string]any)
		}
		e.details[key] = value
	}
}

// WithDetails merges multiple detail values.
func WithDetails(details map[string]any) Option {
	return func(e *AppError) {
		if len(details) == 0 {
			return
		}
		if e.details == nil {
			e.details = make(map[string]any)
		}
		for k, v := range details {
			e.details[k] = v
		}
	}
}

// New constructs an AppError. An empty message falls back to the kind name.
func New(kind Kind, message string, opts ...Option) *AppError {
	if message == "" {
		message = string(kind)
	}
	e := &AppError{kind: kind, message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Per-kind constructors.

func BadRequest(message string, opts ...Option) *AppError {
	return New(KindBadRequest, message, opts...)
}

func Conflict(message string, opts ...Option) *AppError {
	return New(KindConflict, message, opts...)
}

func Forbidden(message string, opts ...Option) *AppError {
	return New(KindForbidden, message, opts...)
}

func NotFound(message string, opts ...Option) *AppError {
	return New(KindNotFound, message, opts...)
}

func Unprocessable(message string, opts ...Option) *AppError {
	return New(KindUnprocessableEntity, message, opts...)
}

func Internal(message string, opts ...Option) *AppError {
	return New(KindInternal, message, opts...)
}

// From coerces any error into an AppError. Unrecognized errors become
// internal errors with the original as cause, so transports never leak raw
// driver messages.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var e *AppError
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal error", WithCause(err))
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Kind returns the error category.
func (e *AppError) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

// Message returns the human-readable message.
func (e *AppError) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Details returns optional metadata about the error.
func (e *AppError) Details() map[string]any {
	if e == nil {
		return nil
	}
	return e.details
}

// StatusCode resolves the HTTP status for the error kind.
func (e *AppError) StatusCode() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	if status, ok := httpStatus[e.kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GRPCCode maps the error kind onto a gRPC status code.
func (e *AppError) GRPCCode() codes.Code {
	if e == nil {
		return codes.Internal
	}
	if code, ok := grpcStatus[e.kind]; ok {
		return code
	}
	return codes.Internal
}
