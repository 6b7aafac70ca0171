// Package apperror defines the application error taxonomy and its mapping to
// HTTP status codes. Every handler converts failures into an *AppError at the
// request boundary so API error bodies stay uniform.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database.
	DatabaseError
	// ConfigError represents an error in application configuration.
	ConfigError
	// AuthError represents an authentication failure (no session, bad credentials).
	AuthError
	// NotFoundError represents a missing resource. Records outside the
	// requester's ownership scope surface as this type, never as a
	// permission error.
	NotFoundError
	// ValidationError represents an input validation failure, optionally
	// carrying per-field messages.
	ValidationError
	// BadRequestError represents a generic malformed request.
	BadRequestError
	// InternalError represents an unexpected server failure.
	InternalError
)

// AppError is the application error type. It wraps an optional underlying
// error and, for validation failures, a per-field message map.
type AppError struct {
	Type    ErrorType
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is / errors.As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithFields attaches per-field validation messages and returns the error.
func (e *AppError) WithFields(fields map[string][]string) *AppError {
	e.Fields = fields
	return e
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case DatabaseError, ConfigError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError of the given type.
func NewAppError(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlying}
}

// NewDatabaseError creates a new DatabaseError.
func NewDatabaseError(message string, underlying error) *AppError {
	return NewAppError(DatabaseError, message, underlying)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, underlying error) *AppError {
	return NewAppError(ConfigError, message, underlying)
}

// NewAuthError creates a new AuthError.
func NewAuthError(message string, underlying error) *AppError {
	return NewAppError(AuthError, message, underlying)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(message string, underlying error) *AppError {
	return NewAppError(NotFoundError, message, underlying)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string, underlying error) *AppError {
	return NewAppError(ValidationError, message, underlying)
}

// NewBadRequestError creates a new BadRequestError.
func NewBadRequestError(message string, underlying error) *AppError {
	return NewAppError(BadRequestError, message, underlying)
}

// NewInternalError creates a new InternalError.
func NewInternalError(message string, underlying error) *AppError {
	return NewAppError(InternalError, message, underlying)
}

// ErrorResponse is the JSON body written for any failed request. Fields is
// populated only for validation errors.
type ErrorResponse struct {
	Error  string              `json:"error" example:"A description of the error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ToResponse converts an AppError to its API representation. Only the
// user-facing message and field details are exposed, never the underlying
// error.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Fields: e.Fields}
}

// FromError converts a generic error to an *AppError if it is one.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthError reports whether err is an AuthError.
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}
