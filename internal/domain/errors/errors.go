// Package errors defines the application error taxonomy. Every error that can
// reach a client is declared here with its HTTP status code and the exact
// message the client sees; everything else is rendered as a generic 500.
package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Request validation errors
	ErrNotJSON = NewBaseError(
		http.StatusBadRequest,
		"NOT_JSON",
		"Request must be JSON",
		"",
	)

	ErrMissingCredentials = NewBaseError(
		http.StatusBadRequest,
		"MISSING_CREDENTIALS",
		"Email and password are required",
		"",
	)

	ErrPasswordTooShort = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_TOO_SHORT",
		"Password must be at least 8 characters long",
		"",
	)

	ErrMissingRefreshToken = NewBaseError(
		http.StatusBadRequest,
		"MISSING_REFRESH_TOKEN",
		"Refresh token is required",
		"",
	)

	// Authentication errors
	ErrEmailAlreadyRegistered = NewBaseError(
		http.StatusConflict,
		"EMAIL_ALREADY_REGISTERED",
		"Email already registered",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		"",
	)

	ErrMissingToken = NewBaseError(
		http.StatusUnauthorized,
		"MISSING_TOKEN",
		"Missing authentication token",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		"Token has expired",
		"",
	)

	ErrInvalidToken = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_TOKEN",
		"Invalid authentication token",
		"",
	)

	ErrInvalidTokenType = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_TOKEN_TYPE",
		"Invalid token type",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"Invalid refresh token",
		"",
	)

	ErrRefreshTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_EXPIRED",
		"Refresh token has expired",
		"",
	)

	ErrUserNotFound = NewBaseError(
		http.StatusUnauthorized,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	// String store errors
	ErrNoStringProvided = NewBaseError(
		http.StatusBadRequest,
		"NO_STRING_PROVIDED",
		"No string provided",
		"",
	)

	ErrStringTooLong = NewBaseError(
		http.StatusBadRequest,
		"STRING_TOO_LONG",
		"String exceeds maximum length",
		"",
	)

	ErrStringWhitespace = NewBaseError(
		http.StatusBadRequest,
		"STRING_WHITESPACE",
		"String cannot be empty or just whitespace",
		"",
	)

	ErrNoStringsFound = NewBaseError(
		http.StatusNotFound,
		"NO_STRINGS_FOUND",
		"No strings found",
		"",
	)

	// Infrastructure errors
	ErrInternal = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// NewDatabaseExecuteError wraps a database error as a generic internal error.
// The driver error text only travels in the details, never in the message.
func NewDatabaseExecuteError(err error, message string) error {
	return errors.Wrap(ErrInternal.WithDetails(err.Error()), message)
}
