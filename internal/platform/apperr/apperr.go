// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package apperr defines the centralized error handling framework for Primaria.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: Dedicated constructors for the authentication, CSRF, and upload
    failure families so that handlers never invent ad-hoc codes.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the Primaria API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "ACCOUNT_LOCKED").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Announcement") // Returns "Announcement not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Authentication Failures
//
// The login and session failure family. Unknown-username and wrong-password
// cases MUST both surface through [BadCredentials] so that account existence
// is never leaked to the caller.

// NotLoggedIn creates a 401 [AppError] for requests without a valid session.
func NotLoggedIn() *AppError {
	return &AppError{
		Code:       "NOT_LOGGED_IN",
		Message:    "Authentication required",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// SessionExpired creates a 401 [AppError] for sessions past the inactivity timeout.
func SessionExpired() *AppError {
	return &AppError{
		Code:       "SESSION_EXPIRED",
		Message:    "Your session has expired. Please log in again.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// SecurityViolation creates a 401 [AppError] for sessions failing the
// remote-address fingerprint check.
func SecurityViolation() *AppError {
	return &AppError{
		Code:       "SECURITY_VIOLATION",
		Message:    "Session terminated for security reasons. Please log in again.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// AccountLocked creates a 401 [AppError] for accounts inside the lockout window.
func AccountLocked(retryAfterMinutes int) *AppError {
	return &AppError{
		Code:       "ACCOUNT_LOCKED",
		Message:    fmt.Sprintf("Account temporarily locked. Try again in %d minutes.", retryAfterMinutes),
		HTTPStatus: http.StatusUnauthorized,
	}
}

// AccountInactive creates a 401 [AppError] for deactivated accounts.
func AccountInactive() *AppError {
	return &AppError{
		Code:       "ACCOUNT_INACTIVE",
		Message:    "This account is inactive",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// BadCredentials creates a 401 [AppError] with a deliberately generic message.
func BadCredentials() *AppError {
	return &AppError{
		Code:       "BAD_CREDENTIALS",
		Message:    "Invalid username or password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// # CSRF Failures

// CsrfMissing creates a 403 [AppError] for mutating requests without a token.
func CsrfMissing() *AppError {
	return &AppError{
		Code:       "CSRF_MISSING",
		Message:    "Missing security token",
		HTTPStatus: http.StatusForbidden,
	}
}

// CsrfExpired creates a 403 [AppError] for tokens past their validity window.
func CsrfExpired() *AppError {
	return &AppError{
		Code:       "CSRF_EXPIRED",
		Message:    "Security token expired. Refresh the page and try again.",
		HTTPStatus: http.StatusForbidden,
	}
}

// CsrfMismatch creates a 403 [AppError] for unknown tokens or tokens bound to
// a different session.
func CsrfMismatch() *AppError {
	return &AppError{
		Code:       "CSRF_MISMATCH",
		Message:    "Invalid security token",
		HTTPStatus: http.StatusForbidden,
	}
}

// # Upload Failures
//
// Upload errors are fully descriptive. They reveal no sensitive state, so the
// uploader is told exactly which constraint failed.

// UploadFailure creates a 400 [AppError] with the given upload failure code.
func UploadFailure(code, msg string) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// Is reports whether err carries the given machine-readable code.
func Is(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
