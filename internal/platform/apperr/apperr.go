// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package apperr defines the centralized error taxonomy for the Parsight client.

It provides a rich error type that bridges the gap between low-level transport
failures and the user-facing states the views render.

Architecture:

  - AppError: A struct carrying a machine-readable Code and a display message.
  - Session errors: DECODE_ERROR and TOKEN_EXPIRED both resolve to a logout.
  - Transport errors: UNAUTHORIZED forces a logout and redirect, FORBIDDEN is
    surfaced to the caller unchanged, UPSTREAM_ERROR and NETWORK_ERROR become
    inline view error states.

Every error that crosses a component boundary should be wrapped as an
[AppError] so callers can branch on Code instead of string matching.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	// CodeDecode marks a malformed token or an unparseable payload.
	CodeDecode = "DECODE_ERROR"
	// CodeExpired marks a token whose expiry claim is in the past.
	CodeExpired = "TOKEN_EXPIRED"
	// CodeUnauthorized marks an HTTP 401: the credential is invalid or expired.
	CodeUnauthorized = "UNAUTHORIZED"
	// CodeForbidden marks an HTTP 403: the credential is valid but lacks privilege.
	CodeForbidden = "FORBIDDEN"
	// CodeUpstream marks any other non-success response from the backend.
	CodeUpstream = "UPSTREAM_ERROR"
	// CodeNetwork marks a transport failure before any response arrived.
	CodeNetwork = "NETWORK_ERROR"
	// CodeValidation marks client-side input validation failures.
	CodeValidation = "VALIDATION_ERROR"
	// CodeNotFound marks a missing resource (used by the stub backend).
	CodeNotFound = "NOT_FOUND"
	// CodeConflict marks a duplicate-identity conflict (used by the stub backend).
	CodeConflict = "CONFLICT"
	// CodeInternal marks an unexpected client-side failure.
	CodeInternal = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the Parsight client.
//
// It carries a machine-readable code, a display-safe message, the upstream
// HTTP status where one exists, and an optional slice of field-level
// validation errors.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "UNAUTHORIZED").
	Code string `json:"code"`
	// Message is a human-readable description safe to render.
	Message string `json:"error"`
	// HTTPStatus is the upstream HTTP status, or zero for local errors.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, kept for logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the input field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the display message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Session Errors

// Decode creates a DECODE_ERROR for a malformed or claim-incomplete token.
// Session initialization treats it as a logout.
func Decode(cause error) *AppError {
	return &AppError{
		Code:    CodeDecode,
		Message: "Credential could not be decoded",
		Cause:   cause,
	}
}

// Expired creates a TOKEN_EXPIRED error. Treated as a logout.
func Expired() *AppError {
	return &AppError{
		Code:    CodeExpired,
		Message: "Credential has expired",
	}
}

// # Transport Errors

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Upstream creates an UPSTREAM_ERROR for a non-success backend response
// outside the authorization categories.
func Upstream(status int, msg string) *AppError {
	if msg == "" {
		msg = fmt.Sprintf("Backend returned status %d", status)
	}
	return &AppError{
		Code:       CodeUpstream,
		Message:    msg,
		HTTPStatus: status,
	}
}

// Network creates a NETWORK_ERROR for a request that never produced a response.
func Network(cause error) *AppError {
	return &AppError{
		Code:    CodeNetwork,
		Message: "Could not reach the backend",
		Cause:   cause,
	}
}

// # Local Errors

// ValidationError creates a VALIDATION_ERROR with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicate-identity violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// Internal creates an INTERNAL_ERROR wrapping an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err resolves to an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
