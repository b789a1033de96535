// Package errors provides unified error handling for the service.
// It implements structured error types with error codes, HTTP status mapping,
// and retryable detection.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// Unauthenticated creates a new AppError for a request with no validated identity.
// The message is deliberately generic.
func Unauthenticated() *AppError {
	return &AppError{
		Code: ErrCodeUnauthenticated, Message: "Authentication required.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// Forbidden creates a new AppError for an identity lacking the required authority.
func Forbidden() *AppError {
	return &AppError{
		Code: ErrCodeForbidden, Message: "You don't have permission to perform this action.",
		HTTPStatus: http.StatusForbidden, Retryable: false,
	}
}

// InvalidCredentials creates a new AppError for a failed login attempt.
// The same error is returned whether the key or the secret was wrong,
// so callers cannot enumerate accounts.
func InvalidCredentials() *AppError {
	return &AppError{
		Code: ErrCodeCredentialMismatch, Message: "Invalid credentials.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// OriginNotAllowed creates a new AppError for a cross-origin request from a
// non-allow-listed origin.
func OriginNotAllowed() *AppError {
	return &AppError{
		Code: ErrCodeOriginNotAllowed, Message: "Origin not allowed.",
		HTTPStatus: http.StatusForbidden, Retryable: false,
	}
}

// TokenMalformed creates a new AppError for an undecodable token.
func TokenMalformed() *AppError {
	return &AppError{
		Code: ErrCodeTokenMalformed, Message: "Malformed token.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// TokenSignatureInvalid creates a new AppError for a token whose signature
// did not verify.
func TokenSignatureInvalid() *AppError {
	return &AppError{
		Code: ErrCodeTokenSignatureInvalid, Message: "Invalid token signature.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// TokenExpired creates a new AppError for an expired token.
func TokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "Your session has expired. Please log in again.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// PrincipalNotFound creates a new AppError for a missing principal.
func PrincipalNotFound(key string) *AppError {
	return &AppError{
		Code: ErrCodePrincipalNotFound, Message: "The requested principal was not found.",
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"key": key},
	}
}

// PrincipalInactive creates a new AppError for a deactivated principal.
func PrincipalInactive() *AppError {
	return &AppError{
		Code: ErrCodePrincipalInactive, Message: "This account has been deactivated.",
		HTTPStatus: http.StatusForbidden, Retryable: false,
	}
}

// DuplicateKey creates a new AppError for a registration with an existing key.
func DuplicateKey() *AppError {
	return &AppError{
		Code: ErrCodeDuplicateKey, Message: "An account with these details already exists.",
		HTTPStatus: http.StatusConflict, Retryable: false,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// StorageError creates a new AppError for a storage-layer failure.
func StorageError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeStorageError, Message: "A storage error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}

// ConfigurationInvalid creates a new AppError for a fatal startup
// misconfiguration. It must never be produced per-request.
func ConfigurationInvalid(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConfigurationInvalid, Message: fmt.Sprintf("Invalid configuration: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}
