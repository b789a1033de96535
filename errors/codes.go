package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Token errors — produced by the token codec and absorbed by the
// authentication pipeline; never returned verbatim to clients.
const (
	// ErrCodeTokenMalformed indicates the token string could not be decoded.
	ErrCodeTokenMalformed ErrorCode = "TOKEN_MALFORMED"
	// ErrCodeTokenSignatureInvalid indicates the token signature did not verify.
	ErrCodeTokenSignatureInvalid ErrorCode = "TOKEN_SIGNATURE_INVALID"
	// ErrCodeTokenExpired indicates the token is past its expiry.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
)

// Principal errors
const (
	// ErrCodePrincipalNotFound indicates no principal exists for the key.
	ErrCodePrincipalNotFound ErrorCode = "PRINCIPAL_NOT_FOUND"
	// ErrCodePrincipalInactive indicates the principal has been deactivated.
	ErrCodePrincipalInactive ErrorCode = "PRINCIPAL_INACTIVE"
	// ErrCodeDuplicateKey indicates a principal with the key already exists.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
	// ErrCodeCredentialMismatch indicates the supplied secret did not verify.
	ErrCodeCredentialMismatch ErrorCode = "CREDENTIAL_MISMATCH"
)

// Boundary errors — the only codes surfaced by the authorization gate.
const (
	// ErrCodeUnauthenticated indicates no validated identity is present.
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	// ErrCodeForbidden indicates the identity lacks the required authority.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeOriginNotAllowed indicates the request origin is not allow-listed.
	ErrCodeOriginNotAllowed ErrorCode = "ORIGIN_NOT_ALLOWED"
)

// Input and infrastructure errors
const (
	// ErrCodeInvalidInput indicates the request payload failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeStorageError indicates a storage-layer failure.
	ErrCodeStorageError ErrorCode = "STORAGE_ERROR"
	// ErrCodeConfigurationInvalid indicates a fatal startup misconfiguration.
	ErrCodeConfigurationInvalid ErrorCode = "CONFIGURATION_INVALID"
)

// retryableCodes are codes for which the operation may be retried.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeStorageError: true,
}

// IsRetryableCode reports whether the code represents a retryable condition.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
