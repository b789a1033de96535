package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad field", http.StatusBadRequest)
	if got := err.Error(); got != "INVALID_INPUT: bad field" {
		t.Errorf("Error() = %q", got)
	}

	withCause := Internal(fmt.Errorf("disk full"))
	if got := withCause.Error(); !strings.Contains(got, "disk full") {
		t.Errorf("Error() = %q, want cause included", got)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := StorageError(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is must reach the cause through Unwrap")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Forbidden()
	wrapped := fmt.Errorf("handler: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok || got.Code != ErrCodeForbidden {
		t.Fatalf("AsAppError(wrapped) = %v, %v", got, ok)
	}
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("plain error must not convert")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(Unauthenticated()); got != ErrCodeUnauthenticated {
		t.Errorf("CodeOf = %s", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf(plain) = %s, want INTERNAL", got)
	}
}

// Client-facing failure payloads never leak the internal cause.
func TestToResponse_HidesCause(t *testing.T) {
	err := StorageError(fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused"))
	raw, jsonErr := json.Marshal(err.ToResponse())
	if jsonErr != nil {
		t.Fatalf("marshal: %v", jsonErr)
	}
	if strings.Contains(string(raw), "10.0.0.5") {
		t.Errorf("response leaks cause: %s", raw)
	}
	if !strings.Contains(string(raw), string(ErrCodeStorageError)) {
		t.Errorf("response missing code: %s", raw)
	}
}

// The credential-failure constructors share one message so a caller cannot
// tell an unknown key from a wrong secret.
func TestGenericMessages(t *testing.T) {
	a := InvalidCredentials()
	b := InvalidCredentials()
	if a.Message != b.Message {
		t.Error("InvalidCredentials messages differ")
	}
	if strings.Contains(strings.ToLower(a.Message), "key") ||
		strings.Contains(strings.ToLower(a.Message), "secret") {
		t.Errorf("message %q names the failing factor", a.Message)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Unauthenticated(), http.StatusUnauthorized},
		{Forbidden(), http.StatusForbidden},
		{InvalidCredentials(), http.StatusUnauthorized},
		{OriginNotAllowed(), http.StatusForbidden},
		{TokenExpired(), http.StatusUnauthorized},
		{DuplicateKey(), http.StatusConflict},
		{InvalidInput("x"), http.StatusBadRequest},
		{NotFound("principal"), http.StatusNotFound},
		{Internal(nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if tt.err.HTTPStatus != tt.want {
			t.Errorf("%s: status %d, want %d", tt.err.Code, tt.err.HTTPStatus, tt.want)
		}
	}
}

func TestWithDetail(t *testing.T) {
	err := InvalidInput("bad").WithDetail("field", "key")
	if err.Details["field"] != "key" {
		t.Errorf("Details = %v", err.Details)
	}
}
