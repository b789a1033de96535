package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kbukum/authgate/errors"
)

// writeError sends a structured error response on a raw http.ResponseWriter.
// Used by middleware that run outside the Gin handler chain.
func writeError(w http.ResponseWriter, e *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus)
	body, err := json.Marshal(e.ToResponse())
	if err != nil {
		return
	}
	_, _ = w.Write(body)
}
