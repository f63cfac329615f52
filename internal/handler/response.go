package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/tyrecheck/tyrecheck-go/internal/middleware"
)

const maxJSONBody = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// internalError logs err and sends a generic 500 so database text never
// reaches the client.
func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "request_id", middleware.RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
}

// decodeJSON reads the request body into v and writes the error response
// itself when it fails. With allowEmpty an empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF) && allowEmpty:
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
	return false
}
