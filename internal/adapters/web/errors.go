package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"invoice-ledger/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeServiceError maps a core error kind to its HTTP status:
// ValidationError → 400, NotFoundError → 404, ConflictError → 409,
// anything else → 500 with the detail kept out of the response body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, r, validationErr.Reason, "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	var notFoundErr *core.NotFoundError
	if errors.As(err, &notFoundErr) {
		writeError(w, r, notFoundErr.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	var conflictErr *core.ConflictError
	if errors.As(err, &conflictErr) {
		writeError(w, r, conflictErr.Reason, "CONFLICT", http.StatusConflict)
		return
	}
	log.Printf("internal error: %v", err)
	writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONStatus writes a JSON response with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
