package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"jewelerp/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Partial   bool   `json:"partial,omitempty"`
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

// writeJSON writes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEngineError maps the core error taxonomy onto HTTP statuses:
// unknown references are 404, rejected input is 422, failed store writes
// are 502 with the partial flag surfaced so clients can distinguish "retry
// as-is" from "reconcile first".
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *core.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, r, notFound.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}

	var validation *core.ValidationError
	if errors.As(err, &validation) {
		code := "VALIDATION_FAILED"
		switch {
		case errors.Is(err, core.ErrInsufficientStock):
			code = "INSUFFICIENT_STOCK"
		case errors.Is(err, core.ErrAlreadyReceived):
			code = "ALREADY_RECEIVED"
		}
		writeError(w, r, validation.Error(), code, http.StatusUnprocessableEntity)
		return
	}

	var persistence *core.PersistenceError
	if errors.As(err, &persistence) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(errorResponse{
			Error:     persistence.Error(),
			Code:      "PERSISTENCE_FAILED",
			Partial:   persistence.Partial,
			RequestID: requestIDFromContext(r.Context()),
		})
		return
	}

	writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
}
