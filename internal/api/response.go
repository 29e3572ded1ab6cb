package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/litescript/ls-solarkit/internal/astro"
)

// Error codes returned in the envelope.
const (
	codeInvalidInput     = "invalid_input"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal_error"
)

// errorResponse is the envelope for all error responses.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON writes data with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"internal_error","message":"failed to marshal response"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error: errorDetail{
			Code:      code,
			Message:   msg,
			RequestID: middleware.GetReqID(r.Context()),
		},
	})
}

// writeErr maps err onto the envelope. Input errors keep their message;
// anything else becomes a generic 500.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, astro.ErrInvalidInput) || errors.Is(err, astro.ErrInsufficientSamples) {
		writeError(w, r, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}
	writeError(w, r, http.StatusInternalServerError, codeInternal, "an unexpected error occurred")
}
