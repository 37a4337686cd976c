package http

import (
	"context"
	"encoding/json"
	"net/http"

	"budget/internal/core"
	"budget/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	// The status line is already sent, so an encode failure can only be dropped
	_ = json.NewEncoder(w).Encode(body)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps an error class to its HTTP status.
func statusFor(err error) int {
	switch core.KindOf(err) {
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindInvalidInput:
		return http.StatusBadRequest
	case core.KindForbidden:
		return http.StatusForbidden
	case core.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the status for err. Internal errors are logged
// and their details withheld from the client.
func writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	logger := log.FromContext(ctx)
	fields := log.NewFields().WithOperation(op).WithError(err).ToSlice()

	if status == http.StatusInternalServerError {
		logger.ErrorContext(ctx, "Request failed", fields...)
		writeErrorMessage(w, status, "internal server error")
		return
	}
	logger.DebugContext(ctx, "Request rejected", fields...)
	writeErrorMessage(w, status, err.Error())
}
