package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fjod/apna-store/internal/checkout"
	"github.com/fjod/apna-store/internal/orders"
	"github.com/fjod/apna-store/internal/store"
	"github.com/go-chi/chi/v5"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func respondValidation(w http.ResponseWriter, err *validationError) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   err.Error(),
		Code:    "validation_failed",
		Details: err.Field,
	})
}

// handleError converts store and checkout errors to HTTP status codes
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		httpStatus int
		code       string
	)

	switch {
	case errors.Is(err, store.ErrNotFound):
		httpStatus = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, checkout.ErrEmptyCart):
		httpStatus = http.StatusConflict
		code = "empty_cart"
	case errors.Is(err, orders.ErrInvalidStatus):
		httpStatus = http.StatusBadRequest
		code = "invalid_status"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", getRequestID(r.Context()),
			"error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondError(w, httpStatus, code, err.Error())
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryLimit reads an optional positive ?limit=; zero means the caller's default.
func queryLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
