package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"ledgerboard/internal/core"
)

// errMalformedBody marks a request body the JSON decoder could not read
// at all, as opposed to a well-formed body with invalid field values.
var errMalformedBody = errors.New("malformed request body")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps domain errors onto HTTP statuses. Anything unmapped is
// an internal error and must not leak its details to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrDuplicateEntry), errors.Is(err, core.ErrDuplicateCode):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidPeriodFilter), errors.Is(err, errMalformedBody):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrMalformedAmount),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidCategoryType),
		errors.Is(err, core.ErrInvalidStatus):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a request body into dst with a size cap. Decoder-level
// failures (bad syntax, wrong types, truncation, oversized body) are
// reported as errMalformedBody; custom unmarshalers keep their own errors
// so field-level problems like a bad amount still map to 422.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxErr),
		errors.As(err, &typeErr),
		errors.As(err, &maxBytesErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return fmt.Errorf("invalid request body: %w", err)
}
