package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Error codes carried in API error bodies.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeUnavailable  = "PRODUCER_UNAVAILABLE"
	CodeInternal     = "INTERNAL"
)

// APIError is an error with an HTTP status, returned to clients as JSON.
type APIError struct {
	Status   int    `json:"-"`
	Code     string `json:"code"`
	Resource string `json:"resource,omitempty"`
	Message  string `json:"message"`
	Err      error  `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Resource)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.Err
}

func notFound(resource, message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Resource: resource, Message: message}
}

func unavailable(resource string, err error) *APIError {
	return &APIError{
		Status:   http.StatusServiceUnavailable,
		Code:     CodeUnavailable,
		Resource: resource,
		Message:  "producer did not redraw in time",
		Err:      err,
	}
}

// writeError sends err as a JSON body. Errors that are not APIErrors
// become 500s.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = &APIError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: err.Error(), Err: err}
	}
	if apiErr.Status >= http.StatusInternalServerError {
		slog.Error("request failed", "code", apiErr.Code, "error", apiErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	if encErr := json.NewEncoder(w).Encode(apiErr); encErr != nil {
		slog.Debug("write error body", "error", encErr)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write json body", "error", err)
	}
}
