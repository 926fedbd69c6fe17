package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/logger"
)

// ErrorBody is the uniform error payload.
type ErrorBody struct {
	Status  int                   `json:"status"`
	Message string                `json:"message"`
	Path    string                `json:"path"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// OK sends a 200 with v as the body.
func OK(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// Created sends a 201 with v as the body.
func Created(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusCreated, v)
}

// NoContent sends a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps err onto its status code and writes the error body.
// Internal errors are logged and their message hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.Status(err)
	body := ErrorBody{Status: status, Path: r.URL.Path}

	if ae, ok := apperror.From(err); ok && status != http.StatusInternalServerError {
		body.Message = ae.Message
		body.Errors = ae.Fields
	} else {
		logger.WithCtx(r.Context()).Error("request failed",
			"error", err.Error(),
			"method", r.Method,
			"path", r.URL.Path,
		)
		body.Message = http.StatusText(http.StatusInternalServerError)
	}

	if status >= 400 && status < 500 {
		logger.WithCtx(r.Context()).Debug("request rejected",
			"status", status,
			"message", body.Message,
			"path", r.URL.Path,
		)
	}

	JSON(w, status, body)
}

// Status writes a plain error body for a status without a domain error,
// e.g. 429 from the rate limiter or 500 from panic recovery.
func Status(w http.ResponseWriter, r *http.Request, status int) {
	JSON(w, status, ErrorBody{Status: status, Message: http.StatusText(status), Path: r.URL.Path})
}
