// Package handlers exposes the invoicing core over JSON/PDF HTTP endpoints.
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/facio/facio/httpx"
	"github.com/facio/facio/i18n"
	"github.com/facio/facio/internal/middleware"
	"github.com/facio/facio/internal/pdf"
	"github.com/facio/facio/internal/services"
	"github.com/facio/facio/internal/store"
	"github.com/facio/facio/validation"
)

var errBadRequest = errors.New("bad request")

// FieldError is one entry of a 422 response.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func fieldErrors(lang string, v validation.Violations) map[string]FieldError {
	out := make(map[string]FieldError, len(v))
	for field, code := range v {
		out[field] = FieldError{Code: code, Message: i18n.T(lang, code)}
	}
	return out
}

// writeError maps a service error to a status code and a translated body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	lang := middleware.LangFrom(r)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONErrorMessage(w, http.StatusUnprocessableEntity, "validation_failed", i18n.T(lang, "validation_failed"), fieldErrors(lang, verr.Violations))
	case errors.Is(err, pdf.ErrInvalidDocument):
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_document", i18n.T(lang, "invalid_document"), nil)
	case errors.Is(err, services.ErrInvalidExport):
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_export", i18n.T(lang, "invalid_export"), nil)
	case errors.Is(err, httpx.ErrEmptyBody), errors.Is(err, errBadRequest):
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "bad_request", i18n.T(lang, "bad_request"), nil)
	case errors.Is(err, store.ErrWrite):
		log.Printf("[api] %s %s: %v", r.Method, r.URL.Path, err)
		httpx.JSONErrorMessage(w, http.StatusInternalServerError, "storage_write_failed", i18n.T(lang, "storage_write_failed"), nil)
	default:
		log.Printf("[api] %s %s: %v", r.Method, r.URL.Path, err)
		httpx.JSONErrorMessage(w, http.StatusInternalServerError, "internal_error", i18n.T(lang, "internal_error"), nil)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	lang := middleware.LangFrom(r)
	httpx.JSONErrorMessage(w, http.StatusNotFound, "not_found", i18n.T(lang, "not_found"), nil)
}

// invalid responds 422 for violations found by the handler itself.
func invalid(w http.ResponseWriter, r *http.Request, v validation.Violations) {
	writeError(w, r, &services.ValidationError{Violations: v})
}
