package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/warna720/TDP003/errs"
)

// maxResponseSize caps a single JSON response.
const maxResponseSize = 10 * 1024 * 1024

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.writeJSON(w, http.StatusOK, data)
}

func (r Responder) writeJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		r.writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{
			"error":        "Response too large",
			"message":      "The requested data exceeds the maximum response size",
			"maxSizeMB":    maxResponseSize / (1024 * 1024),
			"actualSizeMB": len(jsonData) / (1024 * 1024),
		})
		return
	}

	// Headers must be set before WriteHeader or they are dropped.
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Status:  "error",
			Details: err.Error(),
		})
		return
	}

	switch {
	case apiErr.StatusCode >= http.StatusInternalServerError:
		r.logger.Error().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request failed")
	case errs.IsNotFound(err), errs.IsInvalidFieldError(err):
		r.logger.Debug().Err(err).Msg("request rejected")
	}

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}
	r.writeJSON(w, apiErr.StatusCode, response)
}

// toApiErr maps portfolio errors to their HTTP form. Errors it does not
// recognize pass through and end up as a generic 500.
func toApiErr(err error) error {
	switch {
	case errors.Is(err, errs.ErrCatalogUnavailable):
		return errs.NewInternalErrorWithCause(errs.ErrCatalogUnavailable.Error(), err)
	case errors.Is(err, errs.ErrProjectNotFound):
		return errs.NewNotFoundError("project")
	case errors.Is(err, errs.ErrEmptyCatalog):
		return errs.NewNotFoundError("projects")
	case errors.Is(err, errs.ErrUnknownSortField):
		return errs.NewInvalidFieldError(paramSortBy, err.Error())
	}
	return err
}
