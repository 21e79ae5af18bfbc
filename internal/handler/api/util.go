package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/usecase/media"
	"github.com/fhuszti/medias-lifecycle-go/internal/validation"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	ctx := r.Context()
	switch {
	case status >= http.StatusInternalServerError && err != nil:
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
	case err != nil:
		logger.Warnf(ctx, "❌  %s: %v", msg, err)
	default:
		logger.Warnf(ctx, "❌  %s", msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, r, status, ErrorResponse{Error: msg})
}

// WriteServiceError maps use case errors onto HTTP statuses.
func WriteServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, media.ErrValidation):
		WriteError(w, r, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, media.ErrMediaNotFound):
		WriteError(w, r, http.StatusNotFound, "Media not found", nil)
	default:
		WriteError(w, r, http.StatusInternalServerError, msg, err)
	}
}

func RespondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(r.Context(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, r *http.Request, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(r.Context(), "❌  Failed to write JSON payload: %v", err)
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// It writes the error response itself and reports whether the handler may go on.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, r, http.StatusBadRequest, "Invalid request", err)
		return false
	}

	if errs := validation.ValidateStruct(dst); errs != nil {
		errsJSON, err := validation.ErrorsToJson(errs)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "Validation error (could not encode details)", err)
			return false
		}
		// return the validation errors payload directly
		RespondRawJSON(w, r, http.StatusBadRequest, []byte(errsJSON))
		logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
		return false
	}
	return true
}
