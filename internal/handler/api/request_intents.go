package api

import (
	"net/http"

	"github.com/fhuszti/medias-lifecycle-go/internal/api_context"
	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
)

// RequestFixationHandler publishes a fixation intent and answers 202 without waiting for it.
func RequestFixationHandler(svc port.FixationRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, r, http.StatusBadRequest, "ID is required", nil)
			return
		}

		if err := svc.RequestFixation(r.Context(), id); err != nil {
			WriteServiceError(w, r, "Could not request fixation", err)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		logger.Infof(r.Context(), "✅  Fixation requested for media #%s", id)
	}
}

// DeleteMediaHandler publishes a deletion intent for an existing media.
func DeleteMediaHandler(svc port.DeletionRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, r, http.StatusBadRequest, "ID is required", nil)
			return
		}

		if err := svc.RequestDeletion(r.Context(), id); err != nil {
			WriteServiceError(w, r, "Failed to delete media", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Deletion requested for media #%s", id)
	}
}
