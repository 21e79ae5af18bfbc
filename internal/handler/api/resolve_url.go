package api

import (
	"net/http"

	"github.com/fhuszti/medias-lifecycle-go/internal/api_context"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
)

type ResolveURLsRequest struct {
	Keys []string `json:"keys" validate:"required,min=1,max=100,dive,required"`
}

// GetMediaURLHandler returns a presigned download URL for a media as a JSON string.
func GetMediaURLHandler(svc port.URLResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, r, http.StatusBadRequest, "ID is required", nil)
			return
		}

		url, found, err := svc.ResolveURL(r.Context(), id)
		if err != nil {
			WriteServiceError(w, r, "Could not resolve media URL", err)
			return
		}
		if !found {
			WriteError(w, r, http.StatusNotFound, "Media not found", nil)
			return
		}

		w.Header().Set("Cache-Control", "private, no-store")
		RespondJSON(w, r, http.StatusOK, url)
	}
}

// ResolveURLsHandler returns presigned download URLs keyed by object key.
func ResolveURLsHandler(svc port.URLResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResolveURLsRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		urls, err := svc.ResolveKeyURLs(r.Context(), req.Keys)
		if err != nil {
			WriteServiceError(w, r, "Could not resolve URLs", err)
			return
		}

		w.Header().Set("Cache-Control", "private, no-store")
		RespondJSON(w, r, http.StatusOK, urls)
	}
}
