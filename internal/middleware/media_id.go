package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fhuszti/medias-lifecycle-go/internal/api_context"
	"github.com/fhuszti/medias-lifecycle-go/internal/handler/api"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

// WithMediaID parses the {id} route parameter and stores it in the request context.
func WithMediaID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "id")
			if raw == "" {
				api.WriteError(w, r, http.StatusBadRequest, "ID is required", nil)
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				api.WriteError(w, r, http.StatusBadRequest, fmt.Sprintf("ID %q is not a valid UUID", raw), nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.IDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
