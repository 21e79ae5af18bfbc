package main

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/config"
	"github.com/fhuszti/medias-lifecycle-go/internal/handler/api"
	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/metrics"
	cMiddleware "github.com/fhuszti/medias-lifecycle-go/internal/middleware"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type services struct {
	uploads   port.UploadLinkGenerator
	urls      port.URLResolver
	fixations port.FixationRequester
	deletions port.DeletionRequester
}

func newRouter(ctx context.Context, cfg *config.Settings, s services) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Get("/healthz", api.HealthHandler())
	r.Method("GET", "/metrics", metrics.Handler())

	r.Route("/media", func(r chi.Router) {
		r.Use(cMiddleware.WithAuth(cMiddleware.AuthConfig{
			PublicKeyPEM: cfg.JWTPublicKey,
			Issuer:       cfg.JWTIssuer,
			Audience:     cfg.JWTAudience,
		}))

		r.Post("/upload-url", api.GenerateUploadLinkHandler(s.uploads))
		r.Post("/urls", api.ResolveURLsHandler(s.urls))

		r.Route("/{id}", func(r chi.Router) {
			r.Use(cMiddleware.WithMediaID())
			r.Get("/url", api.GetMediaURLHandler(s.urls))
			r.Post("/fixate", api.RequestFixationHandler(s.fixations))
			r.Delete("/", api.DeleteMediaHandler(s.deletions))
		})
	})

	return r
}
