package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"podcaster/internal/http/handlers"
	"podcaster/internal/infra"
	"podcaster/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/readyz", app.Ready)
		r.Get("/plans", app.Plans)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(cfg.JWTSecret, app.Resolver.Catalog()))
			r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

			r.Get("/me", app.Me)
			r.Post("/uploads/validate", app.ValidateUpload)
			r.Get("/features/{feature}", app.FeatureAccess)
			r.Route("/projects/{projectID}", func(r chi.Router) {
				r.Post("/retry", app.RetryJob)
				r.Get("/export", app.ExportProject)
			})
		})
	})

	return r
}
