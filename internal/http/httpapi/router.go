package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"brandforge/internal/http/handlers"
	"brandforge/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)

	// Filesystem-stored images are served from this process; Supabase
	// serves its own public URLs.
	if !app.Config.UseSupabaseStorage() {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(app.Config.StoragePath)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.AuthJWT(app.Config.JWTSecret),
			middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
		)
		r.Post("/v1/images/generate", app.ImagesGenerate)
		r.Get("/v1/brands/{brand_id}/templates", app.BrandTemplates)
		r.Get("/v1/credits", app.CreditsBalance)
	})

	return r
}
