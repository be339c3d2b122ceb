// Package router sets up the HTTP routes and middleware chain for the
// design generation service.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"uigen/internal/handlers"
	"uigen/internal/middleware"
)

// New creates the configured chi router. origins is the CORS allowlist;
// the browser client runs on a different origin than the API, so
// preflight handling is part of the public contract.
func New(design *handlers.Design, origins []string) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", design.Health)
	r.Get("/templates", design.Templates)

	// Generation endpoints fan out to paid external APIs and get a
	// tighter rate limit than the rest of the service.
	r.Group(func(r chi.Router) {
		limiter := middleware.NewRateLimiter(20, time.Minute)
		r.Use(limiter.Middleware)

		r.Post("/create-design", design.CreateDesign)
		r.Post("/get-image", design.GetImage)
		r.Post("/synthesize-voice", design.SynthesizeVoice)
	})

	return r
}
