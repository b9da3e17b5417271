package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gamevault/gamevault/internal/api/handler"
	"github.com/gamevault/gamevault/internal/api/middleware"
	"github.com/gamevault/gamevault/internal/auth"
	"github.com/gamevault/gamevault/internal/game"
	"github.com/gamevault/gamevault/internal/playsession"
	"github.com/gamevault/gamevault/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger      handler.DBPinger
	Version       string
	OpenAPISpec   []byte
	AuthService   *auth.Service
	Authenticator *auth.Authenticator
	Policy        *auth.AccessPolicy
	Hasher        auth.PasswordHasher
	UserRepo      user.Repository
	GameRepo      game.Repository
	SessionRepo   playsession.Repository
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec, deps.Version)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.GameRepo != nil {
		gameHandler := handler.NewGameHandler(deps.GameRepo)
		r.Route("/games", func(r chi.Router) {
			r.Get("/", gameHandler.List)
			r.Get("/{id}", gameHandler.GetByID)
		})
	}

	if deps.Authenticator == nil {
		return r
	}

	policy := deps.Policy
	if policy == nil {
		policy = auth.NewAccessPolicy()
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.Authenticator))

		if deps.AuthService != nil {
			tokenHandler := handler.NewTokenHandler(deps.AuthService)
			r.Post("/token", tokenHandler.Create)
		}

		if deps.UserRepo != nil && deps.Hasher != nil {
			userHandler := handler.NewUserHandler(deps.UserRepo, deps.Hasher, policy)
			r.Route("/users", func(r chi.Router) {
				r.Post("/", userHandler.Create)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireStaff())
					r.Get("/", userHandler.List)
					r.Get("/lastplayed", userHandler.ListLastPlayed)
					r.Get("/lastplayed/{id}", userHandler.GetLastPlayed)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuthenticated())
					r.Get("/{id}", userHandler.GetByID)
					r.Patch("/{id}", userHandler.Update)
					r.Delete("/{id}", userHandler.Delete)
				})
			})
		}

		if deps.SessionRepo != nil {
			sessionHandler := handler.NewPlaySessionHandler(deps.SessionRepo, policy)
			r.Route("/playsessions", func(r chi.Router) {
				r.Use(middleware.RequireAuthenticated())
				r.Post("/", sessionHandler.Create)
				r.Get("/", sessionHandler.List)
				r.Get("/{id}", sessionHandler.GetByID)
				r.Patch("/{id}", sessionHandler.Update)
				r.Delete("/{id}", sessionHandler.Delete)
			})
		}
	})

	return r
}
