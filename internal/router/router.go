package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"event-share/internal/config"
	"event-share/internal/handler"
	"event-share/internal/metrics"
	"event-share/internal/middleware"
)

type UserHandlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Health *handler.HealthHandler
}

type EventHandlers struct {
	Event  *handler.EventHandler
	Health *handler.HealthHandler
}

// NewUserRouter serves the user-service. Its AuthMiddleware verifies tokens
// in-process against the user store.
func NewUserRouter(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h UserHandlers) http.Handler {
	r := base(cfg, h.Health)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.Get("/verify", h.Auth.Verify)
			auth.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.With(authMiddleware.RequireAuth).Get("/users", h.User.List)
	})

	return r
}

// NewEventRouter serves the event-service. Reads are public; every write goes
// through authMiddleware, which asks the user-service who the caller is.
func NewEventRouter(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h EventHandlers) http.Handler {
	r := base(cfg, h.Health)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/events", func(events chi.Router) {
			events.Get("/", h.Event.List)
			events.Get("/{id}", h.Event.Get)
			events.With(authMiddleware.RequireAuth).Post("/", h.Event.Create)
			events.With(authMiddleware.RequireAuth).Put("/{id}", h.Event.Update)
			events.With(authMiddleware.RequireAuth).Delete("/{id}", h.Event.Delete)
			events.With(authMiddleware.RequireAuth).Post("/{id}/join", h.Event.Join)
			events.With(authMiddleware.RequireAuth).Post("/{id}/unjoin", h.Event.Unjoin)
			events.With(authMiddleware.RequireAuth).Post("/{id}/comments", h.Event.Comment)
		})
	})

	return r
}

func base(cfg *config.Config, health *handler.HealthHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(metrics.HTTPMiddleware(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", health.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
