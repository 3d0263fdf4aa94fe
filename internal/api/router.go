package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/taskdeck/taskdeck-be/internal/api/handlers"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/metrics"
	"github.com/taskdeck/taskdeck-be/internal/services"
	"github.com/taskdeck/taskdeck-be/internal/websocket"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Tokens         *auth.Manager
	AuthService    services.AuthServiceProvider
	TaskService    services.TaskServiceProvider
	TagService     services.TagServiceProvider
	EventService   services.EventServiceProvider
	Hub            *websocket.Hub
	AllowedOrigins []string
	Registry       *prometheus.Registry
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if deps.Registry != nil {
		collector := metrics.NewCollector(deps.Registry)
		r.Use(collector.Middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	tagHandler := handlers.NewTagHandler(deps.TagService)
	eventHandler := handlers.NewEventHandler(deps.EventService)

	guard := deps.Tokens.Middleware()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Get("/me", authHandler.Me)
			r.Patch("/me", authHandler.UpdateMe)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(guard)
		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.Get)
			r.Put("/", taskHandler.Update)
			r.Delete("/", taskHandler.Delete)
		})
	})

	r.Route("/tags", func(r chi.Router) {
		r.Use(guard)
		r.Get("/", tagHandler.List)
		r.Post("/", tagHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", tagHandler.Get)
			r.Put("/", tagHandler.Update)
			r.Delete("/", tagHandler.Delete)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Get("/events", eventHandler.ListRecent)
	})

	if deps.Hub != nil {
		wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.Tokens)
		r.Get("/ws", wsHandler.Serve)
	}

	if deps.Registry != nil {
		r.Method("GET", "/metrics", metrics.Handler(deps.Registry))
	}

	return r
}
