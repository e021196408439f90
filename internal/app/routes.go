package app

import (
	"net/http"

	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter собирает маршруты; пути работают и с завершающим слэшем, и без него
func NewRouter(h *handlers.Handler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(cfg.RateLimitRPM))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.PostUser) // POST /users/
		r.Get("/", h.GetUsers)  // GET /users/
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.PostTask) // POST /tasks/
		r.Get("/", h.GetTasks)  // GET /tasks/?status=&assigned_to=

		r.Put("/{task_id}", h.PutTask)       // PUT /tasks/{task_id}
		r.Delete("/{task_id}", h.DeleteTask) // DELETE /tasks/{task_id}
	})

	r.Get("/health", h.HealthCheck)

	return r
}
