package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tasksafe/backend/internal/api/handlers"
	"github.com/tasksafe/backend/internal/api/middleware"
	"github.com/tasksafe/backend/internal/config"
	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/email"
)

func NewRouter(database *db.Database, sender email.Sender, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))
	r.Use(middleware.MaxBodySize(1 << 20))

	// Handlers
	accessHandler := handlers.NewAccessHandler(database, sender, cfg.BaseURL)
	authHandler := handlers.NewAuthHandler(database, cfg.IsProduction())
	videosHandler := handlers.NewVideosHandler(database)
	completionsHandler := handlers.NewCompletionsHandler(database)
	usersHandler := handlers.NewUsersHandler(database)
	tagsHandler := handlers.NewTagsHandler(database)

	// Both unauthenticated write endpoints share one per-IP budget: link
	// issuance sends email, login probes credentials.
	publicLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		// Magic-link lifecycle (public)
		r.With(publicLimiter.Handler).Post("/request-access", accessHandler.RequestAccess)
		r.Get("/access/{token}", accessHandler.Redeem)
		r.Patch("/access/{accessLogID}/progress", accessHandler.UpdateProgress)
		r.Get("/access-logs/{id}", accessHandler.GetAccessLog)
		r.Get("/videos/{id}", accessHandler.GetVideo)

		r.Route("/admin", func(r chi.Router) {
			r.With(publicLimiter.Handler).Post("/login", authHandler.Login)

			// Session-scoped routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(database))

				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)

				// Videos (tenant-scoped)
				r.Get("/videos", videosHandler.List)
				r.Post("/videos", videosHandler.Create)
				r.Get("/videos/{id}", videosHandler.Get)
				r.Patch("/videos/{id}", videosHandler.Update)
				r.Delete("/videos/{id}", videosHandler.Delete)
				r.Get("/videos/{id}/analytics", completionsHandler.VideoAnalytics)

				// Completions (tenant-scoped)
				r.Get("/completions", completionsHandler.List)

				// Super admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireSuperAdmin)

					r.Get("/users", usersHandler.List)
					r.Post("/users", usersHandler.Create)
					r.Patch("/users/{id}", usersHandler.Update)
					r.Delete("/users/{id}", usersHandler.Delete)

					r.Get("/company-tags", tagsHandler.List)
					r.Post("/company-tags", tagsHandler.Create)
					r.Patch("/company-tags/{id}", tagsHandler.Update)
					r.Delete("/company-tags/{id}", tagsHandler.Delete)
				})
			})
		})
	})

	return r
}
