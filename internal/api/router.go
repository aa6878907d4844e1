package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mira/mood-journal-website/internal/api/handlers"
	"github.com/mira/mood-journal-website/internal/api/middleware"
	"github.com/mira/mood-journal-website/internal/config"
	"github.com/mira/mood-journal-website/internal/googleauth"
	"github.com/mira/mood-journal-website/internal/service"
)

func NewRouter(services *service.Services, google *googleauth.Provider, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, google, cfg)
	journalHandler := handlers.NewJournalHandler(services.Journal)
	insightsHandler := handlers.NewInsightsHandler(services.Insights)
	companionHandler := handlers.NewCompanionHandler(services.Companion)
	wellnessHandler := handlers.NewWellnessHandler(services.Wellness)
	accountHandler := handlers.NewAccountHandler(services.Companion)
	wsHandler := handlers.NewWebSocketHandler(services.Companion)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/google", authHandler.GoogleLogin)
			r.Get("/google/callback", authHandler.GoogleCallback)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// Journal routes
			r.Route("/entries", func(r chi.Router) {
				r.Post("/", journalHandler.Create)
				r.Get("/", journalHandler.List)
				r.Get("/search", journalHandler.Search)
				r.Get("/{entryID}", journalHandler.Get)
				r.Put("/{entryID}", journalHandler.Update)
				r.Delete("/{entryID}", journalHandler.Delete)
				r.Get("/{entryID}/similar", journalHandler.Similar)
				r.Post("/{entryID}/attachments", journalHandler.UploadAttachment)
				r.Get("/{entryID}/attachments", journalHandler.ListAttachments)
			})

			// Insights
			r.Get("/insights", insightsHandler.Report)

			// Wellness
			r.Get("/wellness", wellnessHandler.Report)

			// Account settings
			r.Route("/account/ai", func(r chi.Router) {
				r.Get("/", accountHandler.GetAISettings)
				r.Put("/", accountHandler.SaveAISettings)
			})

			// Companion routes
			r.Route("/companion", func(r chi.Router) {
				r.Post("/chat", companionHandler.Chat)
				r.Get("/history", companionHandler.History)
			})

			// WebSocket companion chat
			r.Get("/ws/companion", wsHandler.Handle)
		})
	})

	return r
}
