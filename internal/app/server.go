package app

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nnamdiokafor/foliobot/internal/api/handlers"
	appMiddleware "github.com/nnamdiokafor/foliobot/internal/api/middlewares"
	"github.com/nnamdiokafor/foliobot/internal/config"
	"github.com/nnamdiokafor/foliobot/internal/core"
	"github.com/nnamdiokafor/foliobot/internal/core/logstore"
	"github.com/nnamdiokafor/foliobot/internal/core/pipeline"
	"github.com/nnamdiokafor/foliobot/internal/core/secrets"
	"github.com/nnamdiokafor/foliobot/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, chatPipeline *pipeline.Pipeline, settings *services.SettingsService, snapshots *services.SnapshotCache, keys *secrets.Resolver, objects core.ObjectClient, logs *logstore.Store) (*Server, error) {
	authHandler, err := handlers.NewAuthHandler(cfg.AdminPassword, cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	chatHandler := handlers.NewChatHandler(chatPipeline, snapshots)
	adminHandler := handlers.NewAdminHandler(settings, snapshots, keys, objects, logs)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Serve the site itself from the web directory
	fileServer := http.FileServer(http.Dir("./web"))
	r.Handle("/*", fileServer)

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/chat", chatHandler.Chat)
		api.Get("/profile", chatHandler.PublicProfile)
		api.Get("/config/public", chatHandler.PublicConfig)
		// dashboard endpoints
		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/login", authHandler.Login)

			admin.Group(func(protected chi.Router) {
				protected.Use(appMiddleware.AdminJWT(cfg.JWTSecret))
				protected.Get("/profile", adminHandler.GetProfile)
				protected.Put("/profile", adminHandler.UpdateProfile)
				protected.Get("/config", adminHandler.GetConfig)
				protected.Put("/config", adminHandler.UpdateConfig)
				protected.Put("/apikey", adminHandler.PutAPIKey)
				protected.Post("/avatar", adminHandler.UploadAvatar)
				protected.Post("/resume", adminHandler.ImportResume)
				protected.Get("/logs", adminHandler.GetLogs)
			})
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}, nil
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
