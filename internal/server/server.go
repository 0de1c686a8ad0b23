package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"talenttrack-backend/internal/config"
	"talenttrack-backend/internal/database"
	"talenttrack-backend/internal/lifecycle"
	"talenttrack-backend/internal/store"
	"talenttrack-backend/internal/upload"
	"talenttrack-backend/internal/watch"
)

// Server bundles the HTTP surface with the components it serves.
type Server struct {
	Config    *config.Config
	DB        *database.Instance
	Store     *store.Store
	Lifecycle *lifecycle.Service
	Sync      *watch.Synchronizer
	Storage   upload.Storage
	Logger    *slog.Logger
}

// New construct new Server instance
func New(cfg *config.Config, db *database.Instance, st *store.Store, lc *lifecycle.Service, sync *watch.Synchronizer, storage upload.Storage, logger *slog.Logger) *Server {
	return &Server{
		Config:    cfg,
		DB:        db,
		Store:     st,
		Lifecycle: lc,
		Sync:      sync,
		Storage:   storage,
		Logger:    logger,
	}
}

// HTTPServer wraps the registered routes in an http.Server configured
// from the YAML settings.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:        fmt.Sprintf(":%d", s.Config.Server.Port),
		Handler:     s.RegisterRoutes(),
		IdleTimeout: s.Config.Server.IdleTimeout,
		ReadTimeout: s.Config.Server.ReadTimeout,
		// No write timeout: the /streams endpoints hold their
		// connections open indefinitely.
	}
}
