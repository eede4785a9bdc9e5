package api

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/dungeonmaze/server/internal/auth"
	"github.com/dungeonmaze/server/internal/config"
)

// setupAuthMiddleware builds the JWT auth middleware used by protected routes.
func setupAuthMiddleware(db *sql.DB, cfg *config.Config) func(http.Handler) http.Handler {
	jwtService := auth.NewJWTService(cfg)
	passwordService := auth.NewPasswordService(cfg)
	authHandlers := auth.NewAuthHandlers(db, jwtService, passwordService)
	return authHandlers.AuthMiddleware
}

// SetupChunkRoutes registers chunk generation and overlay routes.
func SetupChunkRoutes(mux *http.ServeMux, db *sql.DB, cfg *config.Config) {
	handlers := NewChunkHandlers(db, cfg)
	authMiddleware := setupAuthMiddleware(db, cfg)

	// Apply per-user rate limiting (100 requests per minute per user for chunk requests)
	userRateLimit := UserRateLimitMiddleware(100, 1*time.Minute)

	// Handler that routes based on path and method
	chunkHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/chunks")
		path = strings.Trim(path, "/")
		parts := strings.Split(path, "/")

		switch {
		case r.Method == http.MethodGet && path == "window":
			handlers.GetChunkWindow(w, r)
		case r.Method == http.MethodGet && len(parts) == 1 && parts[0] != "":
			handlers.GetChunk(w, r, parts[0])
		case r.Method == http.MethodPost && len(parts) == 4 && parts[1] == "cells" && parts[3] == "empty-chest":
			handlers.EmptyChest(w, r, parts[0], parts[2])
		case r.Method == http.MethodDelete && len(parts) == 2 && parts[1] == "overlays":
			handlers.ResetChunkOverlays(w, r, parts[0])
		default:
			http.NotFound(w, r)
		}
	})

	// Apply middleware chain
	authenticatedHandler := authMiddleware(chunkHandler)
	rateLimitedHandler := userRateLimit(authenticatedHandler)

	// Register routes with /api/chunks prefix
	mux.Handle("/api/chunks/", rateLimitedHandler)
	mux.Handle("/api/chunks", rateLimitedHandler) // Handle /api/chunks without trailing slash
}
