package api

import (
	"net/http"

	"github.com/dungeonmaze/server/internal/config"
)

// SetupConfigRoutes registers configuration routes (no auth required for public config)
func SetupConfigRoutes(mux *http.ServeMux, cfg *config.Config) {
	handlers := NewConfigHandlers(cfg)

	// Public endpoint - no auth required for configuration data
	mux.HandleFunc("/api/config/world", handlers.GetWorldConfig)
}
