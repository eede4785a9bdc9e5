package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/dungeonmaze/server/internal/auth"
	"github.com/dungeonmaze/server/internal/config"
	"github.com/dungeonmaze/server/internal/worldgen"
)

// PlayerHandlers handles player-related HTTP requests.
type PlayerHandlers struct {
	db     *sql.DB
	config *config.Config
}

// NewPlayerHandlers creates a new instance of PlayerHandlers.
func NewPlayerHandlers(db *sql.DB, cfg *config.Config) *PlayerHandlers {
	return &PlayerHandlers{
		db:     db,
		config: cfg,
	}
}

// queryPlayerProfile loads a player profile row and derives the active chunk
// from the stored position.
func (h *PlayerHandlers) queryPlayerProfile(playerID int64) (*PlayerProfile, error) {
	var profile PlayerProfile
	var posX, posY, posZ sql.NullFloat64
	var lastLogin sql.NullTime

	query := `
		SELECT id, username, position_x, position_y, position_z, created_at, last_login
		FROM players
		WHERE id = $1
	`
	err := h.db.QueryRow(query, playerID).Scan(
		&profile.ID,
		&profile.Username,
		&posX,
		&posY,
		&posZ,
		&profile.CreatedAt,
		&lastLogin,
	)
	if err != nil {
		return nil, err
	}

	if posX.Valid && posY.Valid && posZ.Valid {
		position := worldgen.WorldPosition{X: posX.Float64, Y: posY.Float64, Z: posZ.Float64}
		activeChunk := worldgen.MarkerFromPosition(position).ChunkXYZ()
		profile.Position = &position
		profile.ActiveChunk = &activeChunk
	}

	if lastLogin.Valid {
		profile.LastLogin = &lastLogin.Time
	}

	return &profile, nil
}

// GetPlayerProfile handles GET /api/players/{player_id} requests.
// Returns the player's profile information.
func (h *PlayerHandlers) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	// Extract player ID from URL path
	// Path format: /api/players/{player_id}
	path := r.URL.Path
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "api" || parts[1] != "players" {
		respondWithError(w, http.StatusBadRequest, "Invalid path")
		return
	}
	playerID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	// Get authenticated user from context (set by AuthMiddleware)
	authUserID, ok := r.Context().Value(auth.UserIDKey).(int64)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Only allow users to view their own profile
	if authUserID != playerID {
		respondWithError(w, http.StatusForbidden, "You can only view your own profile")
		return
	}

	profile, err := h.queryPlayerProfile(playerID)
	if err == sql.ErrNoRows {
		respondWithError(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		log.Printf("Error querying player profile: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve player profile")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
}

// GetCurrentPlayerProfile handles GET /api/players/me requests.
// Returns the current authenticated player's profile.
func (h *PlayerHandlers) GetCurrentPlayerProfile(w http.ResponseWriter, r *http.Request) {
	// Get authenticated user from context
	authUserID, ok := r.Context().Value(auth.UserIDKey).(int64)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.queryPlayerProfile(authUserID)
	if err == sql.ErrNoRows {
		respondWithError(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		log.Printf("Error querying player profile: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve player profile")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
}

// UpdatePlayerPosition handles PUT /api/players/{player_id}/position requests.
// Stores the player's world position and reports the active chunk and cell
// it maps to.
func (h *PlayerHandlers) UpdatePlayerPosition(w http.ResponseWriter, r *http.Request) {
	// Extract player ID from URL path
	// Path format: /api/players/{player_id}/position
	path := r.URL.Path
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 4 || parts[0] != "api" || parts[1] != "players" || parts[3] != "position" {
		respondWithError(w, http.StatusBadRequest, "Invalid path")
		return
	}
	playerID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	// Get authenticated user from context
	authUserID, ok := r.Context().Value(auth.UserIDKey).(int64)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Check if user is updating their own position
	if authUserID != playerID {
		respondWithError(w, http.StatusForbidden, "You can only update your own position")
		return
	}

	// Parse request body
	var req UpdatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Position.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid position: "+err.Error())
		return
	}

	// Update player position in database
	query := `
		UPDATE players
		SET position_x = $1,
		    position_y = $2,
		    position_z = $3
		WHERE id = $4
		RETURNING id
	`
	var updatedID int64
	err = h.db.QueryRow(query, req.Position.X, req.Position.Y, req.Position.Z, playerID).Scan(&updatedID)
	if err == sql.ErrNoRows {
		respondWithError(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		log.Printf("Error updating player position: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update player position")
		return
	}

	marker := worldgen.MarkerFromPosition(req.Position)
	cellX, cellZ := marker.CellXZ()

	response := UpdatePositionResponse{
		Success:     true,
		Position:    req.Position,
		ActiveChunk: marker.ChunkXYZ(),
		CellX:       cellX,
		CellZ:       cellZ,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// respondWithError sends an error response in JSON format.
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
