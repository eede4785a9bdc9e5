package api

import (
	"time"

	"github.com/dungeonmaze/server/internal/worldgen"
)

// PlayerProfile represents a player's profile information.
type PlayerProfile struct {
	ID          int64                   `json:"id"`
	Username    string                  `json:"username"`
	Position    *worldgen.WorldPosition `json:"position,omitempty"`
	ActiveChunk *worldgen.ChunkCoord    `json:"active_chunk,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	LastLogin   *time.Time              `json:"last_login,omitempty"`
}

// UpdatePositionRequest represents a request to update a player's position.
type UpdatePositionRequest struct {
	Position worldgen.WorldPosition `json:"position"`
}

// UpdatePositionResponse represents the response after updating a player's
// position. ActiveChunk and Cell are derived from the new world position.
type UpdatePositionResponse struct {
	Success     bool                   `json:"success"`
	Position    worldgen.WorldPosition `json:"position"`
	ActiveChunk worldgen.ChunkCoord    `json:"active_chunk"`
	CellX       int                    `json:"cell_x"`
	CellZ       int                    `json:"cell_z"`
}
