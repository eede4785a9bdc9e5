package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/dungeonmaze/server/internal/config"
	"github.com/dungeonmaze/server/internal/worldgen"
)

// ConfigHandlers handles configuration-related HTTP requests
type ConfigHandlers struct {
	config *config.Config
}

// NewConfigHandlers creates a new instance of ConfigHandlers
func NewConfigHandlers(cfg *config.Config) *ConfigHandlers {
	return &ConfigHandlers{config: cfg}
}

// StructureInfo describes one entry of the structure catalog.
type StructureInfo struct {
	Name   string  `json:"name"`
	Radius int     `json:"radius"`
	Weight float64 `json:"weight"`
}

// WorldConfigResponse exposes the world generation constants clients need
// to interpret chunk payloads. The values are fixed for the lifetime of
// the process.
type WorldConfigResponse struct {
	Seed             uint32          `json:"seed"`
	ChunkSize        float64         `json:"chunk_size"`
	CellSize         float64         `json:"cell_size"`
	GridSize         int             `json:"grid_size"`
	WallBreakProb    float64         `json:"wall_break_prob"`
	StructureGenProb float64         `json:"structure_gen_prob"`
	Structures       []StructureInfo `json:"structures"`
}

// GetWorldConfig handles GET /api/config/world requests
func (h *ConfigHandlers) GetWorldConfig(w http.ResponseWriter, r *http.Request) {
	structures := make([]StructureInfo, 0, len(worldgen.StructureNames()))
	for _, name := range worldgen.StructureNames() {
		structures = append(structures, StructureInfo{
			Name:   string(name),
			Radius: name.Radius(),
			Weight: name.Weight(),
		})
	}

	response := WorldConfigResponse{
		Seed:             h.config.World.Seed,
		ChunkSize:        h.config.World.ChunkSize,
		CellSize:         h.config.World.CellSize,
		GridSize:         worldgen.GridSize,
		WallBreakProb:    h.config.World.WallBreakProb,
		StructureGenProb: h.config.World.StructureGenProb,
		Structures:       structures,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600") // Fixed for the process lifetime

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding world config: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
