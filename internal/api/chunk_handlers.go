package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/dungeonmaze/server/internal/config"
	"github.com/dungeonmaze/server/internal/database"
	"github.com/dungeonmaze/server/internal/worldgen"
)

// Default render distance for the window endpoint when the client omits it.
const defaultWindowDistance = 2

// Largest per-axis render distance the window endpoint accepts.
const maxWindowDistance = 8

// ChunkHandlers handles chunk-related HTTP requests. Chunks are generated
// on demand; only the per-cell overlay state (emptied chests) touches the
// database, so the handlers degrade to pure generation when db is nil.
type ChunkHandlers struct {
	db       *sql.DB
	config   *config.Config
	overlays *database.OverlayStorage
}

// NewChunkHandlers creates a new instance of ChunkHandlers.
func NewChunkHandlers(db *sql.DB, cfg *config.Config) *ChunkHandlers {
	handlers := &ChunkHandlers{
		db:     db,
		config: cfg,
	}
	if db != nil {
		handlers.overlays = database.NewOverlayStorage(db)
	}
	return handlers
}

// parseChunkKey parses a chunk key of the form "{x}_{y}_{z}".
func parseChunkKey(key string) (x, y, z int64, err error) {
	parts := strings.Split(key, "_")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("chunk key %q must be x_y_z", key)
	}
	x, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid chunk x %q", parts[0])
	}
	y, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid chunk y %q", parts[1])
	}
	z, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid chunk z %q", parts[2])
	}
	return x, y, z, nil
}

// parseCellKey parses a cell key of the form "{x}_{z}".
func parseCellKey(key string) (x, z int, err error) {
	parts := strings.Split(key, "_")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("cell key %q must be x_z", key)
	}
	x, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell x %q", parts[0])
	}
	z, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell z %q", parts[1])
	}
	return x, z, nil
}

// buildChunkResponse merges overlay state onto a freshly generated chunk.
func buildChunkResponse(chunk worldgen.Chunk, overlays map[database.CellKey]database.CellOverlay) ChunkResponse {
	cells := make([][]CellView, len(chunk.Cells))
	for h := range chunk.Cells {
		cells[h] = make([]CellView, len(chunk.Cells[h]))
		for w := range chunk.Cells[h] {
			view := CellView{Cell: chunk.Cells[h][w]}
			if overlay, ok := overlays[database.CellKey{X: w, Z: h}]; ok {
				view.ChestEmptied = overlay.ChestEmptied
			}
			cells[h][w] = view
		}
	}

	return ChunkResponse{
		X:         chunk.X,
		Y:         chunk.Y,
		Z:         chunk.Z,
		Structure: string(chunk.Structure),
		Cells:     cells,
	}
}

// GetChunk handles GET /api/chunks/{x}_{y}_{z} requests.
// The chunk is generated deterministically from the world seed; stored
// overlay rows are merged in before responding.
func (h *ChunkHandlers) GetChunk(w http.ResponseWriter, r *http.Request, chunkKey string) {
	x, y, z, err := parseChunkKey(chunkKey)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	chunk := worldgen.ChunkFromXYZSeed(h.config.World.Seed, x, y, z)

	overlays := map[database.CellKey]database.CellOverlay{}
	if h.overlays != nil {
		overlays, err = h.overlays.GetChunkOverlays(x, y, z)
		if err != nil {
			log.Printf("Error loading overlays for chunk (%d,%d,%d): %v", x, y, z, err)
			respondWithError(w, http.StatusInternalServerError, "Failed to load chunk overlays")
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(buildChunkResponse(chunk, overlays))
}

// GetChunkWindow handles GET /api/chunks/window requests.
// Query parameters: x, y, z (center chunk, default 0) and x_dist, y_dist,
// z_dist (render distances, default 2). Distance d spans 2d-1 chunks.
func (h *ChunkHandlers) GetChunkWindow(w http.ResponseWriter, r *http.Request) {
	center := worldgen.ChunkCoord{}

	for _, q := range []struct {
		name string
		dst  *int64
	}{
		{"x", &center.X},
		{"y", &center.Y},
		{"z", &center.Z},
	} {
		if raw := r.URL.Query().Get(q.name); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter", q.name))
				return
			}
			*q.dst = parsed
		}
	}

	dists := [3]uint32{defaultWindowDistance, defaultWindowDistance, defaultWindowDistance}
	for i, name := range []string{"x_dist", "y_dist", "z_dist"} {
		if raw := r.URL.Query().Get(name); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter", name))
				return
			}
			dists[i] = uint32(parsed)
		}
		if dists[i] > maxWindowDistance {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("%s cannot exceed %d", name, maxWindowDistance))
			return
		}
	}

	chunks := worldgen.MakeNeighboringChunksXYZ(center, dists[0], dists[1], dists[2])

	response := ChunkWindowResponse{
		Center: center,
		Chunks: chunks,
		Count:  len(chunks),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// EmptyChest handles POST /api/chunks/{x}_{y}_{z}/cells/{cx}_{cz}/empty-chest.
// The generated chunk must actually hold a treasure chest at the cell; the
// overlay write is idempotent, so looting an already-emptied chest succeeds.
func (h *ChunkHandlers) EmptyChest(w http.ResponseWriter, r *http.Request, chunkKey, cellKey string) {
	if h.overlays == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Overlay storage unavailable")
		return
	}

	x, y, z, err := parseChunkKey(chunkKey)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	cellX, cellZ, err := parseCellKey(cellKey)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	chunk := worldgen.ChunkFromXYZSeed(h.config.World.Seed, x, y, z)
	if cellZ < 0 || cellZ >= len(chunk.Cells) || cellX < 0 || cellX >= len(chunk.Cells[cellZ]) {
		respondWithError(w, http.StatusBadRequest, "Cell position out of range")
		return
	}
	if chunk.Cells[cellZ][cellX].Special != worldgen.SpecialTreasureChest {
		respondWithError(w, http.StatusConflict, "No treasure chest at this cell")
		return
	}

	if err := h.overlays.SetChestEmptied(x, y, z, cellX, cellZ); err != nil {
		log.Printf("Error emptying chest at (%d,%d,%d) cell (%d,%d): %v", x, y, z, cellX, cellZ, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update chest state")
		return
	}

	response := EmptyChestResponse{
		Success:      true,
		Chunk:        worldgen.ChunkCoord{X: x, Y: y, Z: z},
		CellX:        cellX,
		CellZ:        cellZ,
		ChestEmptied: true,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// ResetChunkOverlays handles DELETE /api/chunks/{x}_{y}_{z}/overlays.
// Clears the chunk's mutable state; the next GET returns the pristine
// generated chunk.
func (h *ChunkHandlers) ResetChunkOverlays(w http.ResponseWriter, r *http.Request, chunkKey string) {
	if h.overlays == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Overlay storage unavailable")
		return
	}

	x, y, z, err := parseChunkKey(chunkKey)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	cleared, err := h.overlays.ResetChunkOverlays(x, y, z)
	if err != nil {
		log.Printf("Error resetting overlays for chunk (%d,%d,%d): %v", x, y, z, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to reset chunk overlays")
		return
	}

	response := ResetOverlaysResponse{
		Success: true,
		Chunk:   worldgen.ChunkCoord{X: x, Y: y, Z: z},
		Cleared: cleared,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
