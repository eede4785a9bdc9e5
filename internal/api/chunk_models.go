package api

import "github.com/dungeonmaze/server/internal/worldgen"

// CellView is a generated cell plus its mutable overlay state.
type CellView struct {
	worldgen.Cell
	ChestEmptied bool `json:"chest_emptied,omitempty"`
}

// ChunkResponse is the JSON shape of a generated chunk with overlays merged.
type ChunkResponse struct {
	X         int64        `json:"x"`
	Y         int64        `json:"y"`
	Z         int64        `json:"z"`
	Structure string       `json:"structure"`
	Cells     [][]CellView `json:"cells"`
}

// ChunkWindowResponse enumerates the chunk coordinates within a render window.
type ChunkWindowResponse struct {
	Center worldgen.ChunkCoord   `json:"center"`
	Chunks []worldgen.ChunkCoord `json:"chunks"`
	Count  int                   `json:"count"`
}

// EmptyChestResponse is returned after a treasure chest is looted.
type EmptyChestResponse struct {
	Success      bool                `json:"success"`
	Chunk        worldgen.ChunkCoord `json:"chunk"`
	CellX        int                 `json:"cell_x"`
	CellZ        int                 `json:"cell_z"`
	ChestEmptied bool                `json:"chest_emptied"`
}

// ResetOverlaysResponse is returned after a chunk's overlay rows are cleared.
type ResetOverlaysResponse struct {
	Success bool                `json:"success"`
	Chunk   worldgen.ChunkCoord `json:"chunk"`
	Cleared int64               `json:"cleared"`
}
