package worldgen

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// WorldPosition is a point in continuous world space. Chunks are centered
// laterally on their lattice coordinate, so position zero sits in the
// middle of chunk (0, 0, 0).
type WorldPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Validate rejects positions that cannot be mapped onto the lattice.
func (p WorldPosition) Validate() error {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) {
			return fmt.Errorf("world position contains NaN: %+v", p)
		}
		if math.IsInf(v, 0) {
			return fmt.Errorf("world position contains infinity: %+v", p)
		}
	}
	return nil
}

// ChunkCellMarker addresses one cell in the world: the chunk's lattice
// coordinate plus the cell's (x, z) position within the chunk grid.
type ChunkCellMarker struct {
	ChunkX int64 `json:"chunk_x"`
	ChunkY int64 `json:"chunk_y"`
	ChunkZ int64 `json:"chunk_z"`
	X      int   `json:"x"`
	Z      int   `json:"z"`
}

// MarkerFromPosition maps a continuous world position to the chunk and
// cell that contain it. Lateral axes are offset by half a chunk because
// chunks are centered on their coordinate; the vertical axis stacks cells
// directly. Cell indices count down from the far edge of the grid.
func MarkerFromPosition(p WorldPosition) ChunkCellMarker {
	gridSizeMinusOne := (ChunkSize / CellSize) - 1.0
	halfChunkSize := ChunkSize / 2.0

	offsetX := p.X + halfChunkSize
	offsetZ := p.Z + halfChunkSize

	chunkX := int64(math.Floor(offsetX / ChunkSize))
	chunkY := int64(math.Floor(p.Y / CellSize))
	chunkZ := int64(math.Floor(offsetZ / ChunkSize))

	x := int(gridSizeMinusOne - math.Floor((offsetX-float64(chunkX)*ChunkSize)/CellSize))
	z := int(gridSizeMinusOne - math.Floor((offsetZ-float64(chunkZ)*ChunkSize)/CellSize))

	return ChunkCellMarker{
		ChunkX: chunkX,
		ChunkY: chunkY,
		ChunkZ: chunkZ,
		X:      x,
		Z:      z,
	}
}

// ChunkXYZ returns the marker's chunk coordinate.
func (m ChunkCellMarker) ChunkXYZ() ChunkCoord {
	return ChunkCoord{X: m.ChunkX, Y: m.ChunkY, Z: m.ChunkZ}
}

// CellXZ returns the marker's cell position within its chunk.
func (m ChunkCellMarker) CellXZ() (int, int) {
	return m.X, m.Z
}

// ToRNG derives a deterministic stream keyed to this one cell, for
// per-cell cosmetic decisions that must be stable across sessions.
func (m ChunkCellMarker) ToRNG() *rand.Rand {
	return RNGFromString(fmt.Sprintf(
		"%d,%d,%d_%d,%d",
		m.ChunkX, m.ChunkY, m.ChunkZ, m.X, m.Z,
	))
}
