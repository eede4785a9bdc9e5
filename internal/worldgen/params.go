package worldgen

import (
	"fmt"
	"math"
)

// World tunables. These are fixed for the lifetime of the process: Configure
// may be called once at startup (before any generation), after which every
// generation function treats them as immutable constants. All generation is
// a pure function of (seed, coordinates) under a fixed set of tunables.
var (
	// ChunkSize is the world-unit edge length of a chunk cube.
	ChunkSize = 16.0
	// CellSize is the world-unit edge length of a single cell.
	CellSize = 4.0
	// GridSize is the number of cells per chunk edge (ChunkSize / CellSize).
	GridSize = 4

	// wallBreakProb is the probability that a shared floor/ceiling between
	// two vertically adjacent cells is open.
	wallBreakProb = 0.2
	// structureGenProb is the probability that a chunk hosts a world
	// structure instead of a carved maze.
	structureGenProb = 0.18
)

// Params holds the world generation tunables supplied at startup.
type Params struct {
	ChunkSize        float64
	CellSize         float64
	WallBreakProb    float64
	StructureGenProb float64
}

// DefaultParams returns the built-in world tunables.
func DefaultParams() Params {
	return Params{
		ChunkSize:        16.0,
		CellSize:         4.0,
		WallBreakProb:    0.2,
		StructureGenProb: 0.18,
	}
}

// Validate checks the generation invariants: cell size must divide chunk
// size evenly and probabilities must be within [0, 1].
func (p Params) Validate() error {
	if p.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %v", p.CellSize)
	}
	if p.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %v", p.ChunkSize)
	}
	if math.Mod(p.ChunkSize, p.CellSize) != 0 {
		return fmt.Errorf("chunk size %v is not evenly divisible by cell size %v", p.ChunkSize, p.CellSize)
	}
	if p.WallBreakProb < 0 || p.WallBreakProb > 1 {
		return fmt.Errorf("wall break probability must be in [0,1], got %v", p.WallBreakProb)
	}
	if p.StructureGenProb < 0 || p.StructureGenProb > 1 {
		return fmt.Errorf("structure generation probability must be in [0,1], got %v", p.StructureGenProb)
	}
	return nil
}

// Configure installs the world tunables. It must be called before any
// generation occurs; a validation failure here is fatal to the caller, not a
// per-call error.
func Configure(p Params) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid world parameters: %w", err)
	}

	ChunkSize = p.ChunkSize
	CellSize = p.CellSize
	GridSize = int(p.ChunkSize / p.CellSize)
	wallBreakProb = p.WallBreakProb
	structureGenProb = p.StructureGenProb
	return nil
}
