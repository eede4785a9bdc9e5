package worldgen

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
)

// SeedFromString digests a string into a 32-bit seed by summing its byte
// values with wraparound addition. This is deliberately a weak digest:
// collisions between distinct strings are acceptable because only
// reproducibility matters, and changing the digest would silently change
// every generated world.
func SeedFromString(s string) uint32 {
	var digest uint32
	for _, b := range []byte(strings.TrimSpace(s)) {
		digest += uint32(b)
	}
	return digest
}

// seedToRNG expands a 32-bit digest into a full PRNG seed state by placing
// it in the low-order bytes of a zeroed 32-byte buffer. ChaCha8's fixed-size
// seed state makes the stream stable across processes and platforms.
func seedToRNG(value uint32) *rand.Rand {
	var seed [32]byte
	binary.LittleEndian.PutUint32(seed[:4], value)
	return rand.New(rand.NewChaCha8(seed))
}

// RNGFromString derives a deterministic random stream from a string key.
func RNGFromString(s string) *rand.Rand {
	return seedToRNG(SeedFromString(s))
}

// RNGFromXYZSeed derives a chunk's own random stream from the global seed
// and its lattice coordinate.
func RNGFromXYZSeed(seed uint32, x, y, z int64) *rand.Rand {
	return RNGFromString(fmtSeedString(seed, x, y, z))
}

func fmtSeedString(seed uint32, x, y, z int64) string {
	return fmt.Sprintf("%d-%d_%d_%d", seed, x, y, z)
}

// NeighborCell identifies one side of a shared cell boundary: the owning
// chunk's coordinate plus the cell's (x, z) position within its grid.
type NeighborCell struct {
	ChunkX int64
	ChunkY int64
	ChunkZ int64
	CellX  int
	CellZ  int
}

// seedStringFromNeighbors builds the composite key for a boundary shared by
// two neighboring cells. Both chunks must pass the two sides in the same
// fixed order (lesser coordinate first), so whichever chunk is generating
// derives the identical stream and the boundary decision always agrees.
func seedStringFromNeighbors(seed uint32, lesser, greater NeighborCell) string {
	return fmt.Sprintf(
		"%d-%d_%d_%d_%d_%d-%d_%d_%d_%d_%d",
		seed,
		lesser.ChunkX, lesser.ChunkY, lesser.ChunkZ, lesser.CellX, lesser.CellZ,
		greater.ChunkX, greater.ChunkY, greater.ChunkZ, greater.CellX, greater.CellZ,
	)
}

// randBool draws one boolean that is true with probability p. It always
// consumes exactly one draw from the stream, even for p = 0, so callers can
// rely on stream alignment staying identical across code paths.
func randBool(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}
