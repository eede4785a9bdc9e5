package worldgen

// Chunk is one cube of the world lattice: a GridSize x GridSize cell grid
// plus the structure occupying it, if any. Chunks are value objects; every
// field is derived purely from (seed, x, y, z).
type Chunk struct {
	X         int64         `json:"x"`
	Y         int64         `json:"y"`
	Z         int64         `json:"z"`
	Cells     [][]Cell      `json:"cells"`
	Structure StructureName `json:"structure"`
}

// ChunkCoord addresses a chunk on the lattice.
type ChunkCoord struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
}

// ChunkFromXYZSeed deterministically generates the chunk at (x, y, z).
// Equal inputs always produce equal chunks; no other state is consulted.
//
// Generation order is load-bearing. The chunk's own stream first decides
// whether the chunk hosts a structure, then (for maze chunks) carves the
// maze, and finally places specials. Floor and ceiling breaks draw from
// composite boundary streams shared with the vertical neighbor, so both
// sides of every boundary always agree. Last, nearby chunks are searched
// for multi-chunk structures that paint over this coordinate.
func ChunkFromXYZSeed(seed uint32, x, y, z int64) Chunk {
	rng := RNGFromXYZSeed(seed, x, y, z)

	if chunkHasStructure(seed, x, y, z) {
		return ChooseStructure(rng).GenOriginChunk(x, y, z)
	}

	cells := MazeFromRNG(rng, GridSize, GridSize)

	// Midpoint portals on all four lateral faces keep every chunk
	// reachable from its lateral neighbors.
	mid := GridSize / 2
	cells[mid][0].WallLeft = WallNone
	cells[mid][GridSize-1].WallRight = WallNone
	cells[0][mid].WallTop = WallNone
	cells[GridSize-1][mid].WallBottom = WallNone

	for h := 0; h < GridSize; h++ {
		for w := 0; w < GridSize; w++ {
			below := RNGFromString(seedStringFromNeighbors(seed,
				NeighborCell{x, y - 1, z, w, h},
				NeighborCell{x, y, z, w, h},
			))
			if randBool(below, wallBreakProb) {
				cells[h][w].Floor = WallNone
			}

			above := RNGFromString(seedStringFromNeighbors(seed,
				NeighborCell{x, y, z, w, h},
				NeighborCell{x, y + 1, z, w, h},
			))
			if randBool(above, wallBreakProb) {
				cells[h][w].Ceiling = WallNone
			}
		}
	}

	// Specials land only on cells that still have a solid floor, at most
	// one special per cell. Every variant consumes exactly one draw from
	// the chunk stream whether or not it spawns.
	var floored []gridPos
	for h := 0; h < GridSize; h++ {
		for w := 0; w < GridSize; w++ {
			if cells[h][w].Floor == WallSolid {
				floored = append(floored, gridPos{w, h})
			}
		}
	}

	for _, spec := range cellSpecials {
		if len(floored) == 0 {
			break
		}
		if randBool(rng, spec.SpawnProb()) {
			i := rng.IntN(len(floored))
			pos := floored[i]
			floored = append(floored[:i], floored[i+1:]...)
			cells[pos.y][pos.x].Special = spec
		}
	}

	// A structure whose origin lies within the maximum radius may paint
	// over this coordinate; painted chunks are never eligible origins
	// themselves, so the recursion cannot cascade.
	searchRadius := int64(MaxStructureRadius()) - 1
	if searchRadius > 0 {
		for sx := x - searchRadius; sx <= x+searchRadius; sx++ {
			for sy := y - searchRadius; sy <= y+searchRadius; sy++ {
				for sz := z - searchRadius; sz <= z+searchRadius; sz++ {
					if sx == x && sy == y && sz == z {
						continue
					}
					if !chunkHasStructure(seed, sx, sy, sz) {
						continue
					}

					origin := ChunkFromXYZSeed(seed, sx, sy, sz)
					for _, ch := range origin.Structure.GenChunks(sx, sy, sz) {
						if ch.X == x && ch.Y == y && ch.Z == z {
							return ch
						}
					}
				}
			}
		}
	}

	return Chunk{X: x, Y: y, Z: z, Cells: cells, Structure: StructureNone}
}

// MakeNeighboringChunksXYZ enumerates every chunk coordinate within the
// given render distances of chunk, itself included. Distance d spans
// 2d-1 coordinates along its axis; any zero distance yields no chunks.
func MakeNeighboringChunksXYZ(chunk ChunkCoord, xDist, yDist, zDist uint32) []ChunkCoord {
	if xDist == 0 || yDist == 0 || zDist == 0 {
		return nil
	}

	xr := int64(xDist) - 1
	yr := int64(yDist) - 1
	zr := int64(zDist) - 1

	coords := make([]ChunkCoord, 0, (2*xr+1)*(2*yr+1)*(2*zr+1))
	for i := chunk.X - xr; i <= chunk.X+xr; i++ {
		for j := chunk.Y - yr; j <= chunk.Y+yr; j++ {
			for k := chunk.Z - zr; k <= chunk.Z+zr; k++ {
				coords = append(coords, ChunkCoord{i, j, k})
			}
		}
	}
	return coords
}

// chunkHasStructure mirrors the first draw of ChunkFromXYZSeed: a fresh
// chunk stream's opening boolean decides structure occupancy, so this check
// agrees with full generation without building the chunk.
func chunkHasStructure(seed uint32, x, y, z int64) bool {
	rng := RNGFromXYZSeed(seed, x, y, z)
	return randBool(rng, structureGenProb)
}
