package worldgen

import "math/rand/v2"

// StructureName identifies one entry in the closed catalog of world
// structures. The catalog is fixed in code: adding a variant changes world
// generation output and is a breaking change.
type StructureName string

const (
	StructureNone              StructureName = "None"
	StructureEmptySpace1       StructureName = "EmptySpace1"
	StructureFilledWithChairs1 StructureName = "FilledWithChairs1"
	StructureHouse1            StructureName = "House1"
	StructureStairsAltar1      StructureName = "StairsAltar1"
	StructureStaircaseTower2   StructureName = "StaircaseTower2"
)

// structureNames is the fixed catalog order. Weighted selection iterates it
// in this exact order, so reordering changes which structure a given random
// draw selects.
var structureNames = []StructureName{
	StructureNone,
	StructureEmptySpace1,
	StructureFilledWithChairs1,
	StructureHouse1,
	StructureStairsAltar1,
	StructureStaircaseTower2,
}

// StructureNames returns the structure catalog in its fixed order.
func StructureNames() []StructureName {
	names := make([]StructureName, len(structureNames))
	copy(names, structureNames)
	return names
}

// Radius is the structure's footprint measured in chunks: 1 means the
// structure occupies only its origin chunk, 2 means it also paints chunks
// one step away. None occupies nothing.
func (s StructureName) Radius() int {
	switch s {
	case StructureEmptySpace1, StructureFilledWithChairs1, StructureHouse1, StructureStairsAltar1:
		return 1
	case StructureStaircaseTower2:
		return 2
	default:
		return 0
	}
}

// Weight is the structure's share in weighted selection.
func (s StructureName) Weight() float64 {
	switch s {
	case StructureEmptySpace1:
		return 3.0
	case StructureFilledWithChairs1:
		return 1.0
	case StructureHouse1:
		return 3.0
	case StructureStairsAltar1:
		return 4.0
	case StructureStaircaseTower2:
		return 4.0
	default:
		return 0.0
	}
}

// MaxStructureRadius is the largest radius in the catalog. It bounds the
// neighbor search during chunk synthesis.
func MaxStructureRadius() int {
	max := 0
	for _, s := range structureNames {
		if r := s.Radius(); r > max {
			max = r
		}
	}
	return max
}

// TotalStructureWeight sums the catalog weights.
func TotalStructureWeight() float64 {
	total := 0.0
	for _, s := range structureNames {
		total += s.Weight()
	}
	return total
}

// ChooseStructure picks a structure by roulette-wheel selection: one draw
// in [0, total weight) lands in exactly one variant's cumulative band.
// Zero-weight variants (None) are never selected.
func ChooseStructure(r *rand.Rand) StructureName {
	randWeight := r.Float64() * TotalStructureWeight()

	cumulative := 0.0
	for _, s := range structureNames {
		cumulative += s.Weight()
		if randWeight < cumulative {
			return s
		}
	}
	return StructureNone
}

// GenOriginChunk builds the structure's layout at its origin coordinate.
// Layouts are authored for the default 4x4 grid; on other grid sizes the
// authored cells are placed where they fit and the rest of the grid is left
// as the row default.
func (s StructureName) GenOriginChunk(x, y, z int64) Chunk {
	cells := newCellGrid(Cell{})

	switch s {
	case StructureFilledWithChairs1:
		cells = newCellGrid(Cell{Floor: WallSolid, Special: SpecialChair})

	case StructureHouse1:
		cells = newCellGrid(NewFlooredCell())
		setCell(cells, 1, 1, Cell{
			WallTop:  WallSolidWithDoorGap,
			WallLeft: WallSolid,
			Floor:    WallSolid,
			Ceiling:  WallSolid,
			DoorTop:  true,
		})
		setCell(cells, 1, 2, Cell{
			WallTop:   WallSolidWithWindowGap,
			WallRight: WallSolid,
			Floor:     WallSolid,
			Ceiling:   WallSolid,
			WindowTop: true,
		})
		setCell(cells, 2, 1, Cell{
			WallBottom: WallSolid,
			WallLeft:   WallSolid,
			Floor:      WallSolid,
			Ceiling:    WallSolid,
			Special:    SpecialChair,
		})
		setCell(cells, 2, 2, Cell{
			WallBottom: WallSolid,
			WallRight:  WallSolid,
			Floor:      WallSolid,
			Ceiling:    WallSolid,
			Special:    SpecialTreasureChest,
		})

	case StructureStairsAltar1:
		// A raised altar platform: floored ring, a stairway leading up to a
		// walled altar cell holding a treasure chest.
		cells = newCellGrid(NewFlooredCell())
		setCell(cells, 1, 1, Cell{
			Floor:   WallSolid,
			Special: SpecialStairs,
		})
		setCell(cells, 1, 2, Cell{
			WallTop:   WallSolidWithDoorGap,
			WallRight: WallSolid,
			Floor:     WallSolid,
			DoorTop:   true,
			Special:   SpecialTreasureChest,
		})
		setCell(cells, 2, 1, Cell{
			Floor:   WallSolid,
			Special: SpecialStairs,
		})
		setCell(cells, 2, 2, Cell{
			WallBottom: WallSolid,
			WallRight:  WallSolid,
			Floor:      WallSolid,
			Special:    SpecialChair,
		})

	case StructureStaircaseTower2:
		setCell(cells, 2, 2, Cell{
			WallTop:    WallSolid,
			WallBottom: WallSolid,
			WallLeft:   WallSolid,
			WallRight:  WallSolid,
			Special:    SpecialStaircase,
		})
	}

	return Chunk{X: x, Y: y, Z: z, Cells: cells, Structure: s}
}

// GenChunks builds every chunk the structure paints, origin included.
// Multi-chunk structures mark their painted non-origin chunks with
// Structure None so only the origin reports the structure.
func (s StructureName) GenChunks(x, y, z int64) []Chunk {
	switch s {
	case StructureNone:
		return nil

	case StructureStaircaseTower2:
		below := Chunk{
			X: x, Y: y - 1, Z: z,
			Cells:     newCellGrid(NewFlooredCell()),
			Structure: StructureNone,
		}
		setCell(below.Cells, 2, 2, Cell{
			WallTop:   WallSolid,
			WallLeft:  WallSolid,
			WallRight: WallSolid,
			Floor:     WallSolid,
			Special:   SpecialStaircase,
		})

		above := Chunk{
			X: x, Y: y + 1, Z: z,
			Cells:     newCellGrid(Cell{}),
			Structure: StructureNone,
		}
		setCell(above.Cells, 2, 2, Cell{
			WallTop:   WallSolid,
			WallLeft:  WallSolid,
			WallRight: WallSolid,
		})
		// loft floor along the far row
		for i := 0; i < GridSize; i++ {
			setCell(above.Cells, 3, i, NewFlooredCell())
		}

		return []Chunk{below, s.GenOriginChunk(x, y, z), above}

	default:
		return []Chunk{s.GenOriginChunk(x, y, z)}
	}
}

func newCellGrid(fill Cell) [][]Cell {
	cells := make([][]Cell, GridSize)
	for h := range cells {
		cells[h] = make([]Cell, GridSize)
		for w := range cells[h] {
			cells[h][w] = fill
		}
	}
	return cells
}

func setCell(cells [][]Cell, h, w int, c Cell) {
	if h < len(cells) && w < len(cells[h]) {
		cells[h][w] = c
	}
}
