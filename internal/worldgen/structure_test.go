package worldgen

import (
	"math"
	"testing"
)

func TestStructureCatalog(t *testing.T) {
	tests := []struct {
		name   StructureName
		radius int
		weight float64
	}{
		{StructureNone, 0, 0.0},
		{StructureEmptySpace1, 1, 3.0},
		{StructureFilledWithChairs1, 1, 1.0},
		{StructureHouse1, 1, 3.0},
		{StructureStairsAltar1, 1, 4.0},
		{StructureStaircaseTower2, 2, 4.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			if got := tt.name.Radius(); got != tt.radius {
				t.Errorf("Radius() = %d, want %d", got, tt.radius)
			}
			if got := tt.name.Weight(); got != tt.weight {
				t.Errorf("Weight() = %v, want %v", got, tt.weight)
			}
		})
	}

	if got := MaxStructureRadius(); got != 2 {
		t.Errorf("MaxStructureRadius() = %d, want 2", got)
	}
	if got := TotalStructureWeight(); got != 15.0 {
		t.Errorf("TotalStructureWeight() = %v, want 15", got)
	}
}

func TestChooseStructureNeverNone(t *testing.T) {
	r := RNGFromString("choose-structure")
	for i := 0; i < 10000; i++ {
		if s := ChooseStructure(r); s == StructureNone {
			t.Fatal("ChooseStructure returned the zero-weight None variant")
		}
	}
}

func TestChooseStructureWeightedDistribution(t *testing.T) {
	const draws = 50000
	r := RNGFromString("structure-distribution")

	counts := make(map[StructureName]int)
	for i := 0; i < draws; i++ {
		counts[ChooseStructure(r)]++
	}

	total := TotalStructureWeight()
	for _, s := range structureNames {
		want := s.Weight() / total
		got := float64(counts[s]) / draws
		if math.Abs(got-want) > 0.02 {
			t.Errorf("structure %s: observed frequency %.4f, want %.4f ± 0.02", s, got, want)
		}
	}
}

func TestGenOriginChunkDimensions(t *testing.T) {
	for _, s := range structureNames {
		chunk := s.GenOriginChunk(1, 2, 3)
		if chunk.X != 1 || chunk.Y != 2 || chunk.Z != 3 {
			t.Errorf("%s: origin chunk at (%d,%d,%d), want (1,2,3)", s, chunk.X, chunk.Y, chunk.Z)
		}
		if chunk.Structure != s {
			t.Errorf("%s: origin chunk reports structure %s", s, chunk.Structure)
		}
		if len(chunk.Cells) != GridSize {
			t.Errorf("%s: %d rows, want %d", s, len(chunk.Cells), GridSize)
		}
	}
}

func TestGenOriginChunkLayouts(t *testing.T) {
	t.Run("FilledWithChairs1", func(t *testing.T) {
		chunk := StructureFilledWithChairs1.GenOriginChunk(0, 0, 0)
		for h := range chunk.Cells {
			for w := range chunk.Cells[h] {
				cell := chunk.Cells[h][w]
				if cell.Floor != WallSolid || cell.Special != SpecialChair {
					t.Fatalf("cell (%d,%d) = %+v, want floored chair", h, w, cell)
				}
			}
		}
	})

	t.Run("House1", func(t *testing.T) {
		chunk := StructureHouse1.GenOriginChunk(0, 0, 0)

		door := chunk.Cells[1][1]
		if door.WallTop != WallSolidWithDoorGap || !door.DoorTop {
			t.Errorf("house door cell = %+v, want door gap on top wall", door)
		}
		window := chunk.Cells[1][2]
		if window.WallTop != WallSolidWithWindowGap || !window.WindowTop {
			t.Errorf("house window cell = %+v, want window gap on top wall", window)
		}
		if chunk.Cells[2][2].Special != SpecialTreasureChest {
			t.Errorf("house chest cell special = %v, want TreasureChest", chunk.Cells[2][2].Special)
		}
		if chunk.Cells[0][0].Floor != WallSolid {
			t.Error("house perimeter cell is not floored")
		}
	})

	t.Run("StairsAltar1", func(t *testing.T) {
		chunk := StructureStairsAltar1.GenOriginChunk(0, 0, 0)

		stairs := 0
		chests := 0
		for h := range chunk.Cells {
			for w := range chunk.Cells[h] {
				switch chunk.Cells[h][w].Special {
				case SpecialStairs:
					stairs++
				case SpecialTreasureChest:
					chests++
				}
			}
		}
		if stairs == 0 {
			t.Error("altar has no stairs")
		}
		if chests != 1 {
			t.Errorf("altar has %d treasure chests, want 1", chests)
		}
	})

	t.Run("StaircaseTower2", func(t *testing.T) {
		chunk := StructureStaircaseTower2.GenOriginChunk(0, 0, 0)
		tower := chunk.Cells[2][2]
		if tower.Special != SpecialStaircase {
			t.Errorf("tower cell special = %v, want Staircase", tower.Special)
		}
		for _, wall := range []CellWall{tower.WallTop, tower.WallBottom, tower.WallLeft, tower.WallRight} {
			if wall != WallSolid {
				t.Errorf("tower cell not fully walled: %+v", tower)
			}
		}
	})
}

func TestGenChunks(t *testing.T) {
	t.Run("None paints nothing", func(t *testing.T) {
		if chunks := StructureNone.GenChunks(0, 0, 0); len(chunks) != 0 {
			t.Errorf("None.GenChunks returned %d chunks", len(chunks))
		}
	})

	t.Run("single-chunk structures paint only the origin", func(t *testing.T) {
		for _, s := range []StructureName{
			StructureEmptySpace1, StructureFilledWithChairs1, StructureHouse1, StructureStairsAltar1,
		} {
			chunks := s.GenChunks(4, 5, 6)
			if len(chunks) != 1 {
				t.Fatalf("%s.GenChunks returned %d chunks, want 1", s, len(chunks))
			}
			if chunks[0].X != 4 || chunks[0].Y != 5 || chunks[0].Z != 6 {
				t.Errorf("%s painted chunk at (%d,%d,%d), want origin",
					s, chunks[0].X, chunks[0].Y, chunks[0].Z)
			}
		}
	})

	t.Run("tower paints three vertical chunks", func(t *testing.T) {
		chunks := StructureStaircaseTower2.GenChunks(0, 10, 0)
		if len(chunks) != 3 {
			t.Fatalf("tower painted %d chunks, want 3", len(chunks))
		}

		wantY := []int64{9, 10, 11}
		for i, ch := range chunks {
			if ch.X != 0 || ch.Z != 0 || ch.Y != wantY[i] {
				t.Errorf("painted chunk %d at (%d,%d,%d), want (0,%d,0)", i, ch.X, ch.Y, ch.Z, wantY[i])
			}
		}

		if chunks[0].Structure != StructureNone || chunks[2].Structure != StructureNone {
			t.Error("painted non-origin chunks must report no structure")
		}
		if chunks[1].Structure != StructureStaircaseTower2 {
			t.Errorf("origin chunk reports %s, want StaircaseTower2", chunks[1].Structure)
		}

		if chunks[0].Cells[2][2].Special != SpecialStaircase {
			t.Error("lower tower chunk missing staircase")
		}
		for i := 0; i < GridSize; i++ {
			if chunks[2].Cells[3][i].Floor != WallSolid {
				t.Errorf("upper tower loft cell %d not floored", i)
			}
		}
	})
}
