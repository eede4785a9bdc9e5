package worldgen

import (
	"math"
	"testing"
)

func TestMarkerFromPosition(t *testing.T) {
	tests := []struct {
		name string
		pos  WorldPosition
		want ChunkCellMarker
	}{
		{
			name: "world origin sits mid-grid in chunk zero",
			pos:  WorldPosition{0, 0, 0},
			want: ChunkCellMarker{ChunkX: 0, ChunkY: 0, ChunkZ: 0, X: 1, Z: 1},
		},
		{
			name: "positive chunk boundary",
			pos:  WorldPosition{8, 0, 0},
			want: ChunkCellMarker{ChunkX: 1, ChunkY: 0, ChunkZ: 0, X: 3, Z: 1},
		},
		{
			name: "negative lateral position",
			pos:  WorldPosition{-9, 0, 0},
			want: ChunkCellMarker{ChunkX: -1, ChunkY: 0, ChunkZ: 0, X: 0, Z: 1},
		},
		{
			name: "below ground floor",
			pos:  WorldPosition{0, -0.5, 0},
			want: ChunkCellMarker{ChunkX: 0, ChunkY: -1, ChunkZ: 0, X: 1, Z: 1},
		},
		{
			name: "one cell height up",
			pos:  WorldPosition{0, 4, 0},
			want: ChunkCellMarker{ChunkX: 0, ChunkY: 1, ChunkZ: 0, X: 1, Z: 1},
		},
		{
			name: "far corner of chunk zero",
			pos:  WorldPosition{7.9, 0, 7.9},
			want: ChunkCellMarker{ChunkX: 0, ChunkY: 0, ChunkZ: 0, X: 0, Z: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkerFromPosition(tt.pos)
			if got != tt.want {
				t.Errorf("MarkerFromPosition(%+v) = %+v, want %+v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestWorldPositionValidate(t *testing.T) {
	valid := []WorldPosition{
		{0, 0, 0},
		{-1e9, 42.5, 1e9},
	}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, want nil", p, err)
		}
	}

	invalid := []WorldPosition{
		{math.NaN(), 0, 0},
		{0, math.Inf(1), 0},
		{0, 0, math.Inf(-1)},
	}
	for _, p := range invalid {
		if err := p.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", p)
		}
	}
}

func TestMarkerAccessors(t *testing.T) {
	m := ChunkCellMarker{ChunkX: 1, ChunkY: -2, ChunkZ: 3, X: 0, Z: 2}

	if got := m.ChunkXYZ(); got != (ChunkCoord{1, -2, 3}) {
		t.Errorf("ChunkXYZ() = %+v, want {1 -2 3}", got)
	}
	x, z := m.CellXZ()
	if x != 0 || z != 2 {
		t.Errorf("CellXZ() = (%d,%d), want (0,2)", x, z)
	}
}

func TestMarkerToRNG(t *testing.T) {
	m := ChunkCellMarker{ChunkX: 1, ChunkY: 0, ChunkZ: -4, X: 2, Z: 3}

	r1 := m.ToRNG()
	r2 := m.ToRNG()
	for i := 0; i < 16; i++ {
		if r1.Float64() != r2.Float64() {
			t.Fatal("same marker produced different streams")
		}
	}

	other := ChunkCellMarker{ChunkX: 1, ChunkY: 0, ChunkZ: -4, X: 3, Z: 3}
	r3 := m.ToRNG()
	r4 := other.ToRNG()
	same := true
	for i := 0; i < 8; i++ {
		if r3.Float64() != r4.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("neighboring cells produced identical opening streams")
	}
}
