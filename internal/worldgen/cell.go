package worldgen

// CellWall is the state of one face of a cell.
type CellWall uint8

const (
	WallNone CellWall = iota
	WallSolid
	WallSolidWithDoorGap
	WallSolidWithWindowGap
)

func (w CellWall) String() string {
	switch w {
	case WallNone:
		return "None"
	case WallSolid:
		return "Solid"
	case WallSolidWithDoorGap:
		return "SolidWithDoorGap"
	case WallSolidWithWindowGap:
		return "SolidWithWindowGap"
	default:
		return "Unknown"
	}
}

// CellSpecial is a special feature placed in a cell.
type CellSpecial uint8

const (
	SpecialNone CellSpecial = iota
	SpecialChair
	SpecialTreasureChest
	SpecialStaircase
	SpecialStairs
)

func (s CellSpecial) String() string {
	switch s {
	case SpecialNone:
		return "None"
	case SpecialChair:
		return "Chair"
	case SpecialTreasureChest:
		return "TreasureChest"
	case SpecialStaircase:
		return "Staircase"
	case SpecialStairs:
		return "Stairs"
	default:
		return "Unknown"
	}
}

// cellSpecials is the fixed iteration order for special placement. It
// includes SpecialNone: the placement loop consumes one random draw per
// variant, so every variant must be visited in this exact order for the
// chunk's random stream to stay aligned.
var cellSpecials = []CellSpecial{
	SpecialNone,
	SpecialChair,
	SpecialTreasureChest,
	SpecialStaircase,
	SpecialStairs,
}

// SpawnProb is the probability that this special is placed in a chunk.
func (s CellSpecial) SpawnProb() float64 {
	switch s {
	case SpecialChair:
		return 0.38
	case SpecialTreasureChest:
		return 0.38
	case SpecialStaircase:
		return 0.18
	case SpecialStairs:
		return 0.18
	default:
		return 0.0
	}
}

// Side names one face of a cell.
type Side uint8

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
	SideUp
	SideDown
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "Top"
	case SideBottom:
		return "Bottom"
	case SideLeft:
		return "Left"
	case SideRight:
		return "Right"
	case SideUp:
		return "Up"
	case SideDown:
		return "Down"
	default:
		return "Unknown"
	}
}

// Cell is one grid cell of a chunk: four lateral walls, a floor and a
// ceiling, door/window flags per lateral side, and an optional special.
type Cell struct {
	WallTop      CellWall    `json:"wall_top"`
	WallBottom   CellWall    `json:"wall_bottom"`
	WallLeft     CellWall    `json:"wall_left"`
	WallRight    CellWall    `json:"wall_right"`
	Floor        CellWall    `json:"floor"`
	Ceiling      CellWall    `json:"ceiling"`
	DoorTop      bool        `json:"door_top"`
	DoorBottom   bool        `json:"door_bottom"`
	DoorLeft     bool        `json:"door_left"`
	DoorRight    bool        `json:"door_right"`
	WindowTop    bool        `json:"window_top"`
	WindowBottom bool        `json:"window_bottom"`
	WindowLeft   bool        `json:"window_left"`
	WindowRight  bool        `json:"window_right"`
	Special      CellSpecial `json:"special"`
}

// NewFlooredCell returns an otherwise empty cell with a solid floor.
func NewFlooredCell() Cell {
	return Cell{Floor: WallSolid}
}
