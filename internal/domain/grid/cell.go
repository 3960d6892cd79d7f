package grid

// Cell is an integer grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) Contains(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < s.Width && c.Y < s.Height
}

// Rect is an inclusive cell range used for viewport queries.
type Rect struct {
	Min Cell `json:"min"`
	Max Cell `json:"max"`
}

func (r Rect) Contains(c Cell) bool {
	return c.X >= r.Min.X && c.X <= r.Max.X && c.Y >= r.Min.Y && c.Y <= r.Max.Y
}

func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// ClampTo pulls the cell onto the nearest in-bounds coordinate.
func (c Cell) ClampTo(s Size) Cell {
	out := c
	if out.X < 0 {
		out.X = 0
	}
	if out.Y < 0 {
		out.Y = 0
	}
	if out.X >= s.Width {
		out.X = s.Width - 1
	}
	if out.Y >= s.Height {
		out.Y = s.Height - 1
	}
	return out
}

type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// CardinalDirections lists the four directions in a fixed order so that
// direction scans are reproducible.
var CardinalDirections = []Direction{DirUp, DirDown, DirLeft, DirRight}

func (d Direction) Offset() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) Valid() bool {
	switch d {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	}
	return false
}

func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Offset()
	return c.Add(dx, dy)
}

// Neighbors returns the four cardinal neighbors in fixed direction order.
func (c Cell) Neighbors() [4]Cell {
	return [4]Cell{c.Step(DirUp), c.Step(DirDown), c.Step(DirLeft), c.Step(DirRight)}
}

// DirectionTo names the single step from c to an adjacent cell. Cells
// further than one step away have no direction.
func (c Cell) DirectionTo(o Cell) (Direction, bool) {
	for _, d := range CardinalDirections {
		if c.Step(d) == o {
			return d, true
		}
	}
	return "", false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
