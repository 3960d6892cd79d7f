package grid

import "math/rand"

// Territory bounds an agent's wandering to a square around its anchor.
type Territory struct {
	Anchor Cell
	Radius int
}

func (t Territory) Contains(c Cell) bool {
	return abs(c.X-t.Anchor.X) <= t.Radius && abs(c.Y-t.Anchor.Y) <= t.Radius
}

// RandomCell picks a uniformly random in-territory cell, clamped to the
// grid. The caller supplies the RNG so runs stay reproducible.
func (t Territory) RandomCell(rng *rand.Rand, bounds Size) Cell {
	span := t.Radius*2 + 1
	c := Cell{
		X: t.Anchor.X - t.Radius + rng.Intn(span),
		Y: t.Anchor.Y - t.Radius + rng.Intn(span),
	}
	return c.ClampTo(bounds)
}
