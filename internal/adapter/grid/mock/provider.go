// Package mock provides a configurable grid for tests: every in-bounds
// cell is walkable unless listed in Blocked or Water.
package mock

import "burrowverse/internal/domain/grid"

type Provider struct {
	Bounds   grid.Size
	Blocked  map[grid.Cell]bool
	Water    map[grid.Cell]bool
	DenCells map[grid.Cell]bool
	CellSize float64
}

func (p Provider) IsValid(c grid.Cell) bool {
	return p.Bounds.Contains(c)
}

func (p Provider) IsWalkable(c grid.Cell) bool {
	if !p.Bounds.Contains(c) {
		return false
	}
	return !p.Blocked[c] && !p.Water[c]
}

func (p Provider) TileKind(c grid.Cell) grid.TileKind {
	switch {
	case p.Water[c]:
		return grid.TileWater
	case p.Blocked[c]:
		return grid.TileRock
	case p.DenCells[c]:
		return grid.TileDen
	default:
		return grid.TileSand
	}
}

func (p Provider) Size() grid.Size {
	return p.Bounds
}

func (p Provider) GridToWorld(c grid.Cell) (float64, float64) {
	size := p.cellSize()
	return (float64(c.X) + 0.5) * size, (float64(c.Y) + 0.5) * size
}

func (p Provider) WorldToGrid(x, y float64) grid.Cell {
	size := p.cellSize()
	return grid.Cell{X: int(x / size), Y: int(y / size)}
}

func (p Provider) cellSize() float64 {
	if p.CellSize <= 0 {
		return 1
	}
	return p.CellSize
}
