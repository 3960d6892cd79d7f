package ports

import "burrowverse/internal/domain/grid"

// GridService reports terrain facts. Calls are synchronous and in-memory;
// behavior steps issue them on every turn.
type GridService interface {
	IsValid(c grid.Cell) bool
	IsWalkable(c grid.Cell) bool
	TileKind(c grid.Cell) grid.TileKind
	Size() grid.Size

	// Projection between world-space points and cells. Only the
	// player-input path uses these; AI steps stay on the grid.
	GridToWorld(c grid.Cell) (x, y float64)
	WorldToGrid(x, y float64) grid.Cell
}

// Pathfinder computes a route between two cells under a traversal
// predicate. Implementations return the full waypoint chain including the
// start cell; callers flatten it and take one step per turn. A nil or
// always-false predicate route failure surfaces as ErrPathUnavailable.
type Pathfinder interface {
	FindPath(start, goal grid.Cell, canEnter func(grid.Cell) bool) ([]grid.Cell, error)
}
