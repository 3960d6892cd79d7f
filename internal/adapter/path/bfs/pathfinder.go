package bfs

import (
	"fmt"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/grid"
)

const defaultMaxExpansions = 16384

// Pathfinder is a breadth-first route finder over cardinal neighbors.
// Routes are shortest in step count; ties resolve in the fixed neighbor
// order so equal-length routes come out identical every run.
type Pathfinder struct {
	// MaxExpansions bounds the search frontier. Zero means the default
	// cap.
	MaxExpansions int
}

func New() *Pathfinder { return &Pathfinder{} }

// FindPath returns the waypoint chain from start to goal, start
// included. Unreachable goals, nil predicates and exhausted search
// budgets all surface as ErrPathUnavailable.
func (p *Pathfinder) FindPath(start, goal grid.Cell, canEnter func(grid.Cell) bool) ([]grid.Cell, error) {
	if start == goal {
		return []grid.Cell{start}, nil
	}
	if canEnter == nil || !canEnter(goal) {
		return nil, fmt.Errorf("path to (%d,%d): %w", goal.X, goal.Y, ports.ErrPathUnavailable)
	}

	limit := p.MaxExpansions
	if limit <= 0 {
		limit = defaultMaxExpansions
	}

	prev := make(map[grid.Cell]grid.Cell)
	visited := map[grid.Cell]bool{start: true}
	queue := []grid.Cell{start}
	expansions := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		expansions++
		if expansions > limit {
			break
		}
		for _, d := range grid.CardinalDirections {
			next := cur.Step(d)
			if visited[next] || !canEnter(next) {
				continue
			}
			visited[next] = true
			prev[next] = cur
			if next == goal {
				return assemble(prev, start, goal), nil
			}
			queue = append(queue, next)
		}
	}
	return nil, fmt.Errorf("path (%d,%d)->(%d,%d): %w", start.X, start.Y, goal.X, goal.Y, ports.ErrPathUnavailable)
}

func assemble(prev map[grid.Cell]grid.Cell, start, goal grid.Cell) []grid.Cell {
	path := []grid.Cell{goal}
	for cur := goal; cur != start; {
		cur = prev[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
