package grid

// FlattenSteps expands a waypoint chain into axis-aligned unit steps.
// Each segment walks its horizontal run first, then its vertical run.
// Diagonal or sparse waypoints are therefore legal input; adjacent-cell
// chains pass through unchanged. The starting cell is not included.
func FlattenSteps(waypoints []Cell) []Cell {
	if len(waypoints) < 2 {
		return nil
	}
	out := make([]Cell, 0, len(waypoints))
	cur := waypoints[0]
	for _, wp := range waypoints[1:] {
		for cur.X != wp.X {
			if cur.X < wp.X {
				cur.X++
			} else {
				cur.X--
			}
			out = append(out, cur)
		}
		for cur.Y != wp.Y {
			if cur.Y < wp.Y {
				cur.Y++
			} else {
				cur.Y--
			}
			out = append(out, cur)
		}
	}
	return out
}

// FirstStep returns the single cell a mover may advance to this turn,
// or false when the waypoints carry no movement.
func FirstStep(waypoints []Cell) (Cell, bool) {
	steps := FlattenSteps(waypoints)
	if len(steps) == 0 {
		return Cell{}, false
	}
	return steps[0], true
}

// StepToward is the degenerate one-axis fallback used when no path is
// needed or available: horizontal before vertical, one cell at most.
func StepToward(from, to Cell) Cell {
	next := from
	if from.X < to.X {
		next.X++
		return next
	}
	if from.X > to.X {
		next.X--
		return next
	}
	if from.Y < to.Y {
		next.Y++
		return next
	}
	if from.Y > to.Y {
		next.Y--
	}
	return next
}
