package behavior

import (
	"math"

	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

const wanderGoalAttempts = 8

// canEnter builds the traversal predicate the pathfinder and flee search
// use for this agent's species.
func (s *stepState) canEnter() func(grid.Cell) bool {
	g := s.engine.Grid
	crossesWater := s.agent.Params.CrossesWater
	return func(c grid.Cell) bool {
		if !g.IsValid(c) {
			return false
		}
		if g.IsWalkable(c) {
			return true
		}
		return crossesWater && g.TileKind(c) == grid.TileWater
	}
}

// stepToward advances one flattened cell along a pathfinder route toward
// goal. An unavailable route holds position; the agent retries on its
// next eligible turn.
func (s *stepState) stepToward(goal grid.Cell) bool {
	a := s.agent
	if a.Position == goal {
		return false
	}
	waypoints, err := s.engine.Path.FindPath(a.Position, goal, s.canEnter())
	if err != nil {
		return false
	}
	next, ok := grid.FirstStep(waypoints)
	if !ok {
		return false
	}
	s.moveTo(next)
	return true
}

func (s *stepState) moveTo(c grid.Cell) {
	a := s.agent
	from := a.Position
	a.MoveTo(c)
	s.event(creature.EventAgentMoved, map[string]any{
		"agent_id": a.ID,
		"from_x":   from.X,
		"from_y":   from.Y,
		"x":        c.X,
		"y":        c.Y,
	})
}

// wander maintains a random destination inside the agent's territory and
// walks toward it, re-rolling on arrival or when the goal stops being
// enterable.
func (s *stepState) wander() bool {
	a := s.agent
	a.State = creature.StateWandering
	if a.WanderGoal == nil || *a.WanderGoal == a.Position || !s.canEnter()(*a.WanderGoal) {
		goal, ok := s.rollWanderGoal()
		if !ok {
			a.WanderGoal = nil
			return false
		}
		a.WanderGoal = &goal
	}
	moved := s.stepToward(*a.WanderGoal)
	if a.Position == *a.WanderGoal {
		a.WanderGoal = nil
	}
	return moved
}

func (s *stepState) rollWanderGoal() (grid.Cell, bool) {
	territory := grid.Territory{Anchor: s.territoryAnchor(), Radius: s.agent.Params.TerritoryRadius}
	bounds := s.engine.Grid.Size()
	enter := s.canEnter()
	for i := 0; i < wanderGoalAttempts; i++ {
		c := territory.RandomCell(s.engine.RNG, bounds)
		if c != s.agent.Position && enter(c) {
			return c, true
		}
	}
	return grid.Cell{}, false
}

// territoryAnchor is the home den when it resolves, else the spawn cell.
func (s *stepState) territoryAnchor() grid.Cell {
	if den, ok := s.engine.denLookup(s.agent.HomeDenID); ok {
		return den.Position()
	}
	return s.agent.TerritoryAnchor
}

// fleeStep moves the agent one cell away from the threat. Destination
// selection: the threat-to-self vector scaled to the species flee
// distance with a spiral search around the aim point, then the cardinal
// step that maximizes post-move distance, then randomized re-aims up to
// the attempt budget. The agent holds position when everything fails.
func (s *stepState) fleeStep(threat creature.Agent) bool {
	a := s.agent
	a.State = creature.StateFleeing
	a.TargetID = threat.ID
	a.WanderGoal = nil

	if dest, ok := s.fleeAim(threat.Position); ok && s.stepToward(dest) {
		s.fledEvent(threat)
		return true
	}
	if next, ok := s.bestCardinalAway(threat.Position); ok {
		s.moveTo(next)
		s.fledEvent(threat)
		return true
	}
	for i := 0; i < creature.FleeAttemptBudget; i++ {
		angle := s.engine.RNG.Float64() * 2 * math.Pi
		dest, ok := s.fleeAimAt(math.Cos(angle), math.Sin(angle))
		if !ok {
			continue
		}
		if s.stepToward(dest) {
			s.fledEvent(threat)
			return true
		}
	}
	return false
}

func (s *stepState) fleeAim(threat grid.Cell) (grid.Cell, bool) {
	a := s.agent
	dx := float64(a.Position.X - threat.X)
	dy := float64(a.Position.Y - threat.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return grid.Cell{}, false
	}
	return s.fleeAimAt(dx/length, dy/length)
}

// fleeAimAt projects a unit direction out to the flee distance, clamps
// the aim point to the grid, and spirals around it for the nearest
// enterable, unoccupied cell.
func (s *stepState) fleeAimAt(ux, uy float64) (grid.Cell, bool) {
	a := s.agent
	dist := float64(a.Params.FleeDistance)
	aim := grid.Cell{
		X: a.Position.X + int(math.Round(ux*dist)),
		Y: a.Position.Y + int(math.Round(uy*dist)),
	}
	aim = aim.ClampTo(s.engine.Grid.Size())
	return s.spiralFind(aim)
}

// spiralFind scans rings of increasing Chebyshev radius around center
// and returns the first enterable cell no other agent occupies. The scan
// order is fixed, so identical inputs pick identical cells.
func (s *stepState) spiralFind(center grid.Cell) (grid.Cell, bool) {
	enter := s.canEnter()
	for r := 0; r <= creature.FleeSpiralRadius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if maxInt(absInt(dx), absInt(dy)) != r {
					continue
				}
				c := center.Add(dx, dy)
				if c == s.agent.Position || !enter(c) {
					continue
				}
				if s.engine.Registry.HasOtherAgentAt(s.agent.ID, c) {
					continue
				}
				return c, true
			}
		}
	}
	return grid.Cell{}, false
}

// bestCardinalAway picks the adjacent cell that maximizes Manhattan
// distance from the threat, skipping blocked or occupied cells. Ties keep
// the first direction in the fixed cardinal order.
func (s *stepState) bestCardinalAway(threat grid.Cell) (grid.Cell, bool) {
	a := s.agent
	enter := s.canEnter()
	best := grid.Cell{}
	bestDist := -1
	for _, d := range grid.CardinalDirections {
		c := a.Position.Step(d)
		if !enter(c) || s.engine.Registry.HasOtherAgentAt(a.ID, c) {
			continue
		}
		if dist := grid.Manhattan(c, threat); dist > bestDist {
			best, bestDist = c, dist
		}
	}
	return best, bestDist >= 0
}

func (s *stepState) fledEvent(threat creature.Agent) {
	s.event(creature.EventAgentFled, map[string]any{
		"agent_id":  s.agent.ID,
		"threat_id": threat.ID,
		"x":         s.agent.Position.X,
		"y":         s.agent.Position.Y,
	})
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
