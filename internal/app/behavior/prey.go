package behavior

import (
	"burrowverse/internal/app/ports"
	"burrowverse/internal/app/registry"
	"burrowverse/internal/domain/creature"
)

// stepPrey runs the prey machine: decay, den logic, flee, forage, wander.
func (s *stepState) stepPrey() {
	if s.decayOrStarve() {
		return
	}
	if s.agent.Hidden() && !s.maybeExitDen(false) {
		return
	}
	if !s.agent.Hungry() {
		s.homewardStep()
		return
	}
	// A detected predator overrides foraging unless the agent is past
	// the critical threshold, where food outweighs danger.
	if !s.agent.CriticallyHungry() {
		if threat, ok := s.nearestThreat(); ok {
			s.fleeStep(threat)
			return
		}
	}
	s.forageStep()
}

// maybeExitDen applies the hiding rules and reports whether the agent
// left the den and should keep processing this turn. Workers pass
// tryStoredFood so a critical agent eats from the den store before being
// forced outside.
func (s *stepState) maybeExitDen(tryStoredFood bool) bool {
	a := s.agent
	den, ok := s.engine.denLookup(a.InsideDenID)
	if !ok {
		// The den vanished underneath the agent. Eject in place.
		a.InsideDenID = ""
		a.State = creature.StateWandering
		return true
	}
	switch {
	case a.CriticallyHungry():
		if tryStoredFood && s.consumeStoredFood(a.InsideDenID) {
			return false
		}
		s.leaveDen(den)
		return true
	case !a.Hungry():
		a.State = creature.StateHiding
		return false
	default:
		// Moderately hungry: only step out when the surroundings are
		// clear.
		if _, threatened := s.nearestThreat(); threatened {
			a.State = creature.StateHiding
			return false
		}
		s.leaveDen(den)
		return true
	}
}

func (s *stepState) leaveDen(den ports.Hideable) {
	a := s.agent
	den.OnLeave(a.ID)
	denID := a.InsideDenID
	a.InsideDenID = ""
	a.State = creature.StateForaging
	s.event(creature.EventDenLeft, map[string]any{
		"agent_id": a.ID,
		"den_id":   denID,
	})
}

func (s *stepState) enterDen(denID string, den ports.Hideable) {
	a := s.agent
	den.OnEnter(a.ID)
	a.InsideDenID = denID
	a.State = creature.StateHiding
	s.event(creature.EventDenEntered, map[string]any{
		"agent_id": a.ID,
		"den_id":   denID,
	})
}

// homewardStep walks a sated agent toward its den, gated by the species
// move cadence. An agent with no resolvable home rests in place.
func (s *stepState) homewardStep() {
	a := s.agent
	den, ok := s.engine.denLookup(a.HomeDenID)
	if !ok {
		a.State = creature.StateIdle
		return
	}
	if a.Position == den.Position() {
		s.enterDen(a.HomeDenID, den)
		return
	}
	a.State = creature.StateReturningHome
	if !a.TickMoveCadence() {
		return
	}
	s.stepToward(den.Position())
}

func (s *stepState) nearestThreat() (creature.Agent, bool) {
	a := s.agent
	return s.engine.Registry.Nearest(a.Position, a.Params.DetectionRadius, func(o creature.Agent) bool {
		return o.Class() == creature.ClassPredator && !o.Hidden()
	})
}

// forageStep heads for the nearest grown node of the agent's food
// resource, harvesting on arrival. No grown node anywhere means wander.
func (s *stepState) forageStep() {
	a := s.agent
	node, ok := s.engine.Registry.NearestForage(a.Position, -1, a.Params.FoodResource)
	if !ok {
		s.wander()
		return
	}
	a.State = creature.StateForaging
	if a.Position != node.Cell {
		s.stepToward(node.Cell)
	}
	if a.Position == node.Cell {
		s.harvest(node, 1, false)
	}
}

// harvest consumes a grown node: the node reverts to growing and the
// agent restores hunger by the node amount times mult. Workers also pouch
// a carried record of what they took.
func (s *stepState) harvest(node registry.ForageNode, mult float64, carryRecord bool) {
	a := s.agent
	harvested, err := s.engine.Registry.HarvestForage(node.ID)
	if err != nil {
		// Raced against another agent this turn; treat as target gone.
		return
	}
	restore := harvested.Restore
	if mult != 1 {
		restore = int(float64(restore) * mult)
	}
	a.RestoreHunger(restore)
	if carryRecord {
		a.Carry(creature.ItemRecord{Kind: harvested.Resource, Origin: harvested.ID})
	}
	s.event(creature.EventForageHarvested, map[string]any{
		"agent_id": a.ID,
		"node_id":  harvested.ID,
		"restored": restore,
		"hunger":   a.Hunger,
	})
}
