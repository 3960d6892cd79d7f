package behavior

import (
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

// stepPredator runs the predator machine: cooldowns, target acquisition,
// pursuit, and the same-tile strike. Species variants hang off the base:
// the dash charge when DashRange is set, chase escalation when
// ChaseEscalationAfter is set.
func (s *stepState) stepPredator() {
	a := s.agent
	if a.StallTurns > 0 {
		a.StallTurns--
		a.State = creature.StateStalled
		return
	}
	if s.decayOrStarve() {
		return
	}
	if len(a.QueuedDash) > 0 {
		s.executeDash()
		s.strikeIfSharingTile()
		return
	}

	target, ok := s.nearestTarget()
	if !ok {
		s.breakChase()
		s.wander()
		return
	}
	a.State = creature.StateHunting
	a.TargetID = target.ID
	a.WanderGoal = nil

	if s.trackChase(target.ID) {
		// Too many fruitless turns on the same pursuit: give up and
		// take the extended rest instead of moving.
		return
	}
	if a.Params.DashRange > 1 {
		s.maybeQueueDash(target)
	}
	s.stepToward(target.Position)
	s.strikeIfSharingTile()
}

// nearestTarget finds the closest huntable agent: any non-predator, or a
// predator of strictly lower priority tier. Agents hidden in a den or
// standing on den ground are off the menu.
func (s *stepState) nearestTarget() (creature.Agent, bool) {
	a := s.agent
	tier := a.Params.PriorityTier
	return s.engine.Registry.Nearest(a.Position, a.Params.DetectionRadius, func(o creature.Agent) bool {
		if o.ID == a.ID || o.Hidden() {
			return false
		}
		if s.engine.Grid.TileKind(o.Position) == grid.TileDen {
			return false
		}
		if o.Class() == creature.ClassPredator {
			return o.Params.PriorityTier < tier
		}
		return true
	})
}

// trackChase counts consecutive turns spent on one unresolved pursuit and
// reports whether the chase escalated into an extended stall this turn.
func (s *stepState) trackChase(targetID string) bool {
	a := s.agent
	if a.Params.ChaseEscalationAfter <= 0 {
		return false
	}
	if a.ChaseTargetID == targetID {
		a.ChaseStreak++
	} else {
		a.ChaseTargetID = targetID
		a.ChaseStreak = 1
	}
	if a.ChaseStreak < a.Params.ChaseEscalationAfter {
		return false
	}
	a.StallTurns = a.Params.ExtendedStall
	a.State = creature.StateStalled
	s.breakChase()
	return true
}

func (s *stepState) breakChase() {
	s.agent.ChaseTargetID = ""
	s.agent.ChaseStreak = 0
}

// strikeIfSharingTile lands the hit when the predator stands on a valid
// target's cell. Den ground voids hunting entirely.
func (s *stepState) strikeIfSharingTile() {
	a := s.agent
	if s.engine.Grid.TileKind(a.Position) == grid.TileDen {
		return
	}
	victim, ok := s.victimAt(a.Position)
	if !ok {
		return
	}
	destroyed := victim.TakeHit()
	if destroyed {
		s.engine.Registry.Remove(victim.ID)
	} else if err := s.engine.Registry.Put(victim); err != nil {
		return
	}
	a.StallTurns = a.Params.StallCooldown
	a.State = creature.StateStalled
	a.RestoreHunger(a.Params.ForageRestore)
	a.TargetID = ""
	s.breakChase()
	s.out.Hits = append(s.out.Hits, HitReport{
		VictimID:      victim.ID,
		VictimSpecies: victim.Species,
		Destroyed:     destroyed,
	})
	s.event(creature.EventPredation, map[string]any{
		"predator_id": a.ID,
		"victim_id":   victim.ID,
		"destroyed":   destroyed,
		"group_count": victim.GroupCount,
		"x":           a.Position.X,
		"y":           a.Position.Y,
	})
}

func (s *stepState) victimAt(c grid.Cell) (creature.Agent, bool) {
	a := s.agent
	tier := a.Params.PriorityTier
	return s.engine.Registry.Nearest(c, 0, func(o creature.Agent) bool {
		if o.ID == a.ID || o.Hidden() {
			return false
		}
		if o.Class() == creature.ClassPredator {
			return o.Params.PriorityTier < tier
		}
		return true
	})
}

// maybeQueueDash arms next turn's charge when the target sits on a clear
// straight lane within dash range. The queued cells override normal
// movement for that one turn.
func (s *stepState) maybeQueueDash(target creature.Agent) {
	a := s.agent
	if len(a.QueuedDash) > 0 {
		return
	}
	lane, ok := s.clearLane(a.Position, target.Position, a.Params.DashRange)
	if !ok {
		return
	}
	a.QueuedDash = lane
}

// clearLane returns the cells from just past from up to and including to,
// when both share an axis, the span fits the range, and nothing blocks
// the cells between them.
func (s *stepState) clearLane(from, to grid.Cell, maxRange int) ([]grid.Cell, bool) {
	dist := grid.Manhattan(from, to)
	if dist < 2 || dist > maxRange {
		return nil, false
	}
	if from.X != to.X && from.Y != to.Y {
		return nil, false
	}
	enter := s.canEnter()
	lane := make([]grid.Cell, 0, dist)
	cur := from
	for cur != to {
		cur = grid.StepToward(cur, to)
		if !enter(cur) {
			return nil, false
		}
		if cur != to && s.engine.Registry.HasOtherAgentAt(s.agent.ID, cur) {
			return nil, false
		}
		lane = append(lane, cur)
	}
	return lane, true
}

// executeDash runs the queued charge: the predator advances along the
// lane until terrain stops it or it lands on a body. Landing on something
// it cannot hunt flags the encounter so conflict resolution bounces it
// back.
func (s *stepState) executeDash() {
	a := s.agent
	lane := a.QueuedDash
	a.QueuedDash = nil
	a.State = creature.StateHunting

	enter := s.canEnter()
	landed := a.Position
	for _, c := range lane {
		if !enter(c) {
			break
		}
		landed = c
		if s.engine.Registry.HasOtherAgentAt(a.ID, c) {
			if _, huntable := s.victimAt(c); !huntable {
				a.EncounteredAgent = true
			}
			break
		}
	}
	if landed != a.Position {
		s.moveTo(landed)
	}
}
