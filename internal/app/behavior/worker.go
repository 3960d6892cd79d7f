package behavior

import (
	"log/slog"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/app/registry"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

// stepWorker extends the prey machine with carrying, deposit, and the
// den food store.
func (s *stepState) stepWorker() {
	a := s.agent
	if _, ok := s.engine.denLookup(a.HomeDenID); !ok {
		// An unhomed worker is parked until a den claims it: no decay,
		// no movement.
		if !a.Hidden() {
			a.State = creature.StateIdle
		}
		return
	}
	if s.decayOrStarve() {
		return
	}
	if a.Hidden() && !s.maybeExitDen(true) {
		return
	}
	if a.Hungry() && !a.CriticallyHungry() {
		if threat, ok := s.nearestThreat(); ok {
			s.fleeStep(threat)
			return
		}
	}
	if len(a.Carried) > 0 {
		s.carryHomeStep()
		return
	}
	if a.Hungry() {
		s.gatherStep()
		return
	}
	s.homewardStep()
}

// carryHomeStep hauls the load straight home, depositing on arrival.
func (s *stepState) carryHomeStep() {
	a := s.agent
	den, ok := s.engine.denLookup(a.HomeDenID)
	if !ok {
		a.State = creature.StateWandering
		return
	}
	if a.Position != den.Position() {
		a.State = creature.StateCarrying
		s.stepToward(den.Position())
		if a.Position != den.Position() {
			return
		}
	}
	s.depositAll()
}

// depositAll hands every carried item to the den inventory and clears the
// load. Food items roll the worker bonus for a duplicate deposit.
func (s *stepState) depositAll() {
	a := s.agent
	inv := s.engine.Inventory
	if inv == nil {
		s.engine.warn("den inventory missing, deposit skipped", slog.String("agent_id", a.ID))
		return
	}
	a.State = creature.StateDepositing
	items := a.DropAllCarried()
	deposited := 0
	for _, item := range items {
		inv.Deposit(a.HomeDenID, item)
		deposited++
		if item.Kind.IsFood() && s.engine.WorkerBonusRate > 0 && s.engine.RNG.Float64() < s.engine.WorkerBonusRate {
			inv.Deposit(a.HomeDenID, item)
			deposited++
		}
	}
	s.out.Deposited = deposited
	s.event(creature.EventItemsDeposited, map[string]any{
		"agent_id": a.ID,
		"den_id":   a.HomeDenID,
		"carried":  len(items),
		"bonus":    deposited - len(items),
	})
}

// gatherStep targets the nearer of a grown food node or a loose ground
// item. Harvesting both feeds the worker (at its multiplier) and pouches
// a record; a pickup only pouches.
func (s *stepState) gatherStep() {
	a := s.agent
	node, nodeOK := s.engine.Registry.NearestForage(a.Position, -1, a.Params.FoodResource)
	item, itemOK := s.engine.Registry.NearestGroundItem(a.Position, -1)
	switch {
	case !nodeOK && !itemOK:
		s.wander()
	case nodeOK && (!itemOK || grid.Manhattan(a.Position, node.Cell) <= grid.Manhattan(a.Position, item.Cell)):
		a.State = creature.StateForaging
		if a.Position != node.Cell {
			s.stepToward(node.Cell)
		}
		if a.Position == node.Cell {
			s.harvest(node, a.Params.WorkerRestoreMult, true)
		}
	default:
		a.State = creature.StateForaging
		if a.Position != item.Cell {
			s.stepToward(item.Cell)
		}
		if a.Position == item.Cell {
			s.pickUp(item)
		}
	}
}

func (s *stepState) pickUp(item registry.GroundItem) {
	a := s.agent
	taken, err := s.engine.Registry.TakeGroundItem(item.ID)
	if err != nil {
		// Another worker got there first this turn.
		return
	}
	a.Carry(taken.Item)
	s.event(creature.EventItemPickedUp, map[string]any{
		"agent_id": a.ID,
		"item_id":  taken.ID,
		"kind":     string(taken.Item.Kind),
	})
}

// consumeStoredFood lets a critically hungry hidden worker eat from the
// den store instead of leaving cover.
func (s *stepState) consumeStoredFood(denID string) bool {
	inv := s.engine.Inventory
	if inv == nil || !inv.HasStoredFood(denID) {
		return false
	}
	restored := inv.SpendStoredFood(denID)
	if restored <= 0 {
		return false
	}
	a := s.agent
	a.RestoreHunger(restored)
	a.State = creature.StateEatingStored
	s.event(creature.EventStoredFoodConsumed, map[string]any{
		"agent_id": a.ID,
		"den_id":   denID,
		"restored": restored,
		"hunger":   a.Hunger,
	})
	return true
}

func (e *Engine) denLookup(denID string) (ports.Hideable, bool) {
	if denID == "" || e.Dens == nil {
		return nil, false
	}
	return e.Dens.Lookup(denID)
}
