package creature

import (
	"burrowverse/internal/domain/grid"
)

// Agent is one simulated creature. The registry owns the instance; behavior
// machines mutate it only through the methods below and registry calls.
type Agent struct {
	ID      string
	Species Species

	Position     grid.Cell
	PrevPosition grid.Cell

	// TerritoryAnchor pins the wander territory; it is the spawn cell and
	// never moves with the agent.
	TerritoryAnchor grid.Cell

	Hunger     int
	GroupCount int

	// Den references are ids resolved through the den directory, never
	// held pointers: dens and agents die independently.
	HomeDenID   string
	InsideDenID string

	Carried []ItemRecord

	State      State
	StallTurns int

	// WanderGoal is the current wander destination, nil when none.
	WanderGoal *grid.Cell

	// TargetID is the transient per-turn selection (hunted or fled-from
	// agent); the scheduler wipes it at end of turn.
	TargetID string

	// ChaseTargetID and ChaseStreak track a predator's pursuit across
	// turns; they reset on kill, target change, or escalation.
	ChaseTargetID string
	ChaseStreak   int

	// QueuedDash holds the multi-cell dash to execute next turn.
	QueuedDash []grid.Cell

	// MoveTick drives the per-species move cadence.
	MoveTick int

	// EncounteredAgent is set by a behavior step that walked through
	// another agent's cell; conflict resolution consumes and clears it.
	EncounteredAgent bool

	SpawnTurn uint64

	Params SpeciesParams
}

func NewAgent(id string, species Species, at grid.Cell, params SpeciesParams, spawnTurn uint64) *Agent {
	return &Agent{
		ID:              id,
		Species:         species,
		Position:        at,
		PrevPosition:    at,
		TerritoryAnchor: at,
		Hunger:          params.MaxHunger,
		GroupCount:      params.GroupCount,
		State:           StateWandering,
		SpawnTurn:       spawnTurn,
		Params:          params,
	}
}

func (a *Agent) Class() Class {
	return a.Species.Class()
}

// DecayHunger lowers hunger toward the floor and reports whether the
// agent starved (hit exactly zero on this call).
func (a *Agent) DecayHunger(n int) bool {
	if n <= 0 || a.Hunger == 0 {
		return false
	}
	a.Hunger -= n
	if a.Hunger <= 0 {
		a.Hunger = 0
		return true
	}
	return false
}

// RestoreHunger raises hunger, clamped to the species maximum.
func (a *Agent) RestoreHunger(n int) {
	if n <= 0 {
		return
	}
	a.Hunger += n
	if a.Hunger > a.Params.MaxHunger {
		a.Hunger = a.Params.MaxHunger
	}
}

// TakeHit removes one from the group count and reports whether the agent
// is destroyed.
func (a *Agent) TakeHit() bool {
	if a.GroupCount > 0 {
		a.GroupCount--
	}
	return a.GroupCount == 0
}

// MoveTo records a grid step, keeping the previous cell for conflict
// reverts.
func (a *Agent) MoveTo(c grid.Cell) {
	a.PrevPosition = a.Position
	a.Position = c
}

// RevertMove undoes the current turn's step.
func (a *Agent) RevertMove() {
	a.Position = a.PrevPosition
}

func (a *Agent) Moved() bool {
	return a.Position != a.PrevPosition
}

func (a *Agent) Hidden() bool {
	return a.InsideDenID != ""
}

func (a *Agent) Hungry() bool {
	return a.Params.Hungry(a.Hunger)
}

func (a *Agent) CriticallyHungry() bool {
	return a.Params.Critical(a.Hunger)
}

func (a *Agent) Carry(item ItemRecord) {
	a.Carried = append(a.Carried, item)
}

// DropAllCarried empties the carried list and returns it in carry order.
func (a *Agent) DropAllCarried() []ItemRecord {
	out := a.Carried
	a.Carried = nil
	return out
}

// TickMoveCadence advances the cadence counter and reports whether a
// cadence-gated step is allowed this turn.
func (a *Agent) TickMoveCadence() bool {
	a.MoveTick++
	return a.Params.MoveEvery <= 1 || a.MoveTick%a.Params.MoveEvery == 0
}

// ClearTransientTargets drops the cross-references the scheduler wipes at
// end of turn.
func (a *Agent) ClearTransientTargets() {
	a.TargetID = ""
	a.EncounteredAgent = false
}
