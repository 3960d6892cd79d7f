package behavior

import (
	"log/slog"
	"math/rand"
	"time"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/app/registry"
	"burrowverse/internal/domain/creature"
)

// Engine runs one agent's behavior step. It reads and writes agents only
// through the registry; the scheduler owns calling order and conflict
// resolution.
type Engine struct {
	Registry  *registry.Registry
	Grid      ports.GridService
	Path      ports.Pathfinder
	Dens      ports.DenDirectory
	Inventory ports.DenInventory

	// WorkerBonusRate is the global probability that a deposited food
	// item duplicates. Zero disables the roll.
	WorkerBonusRate float64

	RNG    *rand.Rand
	Logger *slog.Logger
	Now    func() time.Time
}

// HitReport is one predation strike applied during a step.
type HitReport struct {
	VictimID      string
	VictimSpecies creature.Species
	Destroyed     bool
}

// Outcome summarizes one behavior step for the scheduler's counters and
// journal.
type Outcome struct {
	AgentID   string
	Moved     bool
	Starved   bool
	Skipped   bool
	Hits      []HitReport
	Deposited int
	Events    []creature.Event
}

// Step advances the identified agent by one turn. A missing agent is a
// no-op; a missing collaborator skips the step with a warning and leaves
// the agent untouched.
func (e *Engine) Step(id string, turn uint64) Outcome {
	out := Outcome{AgentID: id}

	a, ok := e.Registry.Get(id)
	if !ok {
		return out
	}
	if a.Class() == creature.ClassPlayer {
		return out
	}
	if e.Grid == nil || e.Path == nil {
		e.warn("collaborator missing, agent step skipped", slog.String("agent_id", id))
		out.Skipped = true
		return out
	}

	st := &stepState{engine: e, agent: &a, turn: turn, out: &out}
	switch a.Class() {
	case creature.ClassPrey:
		st.stepPrey()
	case creature.ClassWorker:
		st.stepWorker()
	case creature.ClassPredator:
		st.stepPredator()
	}
	st.finish()
	return out
}

// stepState carries one step's working set so the species machines stay
// free of plumbing arguments.
type stepState struct {
	engine  *Engine
	agent   *creature.Agent
	turn    uint64
	out     *Outcome
	removed bool
}

// finish writes the settled agent back. A stale reference means the agent
// died during its own step, which only the removal paths may cause.
func (s *stepState) finish() {
	if s.removed {
		return
	}
	if err := s.engine.Registry.Put(*s.agent); err != nil {
		s.engine.warn("agent vanished during step", slog.String("agent_id", s.agent.ID))
	}
	s.out.Moved = s.agent.Moved()
}

// decayOrStarve applies the per-turn hunger tick. On starvation the agent
// is removed and the step ends.
func (s *stepState) decayOrStarve() bool {
	if !s.agent.DecayHunger(creature.HungerDecayPerTurn) {
		return false
	}
	s.out.Starved = true
	s.event(creature.EventAgentStarved, map[string]any{
		"agent_id": s.agent.ID,
		"species":  string(s.agent.Species),
		"x":        s.agent.Position.X,
		"y":        s.agent.Position.Y,
	})
	s.engine.Registry.Remove(s.agent.ID)
	s.removed = true
	return true
}

func (s *stepState) event(kind string, payload map[string]any) {
	s.out.Events = append(s.out.Events, creature.Event{
		Type:       kind,
		Turn:       s.turn,
		OccurredAt: s.engine.now(),
		Payload:    payload,
	})
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) warn(msg string, args ...any) {
	if e.Logger != nil {
		e.Logger.Warn(msg, args...)
	}
}
