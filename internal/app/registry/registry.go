package registry

import (
	"fmt"
	"sync"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

// Registry owns every live agent plus the forage-node and ground-item
// tables. Iteration order is spawn order; removals tombstone the slot so
// an in-flight turn keeps its order, and Compact frees them afterwards.
//
// Agents move through the registry copy-in/copy-out: Get hands out a
// value, the behavior step settles it, Put writes it back. Put refuses
// tombstoned ids, which is the liveness guard for anything resolved
// earlier in the turn.
type Registry struct {
	mu   sync.RWMutex
	grid ports.GridService
	dens ports.DenDirectory

	seq      int
	slots    []slot
	index    map[string]int
	playerID string

	forage    []ForageNode
	forageIdx map[string]int

	items    []GroundItem
	itemsIdx map[string]int
	itemSeq  int
}

type slot struct {
	agent creature.Agent
	live  bool
}

func New(gridSvc ports.GridService, dens ports.DenDirectory) *Registry {
	return &Registry{
		grid:      gridSvc,
		dens:      dens,
		index:     map[string]int{},
		forageIdx: map[string]int{},
		itemsIdx:  map[string]int{},
	}
}

// Spawn validates the cell and registers a new agent at the end of the
// iteration order.
func (r *Registry) Spawn(species creature.Species, at grid.Cell, params creature.SpeciesParams, turn uint64) (creature.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.grid == nil {
		return creature.Agent{}, fmt.Errorf("spawn %s: %w: grid service", species, ports.ErrMissingCollaborator)
	}
	if !species.Valid() {
		return creature.Agent{}, fmt.Errorf("spawn: unknown species %q: %w", species, ports.ErrInvalidSpawn)
	}
	if !r.grid.IsValid(at) || !r.grid.IsWalkable(at) {
		return creature.Agent{}, fmt.Errorf("spawn %s at (%d,%d): %w", species, at.X, at.Y, ports.ErrInvalidSpawn)
	}
	if species == creature.SpeciesPlayer && r.playerID != "" {
		return creature.Agent{}, fmt.Errorf("spawn player: %w: player already present", ports.ErrConflict)
	}

	r.seq++
	id := fmt.Sprintf("agt_%06d", r.seq)
	agent := creature.NewAgent(id, species, at, params, turn)

	r.index[id] = len(r.slots)
	r.slots = append(r.slots, slot{agent: *agent, live: true})
	if species == creature.SpeciesPlayer {
		r.playerID = id
	}
	return *agent, nil
}

// Get returns a copy of a live agent.
func (r *Registry) Get(id string) (creature.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok || !r.slots[i].live {
		return creature.Agent{}, false
	}
	return r.slots[i].agent, true
}

// Put writes a settled agent back. ErrStaleReference when the id no
// longer resolves to a live agent.
func (r *Registry) Put(agent creature.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[agent.ID]
	if !ok || !r.slots[i].live {
		return fmt.Errorf("put %s: %w", agent.ID, ports.ErrStaleReference)
	}
	r.slots[i].agent = agent
	return nil
}

// IDs snapshots the live iteration order. The scheduler grabs one
// snapshot per turn; agents spawned mid-turn are excluded and agents
// removed mid-turn fail their later Get.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.slots))
	for i := range r.slots {
		if r.slots[i].live {
			out = append(out, r.slots[i].agent.ID)
		}
	}
	return out
}

// Agents returns copies of all live agents in iteration order.
func (r *Registry) Agents() []creature.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]creature.Agent, 0, len(r.slots))
	for i := range r.slots {
		if r.slots[i].live {
			out = append(out, r.slots[i].agent)
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for i := range r.slots {
		if r.slots[i].live {
			n++
		}
	}
	return n
}

func (r *Registry) CountBySpecies() map[creature.Species]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[creature.Species]int{}
	for i := range r.slots {
		if r.slots[i].live {
			out[r.slots[i].agent.Species]++
		}
	}
	return out
}

// Player returns the player-controlled agent when one is registered.
func (r *Registry) Player() (creature.Agent, bool) {
	r.mu.RLock()
	id := r.playerID
	r.mu.RUnlock()
	if id == "" {
		return creature.Agent{}, false
	}
	return r.Get(id)
}

// Nearest scans live agents in iteration order and returns the one with
// minimum Manhattan distance satisfying pred. radius < 0 is unbounded,
// otherwise the bound is inclusive. Strict less-than keeps the first
// encountered on ties, which makes repeated calls reproducible.
func (r *Registry) Nearest(from grid.Cell, radius int, pred func(creature.Agent) bool) (creature.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := creature.Agent{}
	bestDist := -1
	for i := range r.slots {
		if !r.slots[i].live {
			continue
		}
		a := r.slots[i].agent
		if pred != nil && !pred(a) {
			continue
		}
		d := grid.Manhattan(from, a.Position)
		if radius >= 0 && d > radius {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best = a
			bestDist = d
		}
	}
	return best, bestDist >= 0
}

// HasOtherAgentAt reports whether any live agent other than originID
// occupies the cell.
func (r *Registry) HasOtherAgentAt(originID string, c grid.Cell) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.otherAgentAtLocked(originID, c)
}

func (r *Registry) otherAgentAtLocked(originID string, c grid.Cell) bool {
	for i := range r.slots {
		if !r.slots[i].live {
			continue
		}
		a := &r.slots[i].agent
		if a.ID == originID {
			continue
		}
		if a.Position == c {
			return true
		}
	}
	return false
}

// ResolveMoveConflict applies the last-mover-yields rule: when the mover
// changed cell this turn and another live agent holds that cell, or the
// mover flagged an encounter while moving, the mover reverts to its
// previous cell. The earlier resident is never touched. Reports whether
// a revert happened.
func (r *Registry) ResolveMoveConflict(moverID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[moverID]
	if !ok || !r.slots[i].live {
		return false
	}
	mover := &r.slots[i].agent
	if !mover.Moved() && !mover.EncounteredAgent {
		return false
	}
	collided := mover.EncounteredAgent || r.otherAgentAtLocked(moverID, mover.Position)
	mover.EncounteredAgent = false
	if !collided {
		return false
	}
	mover.RevertMove()
	return true
}

// Remove tombstones an agent, deregisters it from its den, and clears
// every other agent's reference to it. Idempotent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok || !r.slots[i].live {
		return
	}
	agent := &r.slots[i].agent
	if agent.InsideDenID != "" && r.dens != nil {
		if den, found := r.dens.Lookup(agent.InsideDenID); found {
			den.OnLeave(id)
		}
	}
	r.slots[i].live = false
	if r.playerID == id {
		r.playerID = ""
	}
	for j := range r.slots {
		if !r.slots[j].live {
			continue
		}
		other := &r.slots[j].agent
		if other.TargetID == id {
			other.TargetID = ""
		}
		if other.ChaseTargetID == id {
			other.ChaseTargetID = ""
			other.ChaseStreak = 0
			other.QueuedDash = nil
		}
	}
}

// WasIssued reports whether id belongs to the sequence this registry has
// handed out, live or not. Distinguishes a despawned agent from an id
// that never existed.
func (r *Registry) WasIssued(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int
	if _, err := fmt.Sscanf(id, "agt_%d", &n); err != nil {
		return false
	}
	if fmt.Sprintf("agt_%06d", n) != id {
		return false
	}
	return n >= 1 && n <= r.seq
}

// Compact drops tombstoned slots and rebuilds the index. Call between
// turns only; mid-turn compaction would reorder iteration.
func (r *Registry) Compact() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.slots) == 0 {
		return
	}
	kept := make([]slot, 0, len(r.slots))
	index := make(map[string]int, len(r.slots))
	for i := range r.slots {
		if !r.slots[i].live {
			continue
		}
		index[r.slots[i].agent.ID] = len(kept)
		kept = append(kept, r.slots[i])
	}
	r.slots = kept
	r.index = index
}

// ClearTransientTargets wipes the per-turn selection references on every
// live agent.
func (r *Registry) ClearTransientTargets() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.slots {
		if r.slots[i].live {
			r.slots[i].agent.ClearTransientTargets()
		}
	}
}
