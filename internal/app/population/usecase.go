package population

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/app/registry"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

var ErrInvalidRequest = errors.New("invalid population request")

// TurnSource reports the scheduler position so journal entries carry
// the turn they happened on.
type TurnSource interface {
	Snapshot() (turn uint64, running bool)
}

// UseCase covers the admin side of the population: explicit spawns,
// explicit removals, and the initial seeding of a run. Everything the
// simulation does on its own goes through the turn scheduler instead.
type UseCase struct {
	Registry  *registry.Registry
	Dens      ports.DenDirectory
	EventRepo ports.TurnEventRepository
	Turns     TurnSource
	Params    map[creature.Species]creature.SpeciesParams
	Logger    *slog.Logger
	Now       func() time.Time
}

func (u *UseCase) Spawn(ctx context.Context, req SpawnRequest) (SpawnResponse, error) {
	if strings.TrimSpace(req.RunID) == "" || strings.TrimSpace(req.Species) == "" {
		return SpawnResponse{}, ErrInvalidRequest
	}
	if u.Registry == nil {
		return SpawnResponse{}, fmt.Errorf("spawn: %w: registry", ports.ErrMissingCollaborator)
	}
	species := creature.Species(req.Species)
	params, ok := u.paramsFor(species)
	if !ok {
		return SpawnResponse{}, fmt.Errorf("spawn: unknown species %q: %w", req.Species, ports.ErrInvalidSpawn)
	}
	turn, _ := u.turn()
	agent, err := u.Registry.Spawn(species, grid.Cell{X: req.X, Y: req.Y}, params, turn)
	if err != nil {
		return SpawnResponse{}, err
	}
	if req.HomeDenID != "" {
		u.assignHome(agent.ID, req.HomeDenID)
	}
	u.journal(ctx, req.RunID, creature.Event{
		Type:       creature.EventAgentSpawned,
		Turn:       turn,
		OccurredAt: u.now(),
		Payload: map[string]any{
			"agent_id": agent.ID,
			"species":  string(species),
			"x":        agent.Position.X,
			"y":        agent.Position.Y,
		},
	})
	return SpawnResponse{AgentID: agent.ID, Species: string(species), Position: agent.Position}, nil
}

func (u *UseCase) Remove(ctx context.Context, req RemoveRequest) (RemoveResponse, error) {
	if strings.TrimSpace(req.RunID) == "" || strings.TrimSpace(req.AgentID) == "" {
		return RemoveResponse{}, ErrInvalidRequest
	}
	if u.Registry == nil {
		return RemoveResponse{}, fmt.Errorf("remove: %w: registry", ports.ErrMissingCollaborator)
	}
	agent, ok := u.Registry.Get(req.AgentID)
	if !ok {
		// A despawned agent reads as a no-op so retried deletes stay
		// idempotent; an id the run never issued is a real miss.
		if u.Registry.WasIssued(req.AgentID) {
			return RemoveResponse{AgentID: req.AgentID, Removed: false}, nil
		}
		return RemoveResponse{}, fmt.Errorf("remove agent %s: %w", req.AgentID, ports.ErrNotFound)
	}
	u.Registry.Remove(req.AgentID)
	reason := req.Reason
	if reason == "" {
		reason = "admin"
	}
	turn, _ := u.turn()
	u.journal(ctx, req.RunID, creature.Event{
		Type:       creature.EventAgentRemoved,
		Turn:       turn,
		OccurredAt: u.now(),
		Payload: map[string]any{
			"agent_id": agent.ID,
			"species":  string(agent.Species),
			"reason":   reason,
		},
	})
	return RemoveResponse{AgentID: agent.ID, Removed: true}, nil
}

// Seed places the initial population of a run. A bad line in the layout
// is logged and skipped rather than aborting startup.
func (u *UseCase) Seed(ctx context.Context, runID string, spawns []SeedSpawn) (int, error) {
	if u.Registry == nil {
		return 0, fmt.Errorf("seed: %w: registry", ports.ErrMissingCollaborator)
	}
	placed := 0
	for _, s := range spawns {
		count := s.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			_, err := u.Spawn(ctx, SpawnRequest{
				RunID:     runID,
				Species:   s.Species,
				X:         s.X,
				Y:         s.Y,
				HomeDenID: s.HomeDenID,
			})
			if err != nil {
				u.warn("seed spawn skipped", "species", s.Species, "x", s.X, "y", s.Y, "err", err)
				continue
			}
			placed++
		}
	}
	return placed, nil
}

func (u *UseCase) paramsFor(species creature.Species) (creature.SpeciesParams, bool) {
	if p, ok := u.Params[species]; ok {
		return p, true
	}
	return creature.DefaultParams(species)
}

// assignHome binds the agent to a den when the directory resolves it.
// An unknown den leaves the agent homeless instead of failing the
// spawn.
func (u *UseCase) assignHome(agentID, denID string) {
	if u.Dens == nil {
		u.warn("den directory missing, home assignment skipped", "agent_id", agentID)
		return
	}
	if _, ok := u.Dens.Lookup(denID); !ok {
		u.warn("unknown den, agent spawns homeless", "agent_id", agentID, "den_id", denID)
		return
	}
	agent, ok := u.Registry.Get(agentID)
	if !ok {
		return
	}
	agent.HomeDenID = denID
	if err := u.Registry.Put(agent); err != nil {
		u.warn("home assignment lost", "agent_id", agentID, "err", err)
	}
}

func (u *UseCase) journal(ctx context.Context, runID string, ev creature.Event) {
	if u.EventRepo == nil {
		u.warn("event repo missing, journal entry dropped", "type", ev.Type)
		return
	}
	if err := u.EventRepo.Append(ctx, runID, []creature.Event{ev}); err != nil {
		u.warn("journal append failed", "type", ev.Type, "err", err)
	}
}

func (u *UseCase) turn() (uint64, bool) {
	if u.Turns == nil {
		return 0, false
	}
	return u.Turns.Snapshot()
}

func (u *UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u *UseCase) warn(msg string, args ...any) {
	if u.Logger != nil {
		u.Logger.Warn(msg, args...)
	}
}
