package turn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"burrowverse/internal/app/behavior"
	"burrowverse/internal/app/ports"
	"burrowverse/internal/app/registry"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

var (
	ErrInvalidRequest = errors.New("invalid move request")
	ErrBlockedMove    = errors.New("target cell not walkable")
)

// UseCase is the turn scheduler. Every accepted player move advances the
// world exactly one turn: the player steps first, then every other agent
// in registry order, then the turn is journaled and announced.
type UseCase struct {
	TxManager ports.TxManager
	RunRepo   ports.RunRepository
	MoveRepo  ports.MoveExecutionRepository
	EventRepo ports.TurnEventRepository
	Registry  *registry.Registry
	Engine    *behavior.Engine
	Grid      ports.GridService
	Metrics   ports.SimMetrics
	Observers []ports.TurnObserver
	Logger    *slog.Logger
	Now       func() time.Time
	RunID     string

	mu      sync.Mutex
	turn    uint64
	running bool
}

// Resume restores the scheduler counter from a persisted run so restarts
// continue instead of replaying from turn zero.
func (u *UseCase) Resume(turn uint64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.turn = turn
	u.running = turn > 0
}

// Snapshot reports the current turn counter and whether the first move
// has arrived yet.
func (u *UseCase) Snapshot() (turn uint64, running bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.turn, u.running
}

// Execute runs one full turn for a player move. Turns are serialized: a
// second request blocks until the first completes, so no agent step ever
// observes a half-applied turn.
func (u *UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.RunID = strings.TrimSpace(req.RunID)
	req.RequestID = strings.TrimSpace(req.RequestID)
	if req.RunID == "" || req.RequestID == "" {
		return Response{}, ErrInvalidRequest
	}
	if req.Target == nil && !req.Direction.Valid() {
		return Response{}, ErrInvalidRequest
	}
	if req.Target != nil && req.Direction != "" {
		return Response{}, ErrInvalidRequest
	}
	if u.Registry == nil {
		return Response{}, fmt.Errorf("registry: %w", ports.ErrMissingCollaborator)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	var (
		out     Response
		summary ports.TurnSummary
		ran     bool
	)
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		exec, err := u.MoveRepo.GetByRequestID(txCtx, req.RunID, req.RequestID)
		if err == nil && exec != nil {
			out = Response{
				Turn:       exec.Outcome.Turn,
				PlayerCell: exec.Outcome.PlayerCell,
				Reverted:   exec.Outcome.Reverted,
			}
			return nil
		}
		if err != nil && !errors.Is(err, ports.ErrNotFound) {
			return err
		}

		turnNo := u.turn + 1
		events := make([]creature.Event, 0, 16)
		counters := ports.TurnCounters{}

		playerCell, reverted, err := u.movePlayer(req, turnNo, &events, &counters)
		if err != nil {
			return err
		}

		u.runAgentPhase(turnNo, &events, &counters)

		u.Registry.TickRegrowth()
		u.Registry.ClearTransientTargets()
		u.Registry.Compact()

		summary = u.buildSummary(req.RunID, turnNo, counters)
		events = append(events, creature.Event{
			Type:       creature.EventTurnCompleted,
			Turn:       turnNo,
			OccurredAt: u.now(),
			Payload: map[string]any{
				"moves":       counters.Moves,
				"conflicts":   counters.Conflicts,
				"kills":       counters.Kills,
				"starvations": counters.Starvations,
				"deposits":    counters.Deposits,
				"agent_count": u.Registry.Count(),
			},
		})
		summary.Events = events

		out = Response{Turn: turnNo, PlayerCell: playerCell, Reverted: reverted}
		if err := u.persistTurn(txCtx, req, out, events); err != nil {
			return err
		}

		u.turn = turnNo
		u.running = true
		ran = true
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	if ran {
		u.recordMetrics(summary.Counters)
		u.notifyObservers(summary)
	}
	return out, nil
}

// movePlayer applies the player's step before the scheduler loop runs.
// The player is subject to the same conflict rule as everyone else: a
// step onto an occupied cell bounces back.
func (u *UseCase) movePlayer(req Request, turnNo uint64, events *[]creature.Event, counters *ports.TurnCounters) (grid.Cell, bool, error) {
	player, ok := u.Registry.Player()
	if !ok {
		return grid.Cell{}, false, fmt.Errorf("player agent: %w", ports.ErrNotFound)
	}
	if u.Grid == nil {
		u.warn("grid service missing, player move skipped")
		return player.Position, false, nil
	}

	dir := req.Direction
	if req.Target != nil {
		d, ok := player.Position.DirectionTo(*req.Target)
		if !ok {
			return grid.Cell{}, false, fmt.Errorf("target %v not adjacent to player: %w", *req.Target, ErrInvalidRequest)
		}
		dir = d
	}

	target := player.Position.Step(dir)
	if !u.Grid.IsValid(target) || !u.Grid.IsWalkable(target) {
		return grid.Cell{}, false, ErrBlockedMove
	}

	a, ok := u.Registry.Get(player.ID)
	if !ok {
		return grid.Cell{}, false, fmt.Errorf("player agent: %w", ports.ErrStaleReference)
	}
	from := a.Position
	a.MoveTo(target)
	if err := u.Registry.Put(a); err != nil {
		return grid.Cell{}, false, err
	}
	counters.Moves++
	*events = append(*events, creature.Event{
		Type:       creature.EventAgentMoved,
		Turn:       turnNo,
		OccurredAt: u.now(),
		Payload: map[string]any{
			"agent_id": a.ID,
			"from_x":   from.X,
			"from_y":   from.Y,
			"x":        target.X,
			"y":        target.Y,
		},
	})

	reverted := u.Registry.ResolveMoveConflict(a.ID)
	if reverted {
		counters.Conflicts++
		*events = append(*events, creature.Event{
			Type:       creature.EventConflictReverted,
			Turn:       turnNo,
			OccurredAt: u.now(),
			Payload:    map[string]any{"agent_id": a.ID},
		})
	}
	settled, _ := u.Registry.Get(a.ID)
	return settled.Position, reverted, nil
}

// runAgentPhase steps every non-player agent in registry order. A missing
// engine or collaborator degrades the turn: the phase is skipped, logged,
// and the counter still advances.
func (u *UseCase) runAgentPhase(turnNo uint64, events *[]creature.Event, counters *ports.TurnCounters) {
	if u.Engine == nil || u.Engine.Grid == nil || u.Engine.Path == nil {
		u.warn("collaborator missing, agent phase skipped", slog.Uint64("turn", turnNo))
		return
	}

	playerID := ""
	if player, ok := u.Registry.Player(); ok {
		playerID = player.ID
	}

	for _, id := range u.Registry.IDs() {
		if id == playerID {
			continue
		}
		if _, ok := u.Registry.Get(id); !ok {
			// Tombstoned earlier this turn.
			continue
		}
		out := u.Engine.Step(id, turnNo)
		*events = append(*events, out.Events...)

		if out.Moved {
			counters.Moves++
		}
		if out.Starved {
			counters.Starvations++
		}
		for _, hit := range out.Hits {
			if hit.Destroyed {
				counters.Kills++
			}
		}
		counters.Deposits += out.Deposited

		if reverted := u.Registry.ResolveMoveConflict(id); reverted {
			counters.Conflicts++
			*events = append(*events, creature.Event{
				Type:       creature.EventConflictReverted,
				Turn:       turnNo,
				OccurredAt: u.now(),
				Payload:    map[string]any{"agent_id": id},
			})
		}
	}
}

func (u *UseCase) buildSummary(runID string, turnNo uint64, counters ports.TurnCounters) ports.TurnSummary {
	population := make(map[creature.Class]int, 4)
	hunger := make(map[creature.Class][]int, 4)
	for _, a := range u.Registry.Agents() {
		class := a.Class()
		population[class]++
		hunger[class] = append(hunger[class], a.Hunger)
	}
	return ports.TurnSummary{
		RunID:      runID,
		Turn:       turnNo,
		Counters:   counters,
		Population: population,
		Hunger:     hunger,
	}
}

func (u *UseCase) persistTurn(ctx context.Context, req Request, out Response, events []creature.Event) error {
	record, err := u.RunRepo.Get(ctx, req.RunID)
	if err != nil {
		return err
	}
	record.Turn = out.Turn
	record.AgentCount = u.Registry.Count()
	record.UpdatedAt = u.now()
	if err := u.RunRepo.SaveWithVersion(ctx, record, record.Version); err != nil {
		return err
	}

	if err := u.MoveRepo.SaveExecution(ctx, ports.MoveExecutionRecord{
		RunID:     req.RunID,
		RequestID: req.RequestID,
		Outcome: ports.MoveOutcome{
			Turn:       out.Turn,
			PlayerCell: out.PlayerCell,
			Reverted:   out.Reverted,
		},
		AppliedAt: u.now(),
	}); err != nil {
		return err
	}

	return u.EventRepo.Append(ctx, req.RunID, events)
}

func (u *UseCase) recordMetrics(counters ports.TurnCounters) {
	if u.Metrics == nil {
		return
	}
	u.Metrics.RecordTurn()
	for i := 0; i < counters.Moves; i++ {
		u.Metrics.RecordMove()
	}
	for i := 0; i < counters.Conflicts; i++ {
		u.Metrics.RecordConflict()
	}
	for i := 0; i < counters.Kills; i++ {
		u.Metrics.RecordKill()
	}
	for i := 0; i < counters.Starvations; i++ {
		u.Metrics.RecordStarvation()
	}
	for i := 0; i < counters.Deposits; i++ {
		u.Metrics.RecordDeposit()
	}
}

// notifyObservers fans the summary out after the turn is committed.
// Observers are fire-and-forget; a panicking observer must not take the
// scheduler down.
func (u *UseCase) notifyObservers(summary ports.TurnSummary) {
	for _, obs := range u.Observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					u.warn("turn observer panicked", slog.Any("panic", r))
				}
			}()
			obs.TurnCompleted(summary)
		}()
	}
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
