package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const (
	defaultLimit = 50
	maxLimit     = 500
)

type UseCase struct {
	Events ports.TurnEventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.RunID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if u.Events == nil {
		return Response{}, fmt.Errorf("replay: %w: event repo", ports.ErrMissingCollaborator)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	events, err := u.Events.ListRecent(ctx, req.RunID, limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTurnWindow(events, req.TurnFrom, req.TurnTo)
	return Response{Events: events, LatestTally: reconstruct(events)}, nil
}

func filterByTurnWindow(events []creature.Event, from, to uint64) []creature.Event {
	if from == 0 && to == 0 {
		return events
	}
	out := make([]creature.Event, 0, len(events))
	for _, evt := range events {
		if from > 0 && evt.Turn < from {
			continue
		}
		if to > 0 && evt.Turn > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// reconstruct folds turn_completed payloads into the tally the run had
// at the end of the window. Payload numbers arrive as float64 after a
// JSON round trip and as native ints fresh from the scheduler.
func reconstruct(events []creature.Event) TurnTally {
	tally := TurnTally{}
	for _, evt := range events {
		if evt.Type != creature.EventTurnCompleted {
			continue
		}
		tally.Turn = evt.Turn
		tally.AgentCount = int(num(evt.Payload["agent_count"]))
		tally.Moves += int(num(evt.Payload["moves"]))
		tally.Conflicts += int(num(evt.Payload["conflicts"]))
		tally.Kills += int(num(evt.Payload["kills"]))
		tally.Starvations += int(num(evt.Payload["starvations"]))
		tally.Deposits += int(num(evt.Payload["deposits"]))
	}
	return tally
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
