package memory

import (
	"context"

	"burrowverse/internal/domain/creature"
)

type TurnEventRepo struct {
	store *Store
}

func NewTurnEventRepo(store *Store) TurnEventRepo {
	return TurnEventRepo{store: store}
}

func (r TurnEventRepo) Append(_ context.Context, runID string, events []creature.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[runID] = append(r.store.events[runID], events...)
	return nil
}

func (r TurnEventRepo) ListRecent(_ context.Context, runID string, limit int) ([]creature.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	events := r.store.events[runID]
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	out := make([]creature.Event, len(events))
	copy(out, events)
	return out, nil
}
