package memory

import (
	"context"
	"sort"

	"burrowverse/internal/app/ports"
)

type DenStateRepo struct {
	store *Store
}

func NewDenStateRepo(store *Store) DenStateRepo {
	return DenStateRepo{store: store}
}

func (r DenStateRepo) Upsert(_ context.Context, runID string, record ports.DenStateRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	byDen, ok := r.store.denStates[runID]
	if !ok {
		byDen = make(map[string]ports.DenStateRecord)
		r.store.denStates[runID] = byDen
	}
	byDen[record.DenID] = record
	return nil
}

func (r DenStateRepo) List(_ context.Context, runID string) ([]ports.DenStateRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	byDen := r.store.denStates[runID]
	out := make([]ports.DenStateRecord, 0, len(byDen))
	for _, rec := range byDen {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DenID < out[j].DenID })
	return out, nil
}
