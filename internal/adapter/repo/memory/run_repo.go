package memory

import (
	"context"

	"burrowverse/internal/app/ports"
)

type RunRepo struct {
	store *Store
}

func NewRunRepo(store *Store) RunRepo {
	return RunRepo{store: store}
}

func (r RunRepo) Get(_ context.Context, runID string) (ports.RunRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	record, ok := r.store.runs[runID]
	if !ok {
		return ports.RunRecord{}, ports.ErrNotFound
	}
	return record, nil
}

func (r RunRepo) Create(_ context.Context, record ports.RunRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.runs[record.RunID]; exists {
		return ports.ErrConflict
	}
	r.store.runs[record.RunID] = record
	return nil
}

func (r RunRepo) SaveWithVersion(_ context.Context, record ports.RunRecord, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.runs[record.RunID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		record.Version = 1
		r.store.runs[record.RunID] = record
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	record.Version = expectedVersion + 1
	r.store.runs[record.RunID] = record
	return nil
}
