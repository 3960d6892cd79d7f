package memory

import (
	"context"

	"burrowverse/internal/app/ports"
)

type MoveExecutionRepo struct {
	store *Store
}

func NewMoveExecutionRepo(store *Store) MoveExecutionRepo {
	return MoveExecutionRepo{store: store}
}

func (r MoveExecutionRepo) GetByRequestID(_ context.Context, runID, requestID string) (*ports.MoveExecutionRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.executions[execKey(runID, requestID)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := rec
	return &copy, nil
}

func (r MoveExecutionRepo) SaveExecution(_ context.Context, record ports.MoveExecutionRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	k := execKey(record.RunID, record.RequestID)
	if _, exists := r.store.executions[k]; exists {
		return ports.ErrConflict
	}
	r.store.executions[k] = record
	return nil
}
