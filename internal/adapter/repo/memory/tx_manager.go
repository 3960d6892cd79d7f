package memory

import (
	"context"
	"sync"
)

// TxManager serializes transactions. Repo calls inside the callback take
// the store lock per call; the tx mutex keeps whole turns from
// interleaving. Rollback is not simulated.
type TxManager struct {
	mu *sync.Mutex
}

func NewTxManager(_ *Store) TxManager {
	return TxManager{mu: &sync.Mutex{}}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
