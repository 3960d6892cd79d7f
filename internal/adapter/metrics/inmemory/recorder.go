package inmemory

import (
	"sync"
)

type Snapshot struct {
	TurnTotal       uint64 `json:"turn_total"`
	MoveTotal       uint64 `json:"move_total"`
	ConflictTotal   uint64 `json:"conflict_total"`
	KillTotal       uint64 `json:"kill_total"`
	StarvationTotal uint64 `json:"starvation_total"`
	DepositTotal    uint64 `json:"deposit_total"`
}

type Recorder struct {
	mu          sync.Mutex
	turns       uint64
	moves       uint64
	conflicts   uint64
	kills       uint64
	starvations uint64
	deposits    uint64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordTurn() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns++
}

func (r *Recorder) RecordMove() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
}

func (r *Recorder) RecordKill() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kills++
}

func (r *Recorder) RecordStarvation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starvations++
}

func (r *Recorder) RecordDeposit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deposits++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		TurnTotal:       r.turns,
		MoveTotal:       r.moves,
		ConflictTotal:   r.conflicts,
		KillTotal:       r.kills,
		StarvationTotal: r.starvations,
		DepositTotal:    r.deposits,
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
