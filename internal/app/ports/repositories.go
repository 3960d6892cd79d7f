package ports

import (
	"context"
	"time"

	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

// RunRecord is the persisted state of one simulation run.
type RunRecord struct {
	RunID      string
	Seed       int64
	Turn       uint64
	AgentCount int
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type RunRepository interface {
	Get(ctx context.Context, runID string) (RunRecord, error)
	Create(ctx context.Context, record RunRecord) error
	SaveWithVersion(ctx context.Context, record RunRecord, expectedVersion int64) error
}

// MoveOutcome is the recorded result of one player-move request, replayed
// verbatim for duplicate request ids.
type MoveOutcome struct {
	Turn       uint64
	PlayerCell grid.Cell
	Reverted   bool
}

type MoveExecutionRecord struct {
	RunID     string
	RequestID string
	Outcome   MoveOutcome
	AppliedAt time.Time
}

type MoveExecutionRepository interface {
	GetByRequestID(ctx context.Context, runID, requestID string) (*MoveExecutionRecord, error)
	SaveExecution(ctx context.Context, record MoveExecutionRecord) error
}

type TurnEventRepository interface {
	Append(ctx context.Context, runID string, events []creature.Event) error
	ListRecent(ctx context.Context, runID string, limit int) ([]creature.Event, error)
}

// DenStateRecord persists the mutable side of a den so deposits survive
// restarts.
type DenStateRecord struct {
	DenID      string
	X          int
	Y          int
	Capacity   int
	StoredFood int
	Occupants  int
}

type DenStateRepository interface {
	Upsert(ctx context.Context, runID string, record DenStateRecord) error
	List(ctx context.Context, runID string) ([]DenStateRecord, error)
}

// TileRepository caches a generated tile map so a run's terrain stays
// fixed across restarts.
type TileRepository interface {
	SaveTiles(ctx context.Context, runID string, tiles []grid.Tile) error
	LoadTiles(ctx context.Context, runID string) ([]grid.Tile, error)
}
