package turn

import "burrowverse/internal/domain/grid"

// Request is one player move notification. RequestID deduplicates
// retries: a replayed id returns the recorded outcome without running
// another turn. Either Direction or Target names the step; a Target
// must be exactly one cell from the player.
type Request struct {
	RunID     string
	RequestID string
	Direction grid.Direction
	Target    *grid.Cell
}

// Response mirrors the persisted move outcome so replays and first
// executions are indistinguishable to the caller.
type Response struct {
	Turn       uint64    `json:"turn"`
	PlayerCell grid.Cell `json:"player_cell"`
	Reverted   bool      `json:"reverted"`
}
