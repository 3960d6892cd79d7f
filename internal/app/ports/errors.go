package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrInvalidSpawn rejects a spawn onto an invalid or unwalkable cell.
	ErrInvalidSpawn = errors.New("invalid spawn cell")

	// ErrPathUnavailable means the pathfinder found no route; the agent
	// holds position and retries on a later turn.
	ErrPathUnavailable = errors.New("path unavailable")

	// ErrMissingCollaborator marks an absent grid service, registry, or
	// pathfinder; the affected step is skipped, never fatal.
	ErrMissingCollaborator = errors.New("missing collaborator")

	// ErrStaleReference marks a held den or agent id that no longer
	// resolves; the holder falls back to its default state.
	ErrStaleReference = errors.New("stale reference")
)
