// Package memory backs every repository port with maps. It serves tests
// and single-node dev runs; postgres is the durable option.
package memory

import (
	"sync"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

type Store struct {
	mu         sync.RWMutex
	runs       map[string]ports.RunRecord
	executions map[string]ports.MoveExecutionRecord
	events     map[string][]creature.Event
	denStates  map[string]map[string]ports.DenStateRecord
	tiles      map[string][]grid.Tile
}

func NewStore() *Store {
	return &Store{
		runs:       make(map[string]ports.RunRecord),
		executions: make(map[string]ports.MoveExecutionRecord),
		events:     make(map[string][]creature.Event),
		denStates:  make(map[string]map[string]ports.DenStateRecord),
		tiles:      make(map[string][]grid.Tile),
	}
}

func execKey(runID, requestID string) string {
	return runID + "::" + requestID
}
