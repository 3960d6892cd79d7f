package ports

import (
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

// Hideable is one den or spawner agents can occupy. The core never owns
// one; lifecycle lives with the directory adapter.
type Hideable interface {
	Position() grid.Cell
	OnEnter(agentID string)
	OnLeave(agentID string)
}

// DenDirectory resolves den ids to hideables. Agents hold ids, not
// references, so a missing den is an ordinary lookup miss.
type DenDirectory interface {
	Lookup(denID string) (Hideable, bool)
	DenAt(c grid.Cell) (string, bool)
}

// DenInventory is the deposit sink and stored-food source for worker
// agents at their home den.
type DenInventory interface {
	Deposit(denID string, item creature.ItemRecord)
	HasStoredFood(denID string) bool
	// SpendStoredFood consumes one stored food unit and returns the
	// hunger it restores; zero when the den had none.
	SpendStoredFood(denID string) int
}
