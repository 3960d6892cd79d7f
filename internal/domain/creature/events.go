package creature

import "time"

// Event is one journaled simulation occurrence.
type Event struct {
	Type       string         `json:"type"`
	Turn       uint64         `json:"turn"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

const (
	EventAgentSpawned       = "agent_spawned"
	EventAgentRemoved       = "agent_removed"
	EventAgentMoved         = "agent_moved"
	EventConflictReverted   = "conflict_reverted"
	EventAgentFled          = "agent_fled"
	EventForageHarvested    = "forage_harvested"
	EventItemPickedUp       = "item_picked_up"
	EventItemsDeposited     = "items_deposited"
	EventStoredFoodConsumed = "stored_food_consumed"
	EventPredation          = "predation"
	EventAgentStarved       = "agent_starved"
	EventDenEntered         = "den_entered"
	EventDenLeft            = "den_left"
	EventTurnCompleted      = "turn_completed"
)
