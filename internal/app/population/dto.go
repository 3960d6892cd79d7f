package population

import (
	"burrowverse/internal/domain/grid"
)

type SpawnRequest struct {
	RunID     string
	Species   string
	X         int
	Y         int
	HomeDenID string
}

type SpawnResponse struct {
	AgentID  string    `json:"agent_id"`
	Species  string    `json:"species"`
	Position grid.Cell `json:"position"`
}

type RemoveRequest struct {
	RunID   string
	AgentID string
	Reason  string
}

type RemoveResponse struct {
	AgentID string `json:"agent_id"`
	Removed bool   `json:"removed"`
}

// SeedSpawn is one line of the initial population layout. Count agents
// of the species are placed on the same cell; they disperse on their
// own once turns start.
type SeedSpawn struct {
	Species   string `json:"species"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Count     int    `json:"count"`
	HomeDenID string `json:"home_den"`
}
