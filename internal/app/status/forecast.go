package status

import (
	"burrowverse/internal/domain/creature"
)

// forecastHorizonTurns bounds how far ahead the starvation forecast
// looks. Agents further out than this are not reported.
const forecastHorizonTurns = 10

type StarvationEstimate struct {
	AgentID        string   `json:"agent_id"`
	Species        string   `json:"species"`
	Hunger         int      `json:"hunger"`
	TurnsRemaining int      `json:"turns_remaining"`
	Causes         []string `json:"causes"`
}

// EstimateStarvation projects how many more turns of ordinary decay the
// agent survives. Stalls and forage along the way make this an upper
// bound on urgency, not a promise.
func EstimateStarvation(a creature.Agent) StarvationEstimate {
	est := StarvationEstimate{
		AgentID:        a.ID,
		Species:        string(a.Species),
		Hunger:         a.Hunger,
		TurnsRemaining: ceilDiv(a.Hunger, creature.HungerDecayPerTurn),
	}

	causes := make([]string, 0, 2)
	if est.TurnsRemaining <= forecastHorizonTurns {
		causes = append(causes, "HUNGER_DRAIN")
	}
	if a.CriticallyHungry() {
		causes = append(causes, "CRITICALLY_HUNGRY")
	}
	if a.Class() == creature.ClassWorker && a.HomeDenID == "" {
		causes = append(causes, "NO_HOME_DEN")
	}
	est.Causes = causes
	return est
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
