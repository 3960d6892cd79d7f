package ports

import "burrowverse/internal/domain/creature"

// TurnCounters are the per-turn tallies carried to observers.
type TurnCounters struct {
	Moves       int `json:"moves"`
	Conflicts   int `json:"conflicts"`
	Kills       int `json:"kills"`
	Starvations int `json:"starvations"`
	Deposits    int `json:"deposits"`
}

// TurnSummary is handed to every observer once per completed turn.
type TurnSummary struct {
	RunID      string                   `json:"run_id"`
	Turn       uint64                   `json:"turn"`
	Counters   TurnCounters             `json:"counters"`
	Population map[creature.Class]int   `json:"population"`
	Hunger     map[creature.Class][]int `json:"-"`
	Events     []creature.Event         `json:"events"`
}

// TurnObserver reacts to a completed turn. Calls are synchronous but
// fire-and-forget: the scheduler ignores anything an observer does.
type TurnObserver interface {
	TurnCompleted(summary TurnSummary)
}
