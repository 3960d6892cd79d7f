package replay

import "burrowverse/internal/domain/creature"

type Request struct {
	RunID    string
	Limit    int
	TurnFrom uint64
	TurnTo   uint64
}

type Response struct {
	Events      []creature.Event `json:"events"`
	LatestTally TurnTally        `json:"latest_tally"`
}

// TurnTally is the run trajectory rebuilt from the journal window:
// counters accumulate, turn and agent count track the last completed
// turn seen.
type TurnTally struct {
	Turn        uint64 `json:"turn"`
	AgentCount  int    `json:"agent_count"`
	Moves       int    `json:"moves"`
	Conflicts   int    `json:"conflicts"`
	Kills       int    `json:"kills"`
	Starvations int    `json:"starvations"`
	Deposits    int    `json:"deposits"`
}
