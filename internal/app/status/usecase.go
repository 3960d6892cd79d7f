package status

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/app/registry"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

var ErrInvalidRequest = errors.New("invalid status request")

// Ambience grades for the player's surroundings.
const (
	AmbienceCalm   = "calm"
	AmbienceTense  = "tense"
	AmbienceDanger = "danger"
)

const (
	dangerRadius = 6
	tenseRadius  = 12
)

// TurnSource reports the scheduler position.
type TurnSource interface {
	Snapshot() (turn uint64, running bool)
}

// AudioSource reports the ambience cue after the last completed turn.
type AudioSource interface {
	Level() string
}

// SightSource reports the lit radius around the player.
type SightSource interface {
	Radius() int
}

type UseCase struct {
	Registry *registry.Registry
	RunRepo  ports.RunRepository
	Turns    TurnSource
	Metrics  ports.SimMetrics

	// Audio and Sight are optional mood observers. Without them the
	// use case grades ambience from the registry directly and omits
	// the visibility radius.
	Audio AudioSource
	Sight SightSource
}

func (u *UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.RunID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if u.Registry == nil {
		return Response{}, fmt.Errorf("status: %w: registry", ports.ErrMissingCollaborator)
	}

	resp := Response{RunID: req.RunID}
	if u.RunRepo != nil {
		record, err := u.RunRepo.Get(ctx, req.RunID)
		if err != nil {
			return Response{}, err
		}
		resp.Seed = record.Seed
	}
	resp.Turn, resp.Running = u.turn()

	agents := u.Registry.Agents()
	resp.AgentCount = len(agents)
	resp.Population = make(map[string]int)
	resp.Classes = make(map[string]int)
	for i := range agents {
		resp.Population[string(agents[i].Species)]++
		resp.Classes[string(agents[i].Class())]++
	}

	if u.Audio != nil {
		resp.Ambience = u.Audio.Level()
	} else {
		player, hasPlayer := u.Registry.Player()
		resp.Ambience = deriveAmbience(player, hasPlayer, agents)
	}
	if u.Sight != nil {
		resp.Visibility = u.Sight.Radius()
	}
	resp.Forecast = buildForecast(agents)

	if u.Metrics != nil {
		resp.Metrics = u.Metrics.SnapshotAny()
	}
	return resp, nil
}

// deriveAmbience grades the run by the closest unhidden predator. A
// predator with chase memory on the player reads as danger no matter
// the distance.
func deriveAmbience(player creature.Agent, hasPlayer bool, agents []creature.Agent) string {
	if !hasPlayer {
		return AmbienceCalm
	}
	level := AmbienceCalm
	for i := range agents {
		a := agents[i]
		if a.Class() != creature.ClassPredator || a.Hidden() {
			continue
		}
		if a.ChaseTargetID == player.ID {
			return AmbienceDanger
		}
		switch d := grid.Manhattan(a.Position, player.Position); {
		case d <= dangerRadius:
			return AmbienceDanger
		case d <= tenseRadius:
			level = AmbienceTense
		}
	}
	return level
}

func buildForecast(agents []creature.Agent) []StarvationEstimate {
	out := make([]StarvationEstimate, 0, len(agents))
	for i := range agents {
		if agents[i].Class() == creature.ClassPlayer {
			continue
		}
		est := EstimateStarvation(agents[i])
		if est.TurnsRemaining > forecastHorizonTurns {
			continue
		}
		out = append(out, est)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TurnsRemaining < out[j].TurnsRemaining
	})
	return out
}

func (u *UseCase) turn() (uint64, bool) {
	if u.Turns == nil {
		return 0, false
	}
	return u.Turns.Snapshot()
}
