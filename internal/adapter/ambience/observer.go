// Package ambience derives the presentation-facing mood of a run after
// each turn: how far the player can see, and how threatening the
// surroundings sound.
package ambience

import (
	"sync"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/app/registry"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

// Audio cue levels, from quiet to alarmed.
const (
	LevelCalm   = "calm"
	LevelTense  = "tense"
	LevelDanger = "danger"
)

const (
	defaultFullRadius   = 8
	defaultDenRadius    = 2
	defaultDangerRadius = 3
)

// Visibility tracks the lit radius around the player. On open ground
// the player sees the full radius; sharing a tile with a den cuts
// sight down to the entrance.
type Visibility struct {
	Registry   *registry.Registry
	Dens       ports.DenDirectory
	FullRadius int
	DenRadius  int

	mu      sync.Mutex
	set     bool
	current int
}

func (v *Visibility) TurnCompleted(ports.TurnSummary) {
	radius := v.fullRadius()
	if player, ok := v.Registry.Player(); ok && v.onDenTile(player) {
		radius = v.denRadius()
	}

	v.mu.Lock()
	v.current = radius
	v.set = true
	v.mu.Unlock()
}

// Radius reports the lit radius after the last completed turn. Before
// any turn it is the full radius.
func (v *Visibility) Radius() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.set {
		return v.fullRadius()
	}
	return v.current
}

func (v *Visibility) onDenTile(player creature.Agent) bool {
	if player.InsideDenID != "" {
		return true
	}
	if v.Dens == nil {
		return false
	}
	_, ok := v.Dens.DenAt(player.Position)
	return ok
}

func (v *Visibility) fullRadius() int {
	if v.FullRadius > 0 {
		return v.FullRadius
	}
	return defaultFullRadius
}

func (v *Visibility) denRadius() int {
	if v.DenRadius > 0 {
		return v.DenRadius
	}
	return defaultDenRadius
}

// AudioCue grades the soundscape by the nearest unhidden predator. A
// predator inside the danger radius, or one with chase memory on the
// player, reads as danger; one inside its own detection radius reads
// as tense.
type AudioCue struct {
	Registry     *registry.Registry
	DangerRadius int

	mu    sync.Mutex
	level string
}

func (a *AudioCue) TurnCompleted(ports.TurnSummary) {
	level := a.derive()

	a.mu.Lock()
	a.level = level
	a.mu.Unlock()
}

// Level reports the cue after the last completed turn, calm before any
// turn.
func (a *AudioCue) Level() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.level == "" {
		return LevelCalm
	}
	return a.level
}

func (a *AudioCue) derive() string {
	player, ok := a.Registry.Player()
	if !ok {
		return LevelCalm
	}
	level := LevelCalm
	for _, agent := range a.Registry.Agents() {
		if agent.Class() != creature.ClassPredator || agent.Hidden() {
			continue
		}
		if agent.ChaseTargetID == player.ID {
			return LevelDanger
		}
		switch d := grid.Manhattan(agent.Position, player.Position); {
		case d <= a.dangerRadius():
			return LevelDanger
		case d <= agent.Params.DetectionRadius:
			level = LevelTense
		}
	}
	return level
}

func (a *AudioCue) dangerRadius() int {
	if a.DangerRadius > 0 {
		return a.DangerRadius
	}
	return defaultDangerRadius
}
