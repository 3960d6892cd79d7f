package creature

import (
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("invalid species params")

// SpeciesParams are the immutable per-species tunables. Every agent gets a
// copy at spawn; nothing mutates them afterwards.
type SpeciesParams struct {
	MaxHunger     int `yaml:"max_hunger" json:"max_hunger"`
	HungryBelow   int `yaml:"hungry_below" json:"hungry_below"`
	CriticalBelow int `yaml:"critical_below" json:"critical_below"`

	DetectionRadius int `yaml:"detection_radius" json:"detection_radius"`
	FleeDistance    int `yaml:"flee_distance" json:"flee_distance"`

	// MoveEvery is the move cadence: 1 moves every turn, 2 every other.
	MoveEvery       int `yaml:"move_every" json:"move_every"`
	TerritoryRadius int `yaml:"territory_radius" json:"territory_radius"`

	GroupCount int `yaml:"group_count" json:"group_count"`

	StallCooldown        int `yaml:"stall_cooldown" json:"stall_cooldown"`
	ChaseEscalationAfter int `yaml:"chase_escalation_after" json:"chase_escalation_after"`
	ExtendedStall        int `yaml:"extended_stall" json:"extended_stall"`
	DashRange            int `yaml:"dash_range" json:"dash_range"`

	ForageRestore     int     `yaml:"forage_restore" json:"forage_restore"`
	WorkerRestoreMult float64 `yaml:"worker_restore_mult" json:"worker_restore_mult"`

	PriorityTier int      `yaml:"priority_tier" json:"priority_tier"`
	FoodResource ItemKind `yaml:"food_resource" json:"food_resource"`
	CrossesWater bool     `yaml:"crosses_water" json:"crosses_water"`
}

func (p SpeciesParams) Validate() error {
	if p.MaxHunger <= 0 {
		return fmt.Errorf("%w: max_hunger must be positive", ErrInvalidParams)
	}
	if p.HungryBelow < 0 || p.HungryBelow > p.MaxHunger {
		return fmt.Errorf("%w: hungry_below outside [0, max_hunger]", ErrInvalidParams)
	}
	if p.CriticalBelow < 0 || p.CriticalBelow > p.HungryBelow {
		return fmt.Errorf("%w: critical_below outside [0, hungry_below]", ErrInvalidParams)
	}
	if p.MoveEvery < 1 {
		return fmt.Errorf("%w: move_every must be >= 1", ErrInvalidParams)
	}
	if p.GroupCount < 1 {
		return fmt.Errorf("%w: group_count must be >= 1", ErrInvalidParams)
	}
	if p.DetectionRadius < 0 || p.FleeDistance < 0 || p.TerritoryRadius < 0 {
		return fmt.Errorf("%w: radii must be non-negative", ErrInvalidParams)
	}
	if p.StallCooldown < 0 || p.ExtendedStall < 0 || p.DashRange < 0 {
		return fmt.Errorf("%w: cooldowns must be non-negative", ErrInvalidParams)
	}
	return nil
}

// Hungry reports whether the given hunger level is below the forage
// threshold; Critical whether it is below the ignore-danger threshold.
func (p SpeciesParams) Hungry(hunger int) bool {
	return hunger < p.HungryBelow
}

func (p SpeciesParams) Critical(hunger int) bool {
	return hunger < p.CriticalBelow
}
