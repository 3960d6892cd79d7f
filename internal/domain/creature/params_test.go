package creature

import (
	"errors"
	"testing"
)

func TestDefaultParamsValidate(t *testing.T) {
	for _, species := range AllSpecies {
		p, ok := DefaultParams(species)
		if !ok {
			t.Fatalf("missing defaults for %s", species)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("defaults for %s invalid: %v", species, err)
		}
	}
}

func TestValidateRejections(t *testing.T) {
	base, _ := DefaultParams(SpeciesRabbit)

	cases := []struct {
		name   string
		mutate func(*SpeciesParams)
	}{
		{"zero max hunger", func(p *SpeciesParams) { p.MaxHunger = 0 }},
		{"hungry above max", func(p *SpeciesParams) { p.HungryBelow = p.MaxHunger + 1 }},
		{"critical above hungry", func(p *SpeciesParams) { p.CriticalBelow = p.HungryBelow + 1 }},
		{"zero cadence", func(p *SpeciesParams) { p.MoveEvery = 0 }},
		{"zero group", func(p *SpeciesParams) { p.GroupCount = 0 }},
		{"negative radius", func(p *SpeciesParams) { p.DetectionRadius = -1 }},
		{"negative stall", func(p *SpeciesParams) { p.StallCooldown = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("want ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestHungerThresholds(t *testing.T) {
	p, _ := DefaultParams(SpeciesRabbit)
	if !p.Hungry(p.HungryBelow - 1) {
		t.Fatalf("just below threshold should be hungry")
	}
	if p.Hungry(p.HungryBelow) {
		t.Fatalf("threshold itself should not be hungry")
	}
	if !p.Critical(p.CriticalBelow - 1) {
		t.Fatalf("just below critical should be critical")
	}
	if p.Critical(p.CriticalBelow) {
		t.Fatalf("critical threshold itself should not be critical")
	}
}

func TestFoodItems(t *testing.T) {
	if !ItemSeed.IsFood() || !ItemGrain.IsFood() {
		t.Fatalf("seed and grain are food")
	}
	if ItemTwig.IsFood() {
		t.Fatalf("twig is not food")
	}
}
