package creature

const (
	HungerDecayPerTurn = 1

	// FleeAttemptBudget caps randomized flee retries before an agent
	// holds position for the turn.
	FleeAttemptBudget = 4

	// FleeSpiralRadius bounds the walkable-cell search around a computed
	// flee target.
	FleeSpiralRadius = 2

	DefaultForageRegrowTurns = 12

	DefaultStoredFoodRestore = 35

	// DefaultWorkerBonusRate scales the food-duplication chance applied
	// when a worker deposits food items at its den.
	DefaultWorkerBonusRate = 0.25
)

var defaultParams = map[Species]SpeciesParams{
	SpeciesPlayer: {
		MaxHunger:   100,
		HungryBelow: 0,
		MoveEvery:   1,
		GroupCount:  1,
	},
	SpeciesRabbit: {
		MaxHunger:       100,
		HungryBelow:     70,
		CriticalBelow:   25,
		DetectionRadius: 6,
		FleeDistance:    6,
		MoveEvery:       1,
		TerritoryRadius: 8,
		GroupCount:      3,
		ForageRestore:   30,
		FoodResource:    ItemSeed,
	},
	SpeciesKangarooRat: {
		MaxHunger:       80,
		HungryBelow:     55,
		CriticalBelow:   20,
		DetectionRadius: 5,
		FleeDistance:    7,
		MoveEvery:       2,
		TerritoryRadius: 6,
		GroupCount:      2,
		ForageRestore:   25,
		FoodResource:    ItemSeed,
	},
	SpeciesPackRat: {
		MaxHunger:         90,
		HungryBelow:       60,
		CriticalBelow:     25,
		DetectionRadius:   5,
		FleeDistance:      5,
		MoveEvery:         1,
		TerritoryRadius:   7,
		GroupCount:        2,
		ForageRestore:     20,
		WorkerRestoreMult: 1.5,
		FoodResource:      ItemGrain,
	},
	SpeciesHawk: {
		MaxHunger:       120,
		HungryBelow:     80,
		CriticalBelow:   30,
		DetectionRadius: 8,
		MoveEvery:       1,
		TerritoryRadius: 10,
		GroupCount:      1,
		StallCooldown:   3,
		DashRange:       4,
		ForageRestore:   40,
		PriorityTier:    1,
		CrossesWater:    true,
	},
	SpeciesCoyote: {
		MaxHunger:            140,
		HungryBelow:          90,
		CriticalBelow:        35,
		DetectionRadius:      7,
		MoveEvery:            1,
		TerritoryRadius:      9,
		GroupCount:           1,
		StallCooldown:        2,
		ChaseEscalationAfter: 6,
		ExtendedStall:        5,
		ForageRestore:        50,
		PriorityTier:         2,
	},
}

// DefaultParams returns the compiled-in tunables for a species. Config
// overrides replace individual fields at load time.
func DefaultParams(s Species) (SpeciesParams, bool) {
	p, ok := defaultParams[s]
	return p, ok
}
