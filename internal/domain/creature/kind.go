package creature

// Class groups species by which behavior machine drives them.
type Class string

const (
	ClassPlayer   Class = "player"
	ClassPrey     Class = "prey"
	ClassPredator Class = "predator"
	ClassWorker   Class = "worker"
)

type Species string

const (
	SpeciesPlayer      Species = "player"
	SpeciesRabbit      Species = "rabbit"
	SpeciesKangarooRat Species = "kangaroo_rat"
	SpeciesPackRat     Species = "pack_rat"
	SpeciesHawk        Species = "hawk"
	SpeciesCoyote      Species = "coyote"
)

// AllSpecies lists the closed species set in a fixed order.
var AllSpecies = []Species{
	SpeciesPlayer,
	SpeciesRabbit,
	SpeciesKangarooRat,
	SpeciesPackRat,
	SpeciesHawk,
	SpeciesCoyote,
}

func (s Species) Class() Class {
	switch s {
	case SpeciesPlayer:
		return ClassPlayer
	case SpeciesRabbit, SpeciesKangarooRat:
		return ClassPrey
	case SpeciesPackRat:
		return ClassWorker
	case SpeciesHawk, SpeciesCoyote:
		return ClassPredator
	default:
		return ""
	}
}

func (s Species) Valid() bool {
	return s.Class() != ""
}

// State is the per-turn behavior state an agent reports.
type State string

const (
	StateIdle          State = "idle"
	StateWandering     State = "wandering"
	StateFleeing       State = "fleeing"
	StateForaging      State = "foraging"
	StateHiding        State = "hiding"
	StateReturningHome State = "returning_home"
	StateHunting       State = "hunting"
	StateStalled       State = "stalled"
	StateCarrying      State = "carrying"
	StateDepositing    State = "depositing"
	StateEatingStored  State = "eating_stored"
)

type DeathCause string

const (
	DeathCauseStarvation DeathCause = "starvation"
	DeathCausePredation  DeathCause = "predation"
	DeathCauseDespawn    DeathCause = "despawn"
)
