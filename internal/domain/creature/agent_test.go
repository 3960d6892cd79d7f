package creature

import (
	"testing"

	"burrowverse/internal/domain/grid"
)

func rabbitParams(t *testing.T) SpeciesParams {
	t.Helper()
	p, ok := DefaultParams(SpeciesRabbit)
	if !ok {
		t.Fatalf("missing rabbit defaults")
	}
	return p
}

func TestDecayHungerClampsAndReportsStarvation(t *testing.T) {
	a := NewAgent("agt_000001", SpeciesRabbit, grid.Cell{X: 1, Y: 1}, rabbitParams(t), 0)
	a.Hunger = 2

	if died := a.DecayHunger(1); died {
		t.Fatalf("agent should survive at hunger 1")
	}
	if a.Hunger != 1 {
		t.Fatalf("hunger = %d, want 1", a.Hunger)
	}
	if died := a.DecayHunger(1); !died {
		t.Fatalf("agent should starve at hunger 0")
	}
	if a.Hunger != 0 {
		t.Fatalf("hunger = %d, want 0", a.Hunger)
	}
	// A second decay on an already-starved agent reports nothing new.
	if died := a.DecayHunger(1); died {
		t.Fatalf("starvation should only be reported once")
	}
	if a.Hunger != 0 {
		t.Fatalf("hunger went negative: %d", a.Hunger)
	}
}

func TestRestoreHungerClampsToMax(t *testing.T) {
	p := rabbitParams(t)
	a := NewAgent("agt_000001", SpeciesRabbit, grid.Cell{}, p, 0)
	a.Hunger = p.MaxHunger - 5
	a.RestoreHunger(50)
	if a.Hunger != p.MaxHunger {
		t.Fatalf("hunger = %d, want clamped %d", a.Hunger, p.MaxHunger)
	}
	a.RestoreHunger(-3)
	if a.Hunger != p.MaxHunger {
		t.Fatalf("negative restore should be ignored")
	}
}

func TestTakeHitDestroysAtZero(t *testing.T) {
	a := NewAgent("agt_000001", SpeciesRabbit, grid.Cell{}, rabbitParams(t), 0)
	a.GroupCount = 2
	if destroyed := a.TakeHit(); destroyed {
		t.Fatalf("group of 2 should survive one hit")
	}
	if destroyed := a.TakeHit(); !destroyed {
		t.Fatalf("group should be destroyed at zero")
	}
	if a.GroupCount != 0 {
		t.Fatalf("group count = %d, want 0", a.GroupCount)
	}
}

func TestMoveAndRevert(t *testing.T) {
	a := NewAgent("agt_000001", SpeciesRabbit, grid.Cell{X: 2, Y: 2}, rabbitParams(t), 0)
	a.MoveTo(grid.Cell{X: 3, Y: 2})
	if !a.Moved() {
		t.Fatalf("agent should report a move")
	}
	a.RevertMove()
	if a.Position != (grid.Cell{X: 2, Y: 2}) {
		t.Fatalf("revert left agent at %v", a.Position)
	}
	if a.Moved() {
		t.Fatalf("reverted agent should not report a move")
	}
}

func TestTickMoveCadence(t *testing.T) {
	p, _ := DefaultParams(SpeciesKangarooRat)
	a := NewAgent("agt_000001", SpeciesKangarooRat, grid.Cell{}, p, 0)

	moves := 0
	for i := 0; i < 6; i++ {
		if a.TickMoveCadence() {
			moves++
		}
	}
	if moves != 3 {
		t.Fatalf("cadence-2 agent moved %d of 6 turns, want 3", moves)
	}

	every := NewAgent("agt_000002", SpeciesRabbit, grid.Cell{}, rabbitParams(t), 0)
	for i := 0; i < 4; i++ {
		if !every.TickMoveCadence() {
			t.Fatalf("cadence-1 agent blocked on turn %d", i)
		}
	}
}

func TestDropAllCarried(t *testing.T) {
	p, _ := DefaultParams(SpeciesPackRat)
	a := NewAgent("agt_000001", SpeciesPackRat, grid.Cell{}, p, 0)
	a.Carry(ItemRecord{Kind: ItemGrain, Origin: "forage_3_4_grain"})
	a.Carry(ItemRecord{Kind: ItemTwig, Origin: "ground"})

	items := a.DropAllCarried()
	if len(items) != 2 {
		t.Fatalf("dropped %d items, want 2", len(items))
	}
	if items[0].Kind != ItemGrain || items[1].Kind != ItemTwig {
		t.Fatalf("carry order not preserved: %v", items)
	}
	if len(a.Carried) != 0 {
		t.Fatalf("carried list not cleared")
	}
}

func TestSpeciesClasses(t *testing.T) {
	cases := map[Species]Class{
		SpeciesPlayer:      ClassPlayer,
		SpeciesRabbit:      ClassPrey,
		SpeciesKangarooRat: ClassPrey,
		SpeciesPackRat:     ClassWorker,
		SpeciesHawk:        ClassPredator,
		SpeciesCoyote:      ClassPredator,
	}
	for species, want := range cases {
		if got := species.Class(); got != want {
			t.Fatalf("%s class = %s, want %s", species, got, want)
		}
	}
	if Species("badger").Valid() {
		t.Fatalf("unknown species should be invalid")
	}
}
