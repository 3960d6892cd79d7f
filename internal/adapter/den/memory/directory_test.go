package memory

import (
	"context"
	"errors"
	"testing"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

func TestAddAndLookup(t *testing.T) {
	dir := NewDirectory(0)
	if err := dir.Add(DenSpec{ID: "den_1", X: 3, Y: 4}); err != nil {
		t.Fatalf("add: %v", err)
	}

	dn, ok := dir.Lookup("den_1")
	if !ok || dn.Position() != (grid.Cell{X: 3, Y: 4}) {
		t.Fatalf("lookup den_1: %v %v", dn, ok)
	}
	if id, ok := dir.DenAt(grid.Cell{X: 3, Y: 4}); !ok || id != "den_1" {
		t.Fatalf("den at cell: %q %v", id, ok)
	}
	if _, ok := dir.Lookup("den_missing"); ok {
		t.Fatalf("unknown den resolved")
	}

	if err := dir.Add(DenSpec{ID: "den_1", X: 8, Y: 8}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("duplicate id: %v", err)
	}
	if err := dir.Add(DenSpec{ID: "den_2", X: 3, Y: 4}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("duplicate cell: %v", err)
	}
}

func TestDepositAndSpendStoredFood(t *testing.T) {
	dir := NewDirectory(35)
	if err := dir.Add(DenSpec{ID: "den_1", X: 0, Y: 0}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if dir.HasStoredFood("den_1") {
		t.Fatalf("fresh den should be empty")
	}
	if got := dir.SpendStoredFood("den_1"); got != 0 {
		t.Fatalf("spend on empty den restored %d", got)
	}

	dir.Deposit("den_1", creature.ItemRecord{Kind: creature.ItemSeed})
	dir.Deposit("den_1", creature.ItemRecord{Kind: creature.ItemGrain})
	dir.Deposit("den_1", creature.ItemRecord{Kind: creature.ItemTwig})

	if !dir.HasStoredFood("den_1") {
		t.Fatalf("deposits not stored")
	}
	if got := dir.SpendStoredFood("den_1"); got != 35 {
		t.Fatalf("restore %d, want 35", got)
	}
	if got := dir.SpendStoredFood("den_1"); got != 35 {
		t.Fatalf("second unit restore %d", got)
	}
	if dir.HasStoredFood("den_1") {
		t.Fatalf("food left after spending both units")
	}

	recs := dir.Records()
	if len(recs) != 1 || recs[0].StoredFood != 0 {
		t.Fatalf("records %+v", recs)
	}
}

func TestDepositRespectsCapacity(t *testing.T) {
	dir := NewDirectory(0)
	if err := dir.Add(DenSpec{ID: "den_1", X: 0, Y: 0, Capacity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	for i := 0; i < 5; i++ {
		dir.Deposit("den_1", creature.ItemRecord{Kind: creature.ItemSeed})
	}
	recs := dir.Records()
	if recs[0].StoredFood != 2 {
		t.Fatalf("stored %d, want capacity 2", recs[0].StoredFood)
	}
}

func TestOccupancyTracksEnterLeave(t *testing.T) {
	dir := NewDirectory(0)
	if err := dir.Add(DenSpec{ID: "den_1", X: 0, Y: 0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	dn, _ := dir.Lookup("den_1")

	dn.OnEnter("agt_000001")
	dn.OnEnter("agt_000002")
	if recs := dir.Records(); recs[0].Occupants != 2 {
		t.Fatalf("occupants %d", recs[0].Occupants)
	}
	dn.OnLeave("agt_000001")
	dn.OnLeave("agt_000001")
	if recs := dir.Records(); recs[0].Occupants != 1 {
		t.Fatalf("occupants after leave %d", recs[0].Occupants)
	}
}

func TestRestoreAppliesPersistedFood(t *testing.T) {
	dir := NewDirectory(0)
	if err := dir.Add(DenSpec{ID: "den_1", X: 0, Y: 0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	dir.Restore([]ports.DenStateRecord{
		{DenID: "den_1", StoredFood: 4},
		{DenID: "den_unknown", StoredFood: 9},
	})
	if recs := dir.Records(); recs[0].StoredFood != 4 {
		t.Fatalf("restored food %d", recs[0].StoredFood)
	}
	if !dir.HasStoredFood("den_1") {
		t.Fatalf("restored den should have food")
	}
}

type captureDenRepo struct {
	upserts []ports.DenStateRecord
	runID   string
}

func (c *captureDenRepo) Upsert(_ context.Context, runID string, record ports.DenStateRecord) error {
	c.runID = runID
	c.upserts = append(c.upserts, record)
	return nil
}

func (c *captureDenRepo) List(_ context.Context, _ string) ([]ports.DenStateRecord, error) {
	return c.upserts, nil
}

func TestFlusherPersistsEveryDen(t *testing.T) {
	dir := NewDirectory(0)
	if err := dir.Add(DenSpec{ID: "den_1", X: 0, Y: 0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := dir.Add(DenSpec{ID: "den_2", X: 5, Y: 5}); err != nil {
		t.Fatalf("add: %v", err)
	}
	dir.Deposit("den_2", creature.ItemRecord{Kind: creature.ItemSeed})

	repo := &captureDenRepo{}
	f := &Flusher{Dir: dir, Repo: repo}
	f.TurnCompleted(ports.TurnSummary{RunID: "run_1", Turn: 3})

	if repo.runID != "run_1" || len(repo.upserts) != 2 {
		t.Fatalf("upserts %+v", repo.upserts)
	}
	if repo.upserts[1].DenID != "den_2" || repo.upserts[1].StoredFood != 1 {
		t.Fatalf("second record %+v", repo.upserts[1])
	}
}
