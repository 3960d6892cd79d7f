package gormrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"

	"gorm.io/gorm"
)

var migrateOnce sync.Once

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("BURROWVERSE_DB_DSN")
	if dsn == "" {
		t.Skip("BURROWVERSE_DB_DSN is required for integration test")
	}
	return dsn
}

func openMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	migrateOnce.Do(func() {
		dir := filepath.Join("..", "..", "..", "..", "migrations")
		if err := ApplyMigrations(context.Background(), db, dir); err != nil {
			t.Fatalf("apply migrations: %v", err)
		}
	})
	return db
}

func cleanupRun(db *gorm.DB, runID string) {
	_ = db.Exec("DELETE FROM move_executions WHERE run_id = ?", runID).Error
	_ = db.Exec("DELETE FROM turn_events WHERE run_id = ?", runID).Error
	_ = db.Exec("DELETE FROM den_states WHERE run_id = ?", runID).Error
	_ = db.Exec("DELETE FROM tile_maps WHERE run_id = ?", runID).Error
	_ = db.Exec("DELETE FROM runs WHERE run_id = ?", runID).Error
}

func TestRunRepo_VersionedSaveAndConflict(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()
	runID := "it-run-versioning"
	cleanupRun(db, runID)

	repo := NewRunRepo(db)
	if _, err := repo.Get(ctx, runID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing run, got %v", err)
	}
	if err := repo.Create(ctx, ports.RunRecord{RunID: runID, Seed: 99, Version: 1}); err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := repo.Create(ctx, ports.RunRecord{RunID: runID, Seed: 99, Version: 1}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate create, got %v", err)
	}

	if err := repo.SaveWithVersion(ctx, ports.RunRecord{RunID: runID, Turn: 4, AgentCount: 12}, 1); err != nil {
		t.Fatalf("save with version 1: %v", err)
	}
	got, err := repo.Get(ctx, runID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Turn != 4 || got.AgentCount != 12 || got.Version != 2 {
		t.Fatalf("unexpected run after save: %+v", got)
	}
	if got.Seed != 99 {
		t.Fatalf("expected seed untouched by save, got %d", got.Seed)
	}

	if err := repo.SaveWithVersion(ctx, ports.RunRecord{RunID: runID, Turn: 5}, 1); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on stale version, got %v", err)
	}
}

func TestMoveExecutionRepo_ReplaysDuplicateRequest(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()
	runID := "it-move-exec"
	cleanupRun(db, runID)

	repo := NewMoveExecutionRepo(db)
	rec := ports.MoveExecutionRecord{
		RunID:     runID,
		RequestID: "req-1",
		Outcome: ports.MoveOutcome{
			Turn:       3,
			PlayerCell: grid.Cell{X: 7, Y: 9},
			Reverted:   true,
		},
		AppliedAt: time.Unix(500, 0).UTC(),
	}
	if err := repo.SaveExecution(ctx, rec); err != nil {
		t.Fatalf("save execution: %v", err)
	}
	if err := repo.SaveExecution(ctx, rec); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate request id, got %v", err)
	}

	got, err := repo.GetByRequestID(ctx, runID, "req-1")
	if err != nil {
		t.Fatalf("get execution: %v", err)
	}
	if got.Outcome.Turn != 3 || got.Outcome.PlayerCell != (grid.Cell{X: 7, Y: 9}) || !got.Outcome.Reverted {
		t.Fatalf("unexpected outcome: %+v", got.Outcome)
	}
	if _, err := repo.GetByRequestID(ctx, runID, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing request, got %v", err)
	}
}

func TestTurnEventRepo_AppendAndTail(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()
	runID := "it-turn-events"
	cleanupRun(db, runID)

	repo := NewTurnEventRepo(db)
	events := []creature.Event{
		{Type: creature.EventAgentMoved, Turn: 1, OccurredAt: time.Unix(100, 0).UTC(), Payload: map[string]any{"agent_id": "agt_000001"}},
		{Type: creature.EventPredation, Turn: 2, OccurredAt: time.Unix(200, 0).UTC(), Payload: map[string]any{"prey_id": "agt_000002"}},
		{Type: creature.EventTurnCompleted, Turn: 2, OccurredAt: time.Unix(201, 0).UTC(), Payload: map[string]any{"moves": 5}},
	}
	if err := repo.Append(ctx, runID, events); err != nil {
		t.Fatalf("append events: %v", err)
	}

	tail, err := repo.ListRecent(ctx, runID, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(tail) != 2 {
		t.Fatalf("expected 2 events, got %d", len(tail))
	}
	if tail[0].Type != creature.EventPredation || tail[1].Type != creature.EventTurnCompleted {
		t.Fatalf("expected journal order oldest first, got %s then %s", tail[0].Type, tail[1].Type)
	}
	if tail[1].Turn != 2 {
		t.Fatalf("expected turn 2, got %d", tail[1].Turn)
	}
	moves, ok := tail[1].Payload["moves"].(float64)
	if !ok || moves != 5 {
		t.Fatalf("expected moves payload 5 after json round trip, got %v", tail[1].Payload["moves"])
	}

	all, err := repo.ListRecent(ctx, runID, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
}

func TestDenStateRepo_UpsertAndList(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()
	runID := "it-den-states"
	cleanupRun(db, runID)

	repo := NewDenStateRepo(db)
	if err := repo.Upsert(ctx, runID, ports.DenStateRecord{DenID: "den_b", X: 5, Y: 5, Capacity: 50}); err != nil {
		t.Fatalf("upsert den_b: %v", err)
	}
	if err := repo.Upsert(ctx, runID, ports.DenStateRecord{DenID: "den_a", X: 2, Y: 3, Capacity: 50}); err != nil {
		t.Fatalf("upsert den_a: %v", err)
	}
	if err := repo.Upsert(ctx, runID, ports.DenStateRecord{DenID: "den_a", X: 2, Y: 3, Capacity: 50, StoredFood: 4, Occupants: 2}); err != nil {
		t.Fatalf("re-upsert den_a: %v", err)
	}

	list, err := repo.List(ctx, runID)
	if err != nil {
		t.Fatalf("list dens: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 dens, got %d", len(list))
	}
	if list[0].DenID != "den_a" || list[1].DenID != "den_b" {
		t.Fatalf("expected den_id order, got %s then %s", list[0].DenID, list[1].DenID)
	}
	if list[0].StoredFood != 4 || list[0].Occupants != 2 {
		t.Fatalf("expected re-upsert to win, got %+v", list[0])
	}
}

func TestTileRepo_RoundTripAndOverwrite(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()
	runID := "it-tile-maps"
	cleanupRun(db, runID)

	repo := NewTileRepo(db)
	empty, err := repo.LoadTiles(ctx, runID)
	if err != nil {
		t.Fatalf("load missing map: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no tiles for fresh run, got %d", len(empty))
	}

	tiles := []grid.Tile{
		{X: 0, Y: 0, Kind: grid.TileSand, Passable: true},
		{X: 1, Y: 0, Kind: grid.TileWater, Passable: false},
	}
	if err := repo.SaveTiles(ctx, runID, tiles); err != nil {
		t.Fatalf("save tiles: %v", err)
	}
	got, err := repo.LoadTiles(ctx, runID)
	if err != nil {
		t.Fatalf("load tiles: %v", err)
	}
	if len(got) != 2 || got[1].Kind != grid.TileWater || got[1].Passable {
		t.Fatalf("unexpected tiles: %+v", got)
	}

	if err := repo.SaveTiles(ctx, runID, tiles[:1]); err != nil {
		t.Fatalf("overwrite tiles: %v", err)
	}
	got, err = repo.LoadTiles(ctx, runID)
	if err != nil {
		t.Fatalf("reload tiles: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected overwrite to replace map, got %d tiles", len(got))
	}
}

func TestTxManager_RunInTxCommitAndRollback(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()
	runID := "it-tx-manager"
	cleanupRun(db, runID)
	cleanupRun(db, runID+"-rb")

	txManager := NewTxManager(db)
	runRepo := NewRunRepo(db)

	commitErr := txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return runRepo.SaveWithVersion(txCtx, ports.RunRecord{RunID: runID, Seed: 1}, 0)
	})
	if commitErr != nil {
		t.Fatalf("commit tx failed: %v", commitErr)
	}
	if _, err := runRepo.Get(ctx, runID); err != nil {
		t.Fatalf("expected committed run exists, got err=%v", err)
	}

	rollbackErr := txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := runRepo.SaveWithVersion(txCtx, ports.RunRecord{RunID: runID + "-rb", Seed: 1}, 0); err != nil {
			return err
		}
		return errors.New("force rollback")
	})
	if rollbackErr == nil {
		t.Fatalf("expected rollback error")
	}
	if _, err := runRepo.Get(ctx, runID+"-rb"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected rollback to remove run, got err=%v", err)
	}
}
