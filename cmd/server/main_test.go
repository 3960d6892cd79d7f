package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	gridmock "burrowverse/internal/adapter/grid/mock"
	memrepo "burrowverse/internal/adapter/repo/memory"
	"burrowverse/internal/app/registry"
	"burrowverse/internal/config"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("BURROWVERSE_RUN_ID", "run_env")
	t.Setenv("BURROWVERSE_SEED", "99")
	t.Setenv("BURROWVERSE_HTTP_ADDR", ":9999")
	t.Setenv("BURROWVERSE_STREAM_ADDR", ":9998")
	t.Setenv("BURROWVERSE_API_KEY", "sekrit")
	t.Setenv("BURROWVERSE_DATA_DIR", "/tmp/burrow-data")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	applyEnvOverrides(cfg)

	if cfg.RunID != "run_env" || cfg.Seed != 99 {
		t.Fatalf("run header %+v", cfg)
	}
	if cfg.Server.HTTPAddr != ":9999" || cfg.Server.StreamAddr != ":9998" || cfg.Server.APIKey != "sekrit" {
		t.Fatalf("server %+v", cfg.Server)
	}
	if cfg.Output.DataDir != "/tmp/burrow-data" {
		t.Fatalf("data dir %q", cfg.Output.DataDir)
	}
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("BURROWVERSE_TEST_STR", "")
	if got := strEnv("BURROWVERSE_TEST_STR", "fallback"); got != "fallback" {
		t.Fatalf("strEnv=%q", got)
	}
	t.Setenv("BURROWVERSE_TEST_INT", "not-a-number")
	if got := int64Env("BURROWVERSE_TEST_INT", 7); got != 7 {
		t.Fatalf("int64Env garbage=%d", got)
	}
	t.Setenv("BURROWVERSE_TEST_INT", "42")
	if got := int64Env("BURROWVERSE_TEST_INT", 7); got != 42 {
		t.Fatalf("int64Env=%d", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestSeedForageAlternatesResources(t *testing.T) {
	reg := registry.New(gridmock.Provider{Bounds: grid.Size{Width: 10, Height: 10}}, nil)
	scrub := func(x, y int) grid.Tile {
		return grid.Tile{X: x, Y: y, Kind: grid.TileScrub, Passable: true}
	}
	tiles := []grid.Tile{
		scrub(0, 0),
		scrub(3, 0),
		scrub(1, 1),
		scrub(0, 3),
		{X: 5, Y: 5, Kind: grid.TileSand, Passable: true},
	}
	params := map[creature.Species]creature.SpeciesParams{}
	for _, s := range creature.AllSpecies {
		p, _ := creature.DefaultParams(s)
		params[s] = p
	}

	placed := seedForage(reg, tiles, params)
	if placed != 3 {
		t.Fatalf("placed %d nodes, want 3", placed)
	}
	nodes := reg.ForageNodes()
	if len(nodes) != 3 {
		t.Fatalf("registry holds %d nodes", len(nodes))
	}
	if nodes[0].Resource != creature.ItemSeed || nodes[1].Resource != creature.ItemGrain || nodes[2].Resource != creature.ItemSeed {
		t.Fatalf("resource order %v %v %v", nodes[0].Resource, nodes[1].Resource, nodes[2].Resource)
	}
	if nodes[0].Restore != params[creature.SpeciesRabbit].ForageRestore {
		t.Fatalf("seed restore %d", nodes[0].Restore)
	}
	if nodes[1].Restore != params[creature.SpeciesPackRat].ForageRestore {
		t.Fatalf("grain restore %d", nodes[1].Restore)
	}
}

func TestSeedSpawnsConversion(t *testing.T) {
	in := []config.SeedSpawn{{Species: "rabbit", X: 2, Y: 3, Count: 4, HomeDenID: "den_west"}}
	out := seedSpawns(in)
	if len(out) != 1 {
		t.Fatalf("len %d", len(out))
	}
	if out[0].Species != "rabbit" || out[0].X != 2 || out[0].Y != 3 || out[0].Count != 4 || out[0].HomeDenID != "den_west" {
		t.Fatalf("converted %+v", out[0])
	}
}

func TestMustLoadRunKeepsSealedSeed(t *testing.T) {
	store := memrepo.NewStore()
	runs := memrepo.NewRunRepo(store)
	cfg := &config.Config{RunID: "run_seal", Seed: 5}

	first := mustLoadRun(context.Background(), runs, cfg, discardLogger())
	if first.Seed != 5 {
		t.Fatalf("fresh run seed %d", first.Seed)
	}

	cfg.Seed = 9
	again := mustLoadRun(context.Background(), runs, cfg, discardLogger())
	if again.Seed != 5 {
		t.Fatalf("sealed run seed %d, want the stored 5", again.Seed)
	}
}
