package config

import (
	"os"
	"path/filepath"
	"testing"

	"burrowverse/internal/domain/creature"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RunID != "run_local" || cfg.Seed != 1 {
		t.Fatalf("run header %+v", cfg)
	}
	if cfg.Server.HTTPAddr != ":8080" || cfg.Server.StreamAddr != ":8090" {
		t.Fatalf("server %+v", cfg.Server)
	}
	if cfg.Grid.Width != 48 || cfg.Grid.Height != 48 {
		t.Fatalf("grid %+v", cfg.Grid)
	}
	if cfg.Ambience.FullRadius != 8 || cfg.Ambience.DangerRadius != 3 {
		t.Fatalf("ambience %+v", cfg.Ambience)
	}
	if len(cfg.Dens.Sites) != 2 || cfg.Dens.Sites[0].ID != "den_west" {
		t.Fatalf("dens %+v", cfg.Dens)
	}
	if len(cfg.Spawns) == 0 || cfg.Spawns[0].Species != "player" {
		t.Fatalf("spawns %+v", cfg.Spawns)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := "run_id: run_7\ngrid:\n  width: 20\nserver:\n  api_key: sekrit\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RunID != "run_7" {
		t.Fatalf("run_id %q, want override", cfg.RunID)
	}
	if cfg.Grid.Width != 20 {
		t.Fatalf("grid width %d, want override 20", cfg.Grid.Width)
	}
	if cfg.Grid.Height != 48 {
		t.Fatalf("grid height %d, want default kept", cfg.Grid.Height)
	}
	if cfg.Server.APIKey != "sekrit" || cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("server %+v", cfg.Server)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSpeciesParamsCompileDefaults(t *testing.T) {
	cfg := &Config{}
	params, err := cfg.SpeciesParams()
	if err != nil {
		t.Fatalf("species params: %v", err)
	}
	if len(params) != len(creature.AllSpecies) {
		t.Fatalf("got %d species, want %d", len(params), len(creature.AllSpecies))
	}
	if params[creature.SpeciesHawk].DetectionRadius != 8 {
		t.Fatalf("hawk detection %d, want compiled-in 8", params[creature.SpeciesHawk].DetectionRadius)
	}
}

func TestSpeciesParamsFoldOverrides(t *testing.T) {
	cfg := &Config{Species: map[string]creature.SpeciesParams{
		"rabbit": {FleeDistance: 9},
	}}
	params, err := cfg.SpeciesParams()
	if err != nil {
		t.Fatalf("species params: %v", err)
	}
	rabbit := params[creature.SpeciesRabbit]
	if rabbit.FleeDistance != 9 {
		t.Fatalf("flee distance %d, want override 9", rabbit.FleeDistance)
	}
	if rabbit.MaxHunger != 100 || rabbit.GroupCount != 3 {
		t.Fatalf("zero override fields must keep defaults: %+v", rabbit)
	}
}

func TestSpeciesParamsRejectUnknownSpecies(t *testing.T) {
	cfg := &Config{Species: map[string]creature.SpeciesParams{
		"badger": {MaxHunger: 50},
	}}
	if _, err := cfg.SpeciesParams(); err == nil {
		t.Fatal("expected error for unknown species override")
	}
}

func TestSpeciesParamsRejectInvalidMerge(t *testing.T) {
	cfg := &Config{Species: map[string]creature.SpeciesParams{
		"rabbit": {HungryBelow: 500},
	}}
	if _, err := cfg.SpeciesParams(); err == nil {
		t.Fatal("expected error for hungry_below above max_hunger")
	}
}

func TestValidateRejectsBadLayouts(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"empty run id", func(c *Config) { c.RunID = "" }},
		{"negative grid", func(c *Config) { c.Grid.Width = -1 }},
		{"den without id", func(c *Config) {
			c.Dens.Sites = append(c.Dens.Sites, DenSite{X: 1, Y: 1})
		}},
		{"duplicate den id", func(c *Config) {
			c.Dens.Sites = append(c.Dens.Sites, DenSite{ID: "den_west", X: 1, Y: 1})
		}},
		{"unknown spawn species", func(c *Config) {
			c.Spawns = append(c.Spawns, SeedSpawn{Species: "dragon", X: 1, Y: 1})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tc.mut(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
