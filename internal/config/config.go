// Package config loads run configuration: compiled-in defaults merged
// with an optional YAML file. Secrets (the database DSN) never live
// here; they come from the environment in cmd/server.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"burrowverse/internal/domain/creature"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	RunID string `yaml:"run_id"`
	Seed  int64  `yaml:"seed"`

	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Grid     GridConfig     `yaml:"grid"`
	Output   OutputConfig   `yaml:"output"`
	Ambience AmbienceConfig `yaml:"ambience"`

	// Species holds per-species overrides applied on top of the
	// compiled-in tunables. Zero fields keep the compiled-in value.
	Species map[string]creature.SpeciesParams `yaml:"species"`

	Dens   DensConfig  `yaml:"dens"`
	Spawns []SeedSpawn `yaml:"spawns"`
}

type ServerConfig struct {
	HTTPAddr   string `yaml:"http_addr"`
	StreamAddr string `yaml:"stream_addr"`
	// APIKey guards mutating routes; empty disables the check.
	APIKey string `yaml:"api_key"`
	// AllowRemoteStream opens the stream listener beyond loopback.
	AllowRemoteStream bool `yaml:"allow_remote_stream"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type GridConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	CellSize float64 `yaml:"cell_size"`
}

// OutputConfig points journal and telemetry sinks at a data directory.
// An empty dir disables both.
type OutputConfig struct {
	DataDir string `yaml:"data_dir"`
}

type AmbienceConfig struct {
	FullRadius   int `yaml:"full_radius"`
	DenRadius    int `yaml:"den_radius"`
	DangerRadius int `yaml:"danger_radius"`
}

type DensConfig struct {
	// StoredFoodRestore is the hunger restored by one stored food
	// unit; zero picks the compiled-in default.
	StoredFoodRestore int       `yaml:"stored_food_restore"`
	Sites             []DenSite `yaml:"sites"`
}

type DenSite struct {
	ID       string `yaml:"id"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Capacity int    `yaml:"capacity"`
}

// SeedSpawn is one line of the initial population layout.
type SeedSpawn struct {
	Species   string `yaml:"species"`
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	Count     int    `yaml:"count"`
	HomeDenID string `yaml:"home_den"`
}

// Load reads configuration from a YAML file merged over the embedded
// defaults. An empty path uses the defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	return cfg, nil
}

// Validate checks the parts a server cannot start without. Spawn and
// den placement against the generated map is checked later, at seeding.
func (c *Config) Validate() error {
	if c.RunID == "" {
		return fmt.Errorf("config: run_id is required")
	}
	if c.Grid.Width < 0 || c.Grid.Height < 0 {
		return fmt.Errorf("config: grid dimensions must be non-negative")
	}
	seen := make(map[string]bool, len(c.Dens.Sites))
	for _, site := range c.Dens.Sites {
		if site.ID == "" {
			return fmt.Errorf("config: den site without id at (%d,%d)", site.X, site.Y)
		}
		if seen[site.ID] {
			return fmt.Errorf("config: duplicate den id %s", site.ID)
		}
		seen[site.ID] = true
	}
	for _, s := range c.Spawns {
		if !creature.Species(s.Species).Valid() {
			return fmt.Errorf("config: spawn of unknown species %q", s.Species)
		}
	}
	if _, err := c.SpeciesParams(); err != nil {
		return err
	}
	return nil
}

// SpeciesParams compiles the effective tunables for every species:
// compiled-in defaults with the config overrides folded in.
func (c *Config) SpeciesParams() (map[creature.Species]creature.SpeciesParams, error) {
	out := make(map[creature.Species]creature.SpeciesParams, len(creature.AllSpecies))
	for _, s := range creature.AllSpecies {
		p, ok := creature.DefaultParams(s)
		if !ok {
			return nil, fmt.Errorf("config: no compiled-in tunables for %s", s)
		}
		out[s] = p
	}
	for name, over := range c.Species {
		s := creature.Species(name)
		base, ok := out[s]
		if !ok {
			return nil, fmt.Errorf("config: species override for unknown species %q", name)
		}
		merged := mergeParams(base, over)
		if err := merged.Validate(); err != nil {
			return nil, fmt.Errorf("config: species %s: %w", name, err)
		}
		out[s] = merged
	}
	return out, nil
}

// mergeParams folds non-zero override fields onto the base tunables.
// Boolean overrides can only enable; a false keeps the base value.
func mergeParams(base, over creature.SpeciesParams) creature.SpeciesParams {
	if over.MaxHunger > 0 {
		base.MaxHunger = over.MaxHunger
	}
	if over.HungryBelow > 0 {
		base.HungryBelow = over.HungryBelow
	}
	if over.CriticalBelow > 0 {
		base.CriticalBelow = over.CriticalBelow
	}
	if over.DetectionRadius > 0 {
		base.DetectionRadius = over.DetectionRadius
	}
	if over.FleeDistance > 0 {
		base.FleeDistance = over.FleeDistance
	}
	if over.MoveEvery > 0 {
		base.MoveEvery = over.MoveEvery
	}
	if over.TerritoryRadius > 0 {
		base.TerritoryRadius = over.TerritoryRadius
	}
	if over.GroupCount > 0 {
		base.GroupCount = over.GroupCount
	}
	if over.StallCooldown > 0 {
		base.StallCooldown = over.StallCooldown
	}
	if over.ChaseEscalationAfter > 0 {
		base.ChaseEscalationAfter = over.ChaseEscalationAfter
	}
	if over.ExtendedStall > 0 {
		base.ExtendedStall = over.ExtendedStall
	}
	if over.DashRange > 0 {
		base.DashRange = over.DashRange
	}
	if over.ForageRestore > 0 {
		base.ForageRestore = over.ForageRestore
	}
	if over.WorkerRestoreMult > 0 {
		base.WorkerRestoreMult = over.WorkerRestoreMult
	}
	if over.PriorityTier > 0 {
		base.PriorityTier = over.PriorityTier
	}
	if over.FoodResource != "" {
		base.FoodResource = over.FoodResource
	}
	if over.CrossesWater {
		base.CrossesWater = true
	}
	return base
}
