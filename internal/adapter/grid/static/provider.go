// Package static serves a bounded map generated once from the run seed.
// With a tile repository the first generation is cached so a run's
// terrain stays fixed across restarts.
package static

import (
	"context"
	"log/slog"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/grid"
)

const (
	defaultWidth    = 64
	defaultHeight   = 64
	defaultCellSize = 32.0
	safeRadius      = 6
)

type Config struct {
	Width    int
	Height   int
	CellSize float64
	Seed     int64
	DenCells []grid.Cell
	Tiles    ports.TileRepository
	RunID    string
	Logger   *slog.Logger
}

type Provider struct {
	size     grid.Size
	cellSize float64
	tiles    map[grid.Cell]grid.Tile
}

func NewProvider(ctx context.Context, cfg Config) *Provider {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = defaultCellSize
	}
	p := &Provider{
		size:     grid.Size{Width: cfg.Width, Height: cfg.Height},
		cellSize: cfg.CellSize,
		tiles:    make(map[grid.Cell]grid.Tile, cfg.Width*cfg.Height),
	}

	if cfg.Tiles != nil {
		cached, err := cfg.Tiles.LoadTiles(ctx, cfg.RunID)
		if err != nil && cfg.Logger != nil {
			cfg.Logger.Warn("tile cache load failed, regenerating", "err", err)
		}
		if len(cached) == cfg.Width*cfg.Height {
			for _, t := range cached {
				p.tiles[grid.Cell{X: t.X, Y: t.Y}] = t
			}
			return p
		}
	}

	dens := make(map[grid.Cell]bool, len(cfg.DenCells))
	for _, c := range cfg.DenCells {
		dens[c] = true
	}
	generated := make([]grid.Tile, 0, cfg.Width*cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			t := genTile(cfg.Seed, x, y, p.size)
			if dens[grid.Cell{X: x, Y: y}] {
				t.Kind = grid.TileDen
				t.Passable = true
			}
			p.tiles[grid.Cell{X: x, Y: y}] = t
			generated = append(generated, t)
		}
	}
	if cfg.Tiles != nil {
		if err := cfg.Tiles.SaveTiles(ctx, cfg.RunID, generated); err != nil && cfg.Logger != nil {
			cfg.Logger.Warn("tile cache save failed", "err", err)
		}
	}
	return p
}

// genTile lays terrain in distance bands around the map center: an open
// sand basin, then hash-scattered water, rock and scrub further out.
func genTile(seed int64, x, y int, size grid.Size) grid.Tile {
	cx, cy := size.Width/2, size.Height/2
	d := absInt(x-cx) + absInt(y-cy)
	h := tileSeed(seed, x, y)

	kind := grid.TileSand
	switch {
	case d <= safeRadius:
		kind = grid.TileSand
	case h%13 == 0:
		kind = grid.TileWater
	case h%7 == 0:
		kind = grid.TileRock
	case h%3 == 0:
		kind = grid.TileScrub
	}
	return grid.Tile{
		X:        x,
		Y:        y,
		Kind:     kind,
		Passable: kind != grid.TileRock && kind != grid.TileWater,
	}
}

func tileSeed(seed int64, x, y int) int {
	v := x*73856093 ^ y*19349663 ^ int(seed)*83492791
	if v < 0 {
		v = -v
	}
	return v
}

func (p *Provider) IsValid(c grid.Cell) bool {
	return p.size.Contains(c)
}

func (p *Provider) IsWalkable(c grid.Cell) bool {
	t, ok := p.tiles[c]
	return ok && t.Passable
}

func (p *Provider) TileKind(c grid.Cell) grid.TileKind {
	t, ok := p.tiles[c]
	if !ok {
		return grid.TileRock
	}
	return t.Kind
}

func (p *Provider) Size() grid.Size {
	return p.size
}

func (p *Provider) GridToWorld(c grid.Cell) (float64, float64) {
	return (float64(c.X) + 0.5) * p.cellSize, (float64(c.Y) + 0.5) * p.cellSize
}

func (p *Provider) WorldToGrid(x, y float64) grid.Cell {
	return grid.Cell{X: int(x / p.cellSize), Y: int(y / p.cellSize)}
}

// Tiles lists the map in row-major order.
func (p *Provider) Tiles() []grid.Tile {
	out := make([]grid.Tile, 0, p.size.Width*p.size.Height)
	for y := 0; y < p.size.Height; y++ {
		for x := 0; x < p.size.Width; x++ {
			out = append(out, p.tiles[grid.Cell{X: x, Y: y}])
		}
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
