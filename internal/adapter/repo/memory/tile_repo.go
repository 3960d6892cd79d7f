package memory

import (
	"context"

	"burrowverse/internal/domain/grid"
)

type TileRepo struct {
	store *Store
}

func NewTileRepo(store *Store) TileRepo {
	return TileRepo{store: store}
}

func (r TileRepo) SaveTiles(_ context.Context, runID string, tiles []grid.Tile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.tiles[runID] = append([]grid.Tile(nil), tiles...)
	return nil
}

func (r TileRepo) LoadTiles(_ context.Context, runID string) ([]grid.Tile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	tiles := r.store.tiles[runID]
	out := make([]grid.Tile, len(tiles))
	copy(out, tiles)
	return out, nil
}
