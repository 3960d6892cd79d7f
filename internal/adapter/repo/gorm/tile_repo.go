package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"burrowverse/internal/adapter/repo/gorm/model"
	"burrowverse/internal/domain/grid"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TileRepo stores a run's whole tile map as one JSON row. Maps are read once
// at startup and written once at generation, so there is nothing to gain from
// a row per tile.
type TileRepo struct {
	db *gorm.DB
}

func NewTileRepo(db *gorm.DB) TileRepo {
	return TileRepo{db: db}
}

func (r TileRepo) SaveTiles(ctx context.Context, runID string, tiles []grid.Tile) error {
	b, err := encodeTiles(tiles)
	if err != nil {
		return err
	}
	row := model.TileMap{
		RunID:     runID,
		Tiles:     b,
		UpdatedAt: time.Now().UTC(),
	}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "run_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tiles", "updated_at"}),
	}).Create(&row).Error
}

// LoadTiles returns an empty slice for a run with no cached map yet.
func (r TileRepo) LoadTiles(ctx context.Context, runID string) ([]grid.Tile, error) {
	var row model.TileMap
	if err := getDBFromCtx(ctx, r.db).Where("run_id = ?", runID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []grid.Tile{}, nil
		}
		return nil, err
	}
	return decodeTiles(row.Tiles)
}

func encodeTiles(tiles []grid.Tile) ([]byte, error) {
	return json.Marshal(tiles)
}

func decodeTiles(data []byte) ([]grid.Tile, error) {
	out := []grid.Tile{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
