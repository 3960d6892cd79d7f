package gormrepo

import (
	"context"
	"errors"
	"time"

	"burrowverse/internal/adapter/repo/gorm/model"
	"burrowverse/internal/app/ports"

	"gorm.io/gorm"
)

type RunRepo struct {
	db *gorm.DB
}

func NewRunRepo(db *gorm.DB) RunRepo {
	return RunRepo{db: db}
}

func (r RunRepo) Get(ctx context.Context, runID string) (ports.RunRecord, error) {
	var m model.Run
	if err := getDBFromCtx(ctx, r.db).Where("run_id = ?", runID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RunRecord{}, ports.ErrNotFound
		}
		return ports.RunRecord{}, err
	}
	return ports.RunRecord{
		RunID:      m.RunID,
		Seed:       m.Seed,
		Turn:       uint64(m.Turn),
		AgentCount: int(m.AgentCount),
		Version:    m.Version,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

func (r RunRepo) Create(ctx context.Context, record ports.RunRecord) error {
	now := time.Now().UTC()
	m := model.Run{
		RunID:      record.RunID,
		Seed:       record.Seed,
		Turn:       int64(record.Turn),
		AgentCount: int32(record.AgentCount),
		Version:    record.Version,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

// SaveWithVersion persists the run guarded by optimistic concurrency.
// expectedVersion 0 means the row must not exist yet; any other value must
// match the stored version or the save is rejected with ErrConflict.
func (r RunRepo) SaveWithVersion(ctx context.Context, record ports.RunRecord, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		now := time.Now().UTC()
		m := model.Run{
			RunID:      record.RunID,
			Seed:       record.Seed,
			Turn:       int64(record.Turn),
			AgentCount: int32(record.AgentCount),
			Version:    1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := db.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	updates := map[string]any{
		"turn":        int64(record.Turn),
		"agent_count": int32(record.AgentCount),
		"version":     expectedVersion + 1,
		"updated_at":  time.Now().UTC(),
	}

	res := db.Model(&model.Run{}).
		Where("run_id = ? AND version = ?", record.RunID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
