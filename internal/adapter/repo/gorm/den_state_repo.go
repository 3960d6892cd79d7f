package gormrepo

import (
	"context"
	"time"

	"burrowverse/internal/adapter/repo/gorm/model"
	"burrowverse/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DenStateRepo struct {
	db *gorm.DB
}

func NewDenStateRepo(db *gorm.DB) DenStateRepo {
	return DenStateRepo{db: db}
}

func (r DenStateRepo) Upsert(ctx context.Context, runID string, record ports.DenStateRecord) error {
	row := model.DenState{
		RunID:      runID,
		DenID:      record.DenID,
		X:          int32(record.X),
		Y:          int32(record.Y),
		Capacity:   int32(record.Capacity),
		StoredFood: int32(record.StoredFood),
		Occupants:  int32(record.Occupants),
		UpdatedAt:  time.Now().UTC(),
	}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "run_id"}, {Name: "den_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"x", "y", "capacity", "stored_food", "occupants", "updated_at"}),
	}).Create(&row).Error
}

func (r DenStateRepo) List(ctx context.Context, runID string) ([]ports.DenStateRecord, error) {
	rows := []model.DenState{}
	err := getDBFromCtx(ctx, r.db).
		Where(&model.DenState{RunID: runID}).
		Order("den_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.DenStateRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.DenStateRecord{
			DenID:      row.DenID,
			X:          int(row.X),
			Y:          int(row.Y),
			Capacity:   int(row.Capacity),
			StoredFood: int(row.StoredFood),
			Occupants:  int(row.Occupants),
		})
	}
	return out, nil
}
