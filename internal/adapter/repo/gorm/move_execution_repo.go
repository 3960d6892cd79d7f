package gormrepo

import (
	"context"
	"errors"

	"burrowverse/internal/adapter/repo/gorm/model"
	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/grid"

	"gorm.io/gorm"
)

type MoveExecutionRepo struct {
	db *gorm.DB
}

func NewMoveExecutionRepo(db *gorm.DB) MoveExecutionRepo {
	return MoveExecutionRepo{db: db}
}

func (r MoveExecutionRepo) GetByRequestID(ctx context.Context, runID, requestID string) (*ports.MoveExecutionRecord, error) {
	var m model.MoveExecution
	err := getDBFromCtx(ctx, r.db).
		Where("run_id = ? AND request_id = ?", runID, requestID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &ports.MoveExecutionRecord{
		RunID:     m.RunID,
		RequestID: m.RequestID,
		Outcome: ports.MoveOutcome{
			Turn:       uint64(m.Turn),
			PlayerCell: grid.Cell{X: int(m.PlayerX), Y: int(m.PlayerY)},
			Reverted:   m.Reverted,
		},
		AppliedAt: m.AppliedAt,
	}, nil
}

func (r MoveExecutionRepo) SaveExecution(ctx context.Context, record ports.MoveExecutionRecord) error {
	m := model.MoveExecution{
		RunID:     record.RunID,
		RequestID: record.RequestID,
		Turn:      int64(record.Outcome.Turn),
		PlayerX:   int32(record.Outcome.PlayerCell.X),
		PlayerY:   int32(record.Outcome.PlayerCell.Y),
		Reverted:  record.Outcome.Reverted,
		AppliedAt: record.AppliedAt,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}
