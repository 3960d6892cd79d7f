package gormrepo

import (
	"context"
	"encoding/json"

	"burrowverse/internal/adapter/repo/gorm/model"
	"burrowverse/internal/domain/creature"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TurnEventRepo struct {
	db *gorm.DB
}

func NewTurnEventRepo(db *gorm.DB) TurnEventRepo {
	return TurnEventRepo{db: db}
}

func (r TurnEventRepo) Append(ctx context.Context, runID string, events []creature.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.TurnEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.TurnEvent{
			RunID:      runID,
			Type:       e.Type,
			Turn:       int64(e.Turn),
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

// ListRecent returns the newest limit events in journal order, oldest first.
// An empty journal is not an error.
func (r TurnEventRepo) ListRecent(ctx context.Context, runID string, limit int) ([]creature.Event, error) {
	rows := []model.TurnEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.TurnEvent{RunID: runID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]creature.Event, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, creature.Event{
			Type:       row.Type,
			Turn:       uint64(row.Turn),
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
