package gormrepo

import (
	"context"
	"encoding/json"

	"resurgent/internal/adapter/repo/gorm/model"
	"resurgent/internal/domain/city"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, gameID string, events []city.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.GameEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.GameEvent{
			GameID:     gameID,
			Type:       e.Type,
			Day:        int32(e.Day),
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return conn(ctx, r.db).Create(&rows).Error
}

// ListByGameID returns the newest events first; insertion order breaks timestamp ties.
func (r EventRepo) ListByGameID(ctx context.Context, gameID string, limit int) ([]city.DomainEvent, error) {
	rows := []model.GameEvent{}
	query := conn(ctx, r.db).
		Where(&model.GameEvent{GameID: gameID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "occurred_at"}, Desc: true},
				{Column: clause.Column{Name: "id"}, Desc: true},
			},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]city.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, city.DomainEvent{
			Type:       row.Type,
			Day:        int(row.Day),
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
