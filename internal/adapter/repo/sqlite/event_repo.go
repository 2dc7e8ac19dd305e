package sqliterepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"resurgent/internal/domain/city"
)

type eventRow struct {
	ID          int64  `db:"id"`
	Type        string `db:"type"`
	Day         int    `db:"day"`
	OccurredAt  int64  `db:"occurred_at"`
	PayloadJSON string `db:"payload_json"`
}

type EventRepo struct {
	db *DB
}

func NewEventRepo(db *DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, gameID string, events []city.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	q := queryer(ctx, r.db.conn)
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		if _, err := q.ExecContext(ctx,
			`INSERT INTO game_events (game_id, type, day, occurred_at, payload_json) VALUES (?, ?, ?, ?, ?)`,
			gameID, e.Type, e.Day, e.OccurredAt.UnixNano(), string(b)); err != nil {
			return err
		}
	}
	return nil
}

// ListByGameID returns the newest events first; insertion order breaks timestamp ties.
func (r EventRepo) ListByGameID(ctx context.Context, gameID string, limit int) ([]city.DomainEvent, error) {
	query := `SELECT id, type, day, occurred_at, payload_json FROM game_events
		WHERE game_id = ? ORDER BY occurred_at DESC, id DESC`
	args := []any{gameID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows := []eventRow{}
	if err := sqlx.SelectContext(ctx, queryer(ctx, r.db.conn), &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]city.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if row.PayloadJSON != "" {
			_ = json.Unmarshal([]byte(row.PayloadJSON), &payload)
		}
		out = append(out, city.DomainEvent{
			Type:       row.Type,
			Day:        row.Day,
			OccurredAt: time.Unix(0, row.OccurredAt).UTC(),
			Payload:    payload,
		})
	}
	return out, nil
}
