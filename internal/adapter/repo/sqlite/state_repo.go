package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
)

type stateRow struct {
	GameID    string `db:"game_id"`
	Day       int    `db:"day"`
	Outcome   string `db:"outcome"`
	Version   int64  `db:"version"`
	StateJSON string `db:"state_json"`
	UpdatedAt int64  `db:"updated_at"`
}

type logRow struct {
	Seq      int    `db:"seq"`
	Day      int    `db:"day"`
	Category string `db:"category"`
	Text     string `db:"text"`
	LoggedAt int64  `db:"logged_at"`
}

// GameStateRepo stores the state document without its message history; the
// history lives in message_log and is replaced wholesale on every save.
type GameStateRepo struct {
	db *DB
}

func NewGameStateRepo(db *DB) GameStateRepo {
	return GameStateRepo{db: db}
}

func (r GameStateRepo) GetByGameID(ctx context.Context, gameID string) (city.WorldState, error) {
	q := queryer(ctx, r.db.conn)
	var row stateRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT game_id, day, outcome, version, state_json, updated_at FROM game_states WHERE game_id = ?`, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return city.WorldState{}, ports.ErrNotFound
	}
	if err != nil {
		return city.WorldState{}, err
	}
	var state city.WorldState
	if err := json.Unmarshal([]byte(row.StateJSON), &state); err != nil {
		return city.WorldState{}, err
	}
	state.GameID = row.GameID
	state.Version = row.Version

	var logs []logRow
	if err := sqlx.SelectContext(ctx, q, &logs, `SELECT seq, day, category, text, logged_at FROM message_log WHERE game_id = ? ORDER BY seq`, gameID); err != nil {
		return city.WorldState{}, err
	}
	state.MessageHistory = make([]city.LogEntry, 0, len(logs))
	for _, l := range logs {
		state.MessageHistory = append(state.MessageHistory, city.LogEntry{
			Timestamp: time.Unix(0, l.LoggedAt).UTC(),
			Day:       l.Day,
			Text:      l.Text,
			Category:  city.LogCategory(l.Category),
		})
	}
	return state, nil
}

func (r GameStateRepo) SaveWithVersion(ctx context.Context, state city.WorldState, expectedVersion int64) error {
	return NewTxManager(r.db).RunInTx(ctx, func(ctx context.Context) error {
		q := queryer(ctx, r.db.conn)
		history := state.MessageHistory
		state.MessageHistory = nil
		raw, err := json.Marshal(state)
		if err != nil {
			return err
		}

		var res sql.Result
		if expectedVersion == 0 {
			res, err = q.ExecContext(ctx,
				`INSERT INTO game_states (game_id, day, outcome, version, state_json, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(game_id) DO NOTHING`,
				state.GameID, state.Day, string(state.Outcome), state.Version, string(raw), state.UpdatedAt.UnixNano())
		} else {
			res, err = q.ExecContext(ctx,
				`UPDATE game_states SET day = ?, outcome = ?, version = ?, state_json = ?, updated_at = ?
				 WHERE game_id = ? AND version = ?`,
				state.Day, string(state.Outcome), state.Version, string(raw), state.UpdatedAt.UnixNano(),
				state.GameID, expectedVersion)
		}
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ports.ErrConflict
		}

		if err := replaceLog(ctx, q, state.GameID, history); err != nil {
			return err
		}
		return r.db.setMeta(ctx, metaLastGame, state.GameID)
	})
}

func replaceLog(ctx context.Context, q sqlx.ExtContext, gameID string, history []city.LogEntry) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM message_log WHERE game_id = ?`, gameID); err != nil {
		return err
	}
	for i, e := range history {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO message_log (game_id, seq, day, category, text, logged_at) VALUES (?, ?, ?, ?, ?, ?)`,
			gameID, i, e.Day, string(e.Category), e.Text, e.Timestamp.UnixNano()); err != nil {
			return err
		}
	}
	return nil
}

// LastGame loads the most recently saved game, or ports.ErrNotFound.
func (r GameStateRepo) LastGame(ctx context.Context) (city.WorldState, error) {
	id, err := r.db.GetMeta(ctx, metaLastGame)
	if err != nil {
		return city.WorldState{}, err
	}
	if id == "" {
		return city.WorldState{}, ports.ErrNotFound
	}
	return r.GetByGameID(ctx, id)
}
