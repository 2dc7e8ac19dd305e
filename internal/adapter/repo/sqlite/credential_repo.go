package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"resurgent/internal/app/ports"
)

type credentialRow struct {
	GameID    string `db:"game_id"`
	KeySalt   []byte `db:"key_salt"`
	KeyHash   []byte `db:"key_hash"`
	Status    string `db:"status"`
	CreatedAt int64  `db:"created_at"`
}

type GameCredentialRepo struct {
	db *DB
}

func NewGameCredentialRepo(db *DB) GameCredentialRepo {
	return GameCredentialRepo{db: db}
}

func (r GameCredentialRepo) Create(ctx context.Context, credential ports.GameCredentialRecord) error {
	res, err := queryer(ctx, r.db.conn).ExecContext(ctx,
		`INSERT INTO game_credentials (game_id, key_salt, key_hash, status, created_at)
		 VALUES (?, ?, ?, ?, ?) ON CONFLICT(game_id) DO NOTHING`,
		credential.GameID, credential.KeySalt, credential.KeyHash, credential.Status, credential.CreatedAt.UnixNano())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r GameCredentialRepo) GetByGameID(ctx context.Context, gameID string) (ports.GameCredentialRecord, error) {
	var row credentialRow
	err := sqlx.GetContext(ctx, queryer(ctx, r.db.conn), &row,
		`SELECT game_id, key_salt, key_hash, status, created_at FROM game_credentials WHERE game_id = ?`, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.GameCredentialRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.GameCredentialRecord{}, err
	}
	return ports.GameCredentialRecord{
		GameID:    row.GameID,
		KeySalt:   row.KeySalt,
		KeyHash:   row.KeyHash,
		Status:    row.Status,
		CreatedAt: time.Unix(0, row.CreatedAt).UTC(),
	}, nil
}
