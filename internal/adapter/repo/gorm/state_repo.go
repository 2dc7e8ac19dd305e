package gormrepo

import (
	"context"
	"encoding/json"
	"errors"

	"resurgent/internal/adapter/repo/gorm/model"
	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"

	"gorm.io/gorm"
)

// GameStateRepo stores the whole world state as one jsonb document per game.
// Day and outcome are mirrored into columns for listing.
type GameStateRepo struct {
	db *gorm.DB
}

func NewGameStateRepo(db *gorm.DB) GameStateRepo {
	return GameStateRepo{db: db}
}

func (r GameStateRepo) GetByGameID(ctx context.Context, gameID string) (city.WorldState, error) {
	var m model.GameState
	if err := conn(ctx, r.db).Where("game_id = ?", gameID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return city.WorldState{}, ports.ErrNotFound
		}
		return city.WorldState{}, err
	}
	var state city.WorldState
	if err := json.Unmarshal(m.State, &state); err != nil {
		return city.WorldState{}, err
	}
	state.GameID = m.GameID
	state.Version = m.Version
	return state, nil
}

func (r GameStateRepo) SaveWithVersion(ctx context.Context, state city.WorldState, expectedVersion int64) error {
	db := conn(ctx, r.db)
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if expectedVersion == 0 {
		m := model.GameState{
			GameID:    state.GameID,
			Day:       int32(state.Day),
			Outcome:   string(state.Outcome),
			State:     raw,
			Version:   state.Version,
			UpdatedAt: state.UpdatedAt,
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
		"day":        int32(state.Day),
		"outcome":    string(state.Outcome),
		"state":      raw,
		"version":    state.Version,
		"updated_at": state.UpdatedAt,
	}
	res := db.Model(&model.GameState{}).
		Where("game_id = ? AND version = ?", state.GameID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
