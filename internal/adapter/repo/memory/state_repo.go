package memory

import (
	"context"
	"encoding/json"

	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
)

type GameStateRepo struct {
	store *Store
}

func NewGameStateRepo(store *Store) GameStateRepo {
	return GameStateRepo{store: store}
}

func (r GameStateRepo) GetByGameID(ctx context.Context, gameID string) (city.WorldState, error) {
	var (
		raw []byte
		ok  bool
	)
	r.store.read(ctx, func() { raw, ok = r.store.states[gameID] })
	if !ok {
		return city.WorldState{}, ports.ErrNotFound
	}
	var state city.WorldState
	if err := json.Unmarshal(raw, &state); err != nil {
		return city.WorldState{}, err
	}
	return state, nil
}

func (r GameStateRepo) SaveWithVersion(ctx context.Context, state city.WorldState, expectedVersion int64) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	r.store.write(ctx, func() {
		current, ok := r.store.states[state.GameID]
		if !ok {
			if expectedVersion != 0 {
				err = ports.ErrConflict
				return
			}
			r.store.states[state.GameID] = raw
			return
		}
		if expectedVersion == 0 || storedVersion(current) != expectedVersion {
			err = ports.ErrConflict
			return
		}
		r.store.states[state.GameID] = raw
	})
	return err
}

func storedVersion(raw []byte) int64 {
	var head struct {
		Version int64 `json:"version"`
	}
	_ = json.Unmarshal(raw, &head)
	return head.Version
}
