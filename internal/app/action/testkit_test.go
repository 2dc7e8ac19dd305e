package action

import (
	"context"
	"testing"
	"time"

	"resurgent/internal/app/ports"
	"resurgent/internal/app/shared/gamerun"
	"resurgent/internal/domain/city"
)

type fixedRand struct{}

func (fixedRand) Float64() float64 { return 0.5 }
func (fixedRand) IntN(n int) int   { return n / 2 }

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubStateRepo struct {
	byGame map[string]city.WorldState
}

func (r *stubStateRepo) GetByGameID(_ context.Context, gameID string) (city.WorldState, error) {
	state, ok := r.byGame[gameID]
	if !ok {
		return city.WorldState{}, ports.ErrNotFound
	}
	return state, nil
}

func (r *stubStateRepo) SaveWithVersion(_ context.Context, state city.WorldState, expectedVersion int64) error {
	if current := r.byGame[state.GameID]; current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byGame[state.GameID] = state
	return nil
}

type stubEventRepo struct {
	events []city.DomainEvent
}

func (r *stubEventRepo) Append(_ context.Context, _ string, events []city.DomainEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *stubEventRepo) ListByGameID(_ context.Context, _ string, _ int) ([]city.DomainEvent, error) {
	return r.events, nil
}

func newSimulator() city.Simulator {
	return city.Simulator{
		Rand:    fixedRand{},
		Content: city.DefaultContent(),
		Now:     func() time.Time { return time.Unix(1700000000, 0).UTC() },
	}
}

func newUseCase(t *testing.T) (UseCase, *stubStateRepo) {
	t.Helper()
	sim := newSimulator()
	state, _, err := sim.NewGame("game-1")
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	state.Version = 1
	repo := &stubStateRepo{byGame: map[string]city.WorldState{"game-1": state}}
	return UseCase{
		Runner: gamerun.Runner{
			TxManager: stubTxManager{},
			StateRepo: repo,
			EventRepo: &stubEventRepo{},
			Now:       sim.Now,
		},
		Sim: sim,
	}, repo
}
