// Package gamerun applies one simulator operation to a stored game inside a
// transaction.
package gamerun

import (
	"context"
	"errors"
	"time"

	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
)

var ErrNotConfigured = errors.New("game runner is not configured")

// Operation mutates the loaded state and returns the notifications it raised.
type Operation func(state *city.WorldState) ([]city.DomainEvent, error)

type Runner struct {
	TxManager ports.TxManager
	StateRepo ports.GameStateRepository
	EventRepo ports.EventRepository
	Metrics   ports.CommandMetrics
	Now       func() time.Time
}

// Apply loads gameID, runs op and saves the result against the loaded version.
// A rejected command is saved too so its log entry survives; the rejection is
// returned after the transaction commits.
func (r Runner) Apply(ctx context.Context, command, gameID string, op Operation) (city.WorldState, []city.DomainEvent, error) {
	if r.TxManager == nil || r.StateRepo == nil {
		return city.WorldState{}, nil, ErrNotConfigured
	}
	nowFn := r.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var (
		out       city.WorldState
		events    []city.DomainEvent
		rejection error
	)
	err := r.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state, err := r.StateRepo.GetByGameID(txCtx, gameID)
		if err != nil {
			return err
		}
		expected := state.Version

		evts, err := op(&state)
		if err != nil {
			if !city.IsRejection(err) {
				return err
			}
			rejection = err
		}

		state.Version = expected + 1
		state.UpdatedAt = nowFn().UTC()
		if err := r.StateRepo.SaveWithVersion(txCtx, state, expected); err != nil {
			return err
		}
		for i := range evts {
			if evts[i].Payload == nil {
				evts[i].Payload = map[string]any{}
			}
			evts[i].Payload["game_id"] = gameID
		}
		if r.EventRepo != nil && len(evts) > 0 {
			if err := r.EventRepo.Append(txCtx, gameID, evts); err != nil {
				return err
			}
		}
		out = state
		events = evts
		return nil
	})
	if err != nil {
		if r.Metrics != nil {
			if errors.Is(err, ports.ErrConflict) {
				r.Metrics.RecordConflict()
			} else {
				r.Metrics.RecordFailure()
			}
		}
		return city.WorldState{}, nil, err
	}
	if rejection != nil {
		if r.Metrics != nil {
			r.Metrics.RecordRejected(command)
		}
		return out, events, rejection
	}
	if r.Metrics != nil {
		r.Metrics.RecordSuccess(command)
	}
	return out, events, nil
}

// Load reads a game without changing it.
func (r Runner) Load(ctx context.Context, gameID string) (city.WorldState, error) {
	if r.StateRepo == nil {
		return city.WorldState{}, ErrNotConfigured
	}
	return r.StateRepo.GetByGameID(ctx, gameID)
}
