package day

import (
	"context"
	"errors"
	"strings"

	"resurgent/internal/app/shared/gamerun"
	"resurgent/internal/domain/city"
)

var ErrInvalidRequest = errors.New("invalid day request")

type AdvanceRequest struct {
	GameID string
}

type ChoiceRequest struct {
	GameID string
	Option string
}

type Response struct {
	Result city.DayResult  `json:"result"`
	State  city.WorldState `json:"state"`
}

type UseCase struct {
	Runner gamerun.Runner
	Sim    city.Simulator
}

// Advance runs one day. A pending event choice blocks it with city.ErrChoicePending.
func (u UseCase) Advance(ctx context.Context, req AdvanceRequest) (Response, error) {
	gameID := strings.TrimSpace(req.GameID)
	if gameID == "" {
		return Response{}, ErrInvalidRequest
	}
	var result city.DayResult
	state, _, err := u.Runner.Apply(ctx, "advance_day", gameID, func(state *city.WorldState) ([]city.DomainEvent, error) {
		res, err := u.Sim.AdvanceDay(state)
		if err != nil {
			return nil, err
		}
		result = res
		return res.Events, nil
	})
	if err != nil {
		return Response{}, err
	}
	return Response{Result: result, State: state}, nil
}

// ResolveChoice applies the picked option and finishes the suspended day.
func (u UseCase) ResolveChoice(ctx context.Context, req ChoiceRequest) (Response, error) {
	gameID := strings.TrimSpace(req.GameID)
	option := strings.ToLower(strings.TrimSpace(req.Option))
	if gameID == "" || option == "" {
		return Response{}, ErrInvalidRequest
	}
	var result city.DayResult
	state, _, err := u.Runner.Apply(ctx, "resolve_choice", gameID, func(state *city.WorldState) ([]city.DomainEvent, error) {
		res, err := u.Sim.ResolveChoice(state, option)
		if err != nil {
			return nil, err
		}
		result = res
		return res.Events, nil
	})
	if err != nil {
		return Response{}, err
	}
	return Response{Result: result, State: state}, nil
}
