package observe

import (
	"context"
	"errors"
	"strings"

	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
	"resurgent/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid observe request")

// UseCase describes one block and what can be started there.
type UseCase struct {
	StateRepo ports.GameStateRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.GameID) == "" {
		return Response{}, ErrInvalidRequest
	}
	state, err := u.StateRepo.GetByGameID(ctx, strings.TrimSpace(req.GameID))
	if err != nil {
		return Response{}, err
	}
	pos := world.Pos(req.X, req.Y)
	block, err := state.Map.At(pos)
	if err != nil {
		return Response{}, ErrInvalidRequest
	}
	fort := world.Center(state.Map.Size())

	actions := []ActionOption{}
	for _, a := range city.AvailableActions(&state, pos) {
		food, materials := city.ActionCost(a)
		days := 0
		if a != city.ActionTrade && a != city.ActionAssignToResearch {
			days = city.TaskDuration(pos, fort)
		}
		actions = append(actions, ActionOption{
			Action:     a,
			Food:       food,
			Materials:  materials,
			Days:       days,
			Affordable: state.Food >= food && state.Materials >= materials,
		})
	}

	workers := []city.Survivor{}
	idle := []city.Survivor{}
	for _, sv := range state.Survivors {
		if sv.IsBusy && sv.AssignedBlock != nil && *sv.AssignedBlock == pos {
			workers = append(workers, sv)
		}
		if sv.Available() {
			idle = append(idle, sv)
		}
	}

	return Response{
		Block:           *block,
		InInfluenceZone: state.Map.InInfluenceZone(pos),
		Distance:        world.Chebyshev(pos, fort),
		Actions:         actions,
		Workers:         workers,
		Idle:            idle,
	}, nil
}
