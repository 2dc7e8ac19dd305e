package action

import (
	"context"
	"errors"
	"strings"

	"resurgent/internal/app/shared/gamerun"
	"resurgent/internal/domain/city"
)

var (
	ErrInvalidRequest       = errors.New("invalid command request")
	ErrInvalidCommandParams = errors.New("invalid command params")
)

type UseCase struct {
	Runner gamerun.Runner
	Sim    city.Simulator
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.GameID = strings.TrimSpace(req.GameID)
	req.Command = CommandType(strings.TrimSpace(string(req.Command)))
	req.SurvivorID = strings.TrimSpace(req.SurvivorID)
	req.Key = strings.TrimSpace(req.Key)
	if req.GameID == "" || !isSupportedCommand(req.Command) {
		return Response{}, ErrInvalidRequest
	}
	spec := commandRegistry()[req.Command]
	if !spec.Validate(req) {
		return Response{}, ErrInvalidCommandParams
	}

	var out outcome
	state, events, err := u.Runner.Apply(ctx, string(req.Command), req.GameID, func(state *city.WorldState) ([]city.DomainEvent, error) {
		res, err := spec.Apply(u.Sim, state, req)
		if err != nil {
			return nil, err
		}
		out = res
		return res.events, nil
	})
	if err != nil {
		if city.IsRejection(err) {
			return Response{ResultCode: ResultRejected, Message: err.Error(), Events: []city.DomainEvent{}, State: state}, err
		}
		return Response{}, err
	}
	if events == nil {
		events = []city.DomainEvent{}
	}
	return Response{
		ResultCode: ResultOK,
		Message:    out.message,
		Action:     out.action,
		Events:     events,
		State:      state,
	}, nil
}
