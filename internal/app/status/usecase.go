package status

import (
	"context"
	"errors"
	"strings"

	"resurgent/internal/app/ports"
	"resurgent/internal/app/shared/stateview"
	"resurgent/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid status request")

// AutoAdvanceProbe reports whether a game is being advanced on a timer.
type AutoAdvanceProbe interface {
	Running(gameID string) bool
}

type UseCase struct {
	StateRepo ports.GameStateRepository
	Auto      AutoAdvanceProbe
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	gameID := strings.TrimSpace(req.GameID)
	if gameID == "" {
		return Response{}, ErrInvalidRequest
	}
	state, err := u.StateRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return Response{}, err
	}

	threats := []world.Position{}
	for _, b := range state.Map.ThreatBlocks() {
		threats = append(threats, b.Pos())
	}
	zone := state.Map.ZoneCells()
	if zone == nil {
		zone = []world.Position{}
	}
	resp := Response{
		State:           state,
		InfluenceZone:   zone,
		ThreatBlocks:    threats,
		ClearedBlocks:   state.ClearedBlocks(),
		AvailableCount:  len(state.AvailableSurvivors()),
		ResearchedCount: state.ResearchedCount(),
		Outlook:         stateview.EstimateOutlook(state),
		SurvivorFlags:   stateview.FlagsByID(state),
	}
	if u.Auto != nil {
		resp.AutoAdvanceActive = u.Auto.Running(gameID)
	}
	return resp, nil
}
