// Package snapshot moves whole games in and out of the server.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resurgent/internal/app/auth"
	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
)

var (
	ErrInvalidRequest  = errors.New("invalid snapshot request")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

type GameCreator interface {
	Execute(ctx context.Context, req auth.CreateGameRequest) (auth.CreateGameResponse, error)
}

type ExportRequest struct {
	GameID string
}

type ExportResponse struct {
	GameID string
	Day    int
	Data   []byte
}

type ImportRequest struct {
	Data []byte
}

type UseCase struct {
	StateRepo ports.GameStateRepository
	Codec     ports.SnapshotCodec
	Creator   GameCreator
	Sim       city.Simulator
}

func (u UseCase) Export(ctx context.Context, req ExportRequest) (ExportResponse, error) {
	gameID := strings.TrimSpace(req.GameID)
	if gameID == "" || u.Codec == nil {
		return ExportResponse{}, ErrInvalidRequest
	}
	state, err := u.StateRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return ExportResponse{}, err
	}
	data, err := u.Codec.Encode(state)
	if err != nil {
		return ExportResponse{}, err
	}
	return ExportResponse{GameID: gameID, Day: state.Day, Data: data}, nil
}

// Import decodes a snapshot, repairs it against the current content tables and
// registers it as a new game with fresh credentials.
func (u UseCase) Import(ctx context.Context, req ImportRequest) (auth.CreateGameResponse, error) {
	if len(req.Data) == 0 || u.Codec == nil || u.Creator == nil {
		return auth.CreateGameResponse{}, ErrInvalidRequest
	}
	state, err := u.Codec.Decode(req.Data)
	if err != nil {
		return auth.CreateGameResponse{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	events, err := u.Sim.Restore(&state)
	if err != nil {
		return auth.CreateGameResponse{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return u.Creator.Execute(ctx, auth.CreateGameRequest{Seed: &state, SeedEvents: events})
}
