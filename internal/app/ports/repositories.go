package ports

import (
	"context"
	"time"

	"resurgent/internal/domain/city"
)

// GameStateRepository stores one WorldState per game. SaveWithVersion with
// expectedVersion 0 creates the game; otherwise the stored version must match.
type GameStateRepository interface {
	GetByGameID(ctx context.Context, gameID string) (city.WorldState, error)
	SaveWithVersion(ctx context.Context, state city.WorldState, expectedVersion int64) error
}

type EventRepository interface {
	Append(ctx context.Context, gameID string, events []city.DomainEvent) error
	ListByGameID(ctx context.Context, gameID string, limit int) ([]city.DomainEvent, error)
}

type GameCredentialRecord struct {
	GameID    string
	KeySalt   []byte
	KeyHash   []byte
	Status    string
	CreatedAt time.Time
}

type GameCredentialRepository interface {
	Create(ctx context.Context, credential GameCredentialRecord) error
	GetByGameID(ctx context.Context, gameID string) (GameCredentialRecord, error)
}
