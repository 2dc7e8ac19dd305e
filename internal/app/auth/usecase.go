package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
)

const (
	CredentialStatusActive = "active"
)

var (
	ErrInvalidRequest     = errors.New("invalid auth request")
	ErrInvalidCredentials = errors.New("invalid game credentials")
)

// CreateGameRequest starts a fresh city unless Seed carries a restored one.
type CreateGameRequest struct {
	Seed       *city.WorldState
	SeedEvents []city.DomainEvent
}

type CreateGameResponse struct {
	GameID   string          `json:"game_id"`
	GameKey  string          `json:"game_key"`
	IssuedAt string          `json:"issued_at"`
	State    city.WorldState `json:"state"`
}

type VerifyRequest struct {
	GameID  string
	GameKey string
}

type CreateGameUseCase struct {
	Credentials ports.GameCredentialRepository
	StateRepo   ports.GameStateRepository
	EventRepo   ports.EventRepository
	TxManager   ports.TxManager
	Sim         city.Simulator
	NewGameID   func() string
	Now         func() time.Time
}

type VerifyUseCase struct {
	Credentials ports.GameCredentialRepository
}

func (u CreateGameUseCase) Execute(ctx context.Context, req CreateGameRequest) (CreateGameResponse, error) {
	if u.Credentials == nil || u.StateRepo == nil || u.TxManager == nil {
		return CreateGameResponse{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	newID := u.NewGameID
	if newID == nil {
		newID = newGameID
	}
	now := nowFn().UTC()

	for i := 0; i < 3; i++ {
		gameID := newID()
		gameKey, err := randomToken(32)
		if err != nil {
			return CreateGameResponse{}, err
		}
		salt, err := randomBytes(16)
		if err != nil {
			return CreateGameResponse{}, err
		}
		hash := credentialHash(salt, gameKey)

		var seed city.WorldState
		var events []city.DomainEvent
		if req.Seed != nil {
			seed = *req.Seed
			events = req.SeedEvents
		} else {
			seed, events, err = u.Sim.NewGame(gameID)
			if err != nil {
				return CreateGameResponse{}, err
			}
		}
		seed.GameID = gameID
		seed.Version = 1
		seed.UpdatedAt = now

		err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			if err := u.Credentials.Create(txCtx, ports.GameCredentialRecord{
				GameID:    gameID,
				KeySalt:   salt,
				KeyHash:   hash,
				Status:    CredentialStatusActive,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			if err := u.StateRepo.SaveWithVersion(txCtx, seed, 0); err != nil {
				return err
			}
			if u.EventRepo != nil && len(events) > 0 {
				return u.EventRepo.Append(txCtx, gameID, events)
			}
			return nil
		})
		if errors.Is(err, ports.ErrConflict) {
			continue
		}
		if err != nil {
			return CreateGameResponse{}, err
		}
		return CreateGameResponse{
			GameID:   gameID,
			GameKey:  gameKey,
			IssuedAt: now.Format(time.RFC3339),
			State:    seed,
		}, nil
	}

	return CreateGameResponse{}, ports.ErrConflict
}

func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) error {
	req.GameID = strings.TrimSpace(req.GameID)
	req.GameKey = strings.TrimSpace(req.GameKey)
	if req.GameID == "" || req.GameKey == "" || u.Credentials == nil {
		return ErrInvalidRequest
	}

	cred, err := u.Credentials.GetByGameID(ctx, req.GameID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if cred.Status != CredentialStatusActive {
		return ErrInvalidCredentials
	}

	got := credentialHash(cred.KeySalt, req.GameKey)
	if subtle.ConstantTimeCompare(got, cred.KeyHash) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func credentialHash(salt []byte, key string) []byte {
	b := make([]byte, 0, len(salt)+len(key))
	b = append(b, salt...)
	b = append(b, key...)
	sum := sha256.Sum256(b)
	return sum[:]
}

func newGameID() string {
	return "game_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func randomToken(n int) (string, error) {
	b, err := randomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
