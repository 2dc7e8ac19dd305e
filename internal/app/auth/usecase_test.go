package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
)

func newSimulator() city.Simulator {
	return city.Simulator{Rand: fixedRand{}, Content: city.DefaultContent()}
}

func TestCreateGameUseCase_CreatesCredentialAndNewCity(t *testing.T) {
	creds := &fakeCredentialRepo{}
	state := &fakeStateRepo{}
	events := &fakeEventRepo{}
	uc := CreateGameUseCase{
		Credentials: creds,
		StateRepo:   state,
		EventRepo:   events,
		TxManager:   fakeTxManager{},
		Sim:         newSimulator(),
		Now:         func() time.Time { return time.Unix(1700000000, 0).UTC() },
	}

	resp, err := uc.Execute(context.Background(), CreateGameRequest{})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if !strings.HasPrefix(resp.GameID, "game_") || resp.GameKey == "" || resp.IssuedAt == "" {
		t.Fatalf("expected non-empty create response: %+v", resp)
	}
	if creds.last.GameID != resp.GameID {
		t.Fatalf("credential game mismatch: %s != %s", creds.last.GameID, resp.GameID)
	}
	if len(creds.last.KeySalt) == 0 || len(creds.last.KeyHash) == 0 {
		t.Fatalf("expected credential salt/hash stored")
	}
	if state.last.GameID != resp.GameID || state.last.Version != 1 {
		t.Fatalf("seed mismatch: game=%s version=%d", state.last.GameID, state.last.Version)
	}
	if len(state.last.Survivors) != city.StartingSurvivors || state.last.Day != 1 {
		t.Fatalf("expected a fresh city, got survivors=%d day=%d", len(state.last.Survivors), state.last.Day)
	}
}

func TestCreateGameUseCase_UsesSeedState(t *testing.T) {
	state := &fakeStateRepo{}
	uc := CreateGameUseCase{
		Credentials: &fakeCredentialRepo{},
		StateRepo:   state,
		TxManager:   fakeTxManager{},
		Sim:         newSimulator(),
		NewGameID:   func() string { return "game_fixed" },
	}
	seed := city.WorldState{GameID: "old", Day: 12, Version: 40, Food: 7}

	resp, err := uc.Execute(context.Background(), CreateGameRequest{Seed: &seed})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if resp.GameID != "game_fixed" || state.last.Day != 12 || state.last.Food != 7 || state.last.Version != 1 {
		t.Fatalf("seed not stored as a new game: %+v", state.last)
	}
}

func TestCreateGameUseCase_RetriesOnConflict(t *testing.T) {
	state := &fakeStateRepo{saveErrs: []error{ports.ErrConflict, nil}}
	n := 0
	uc := CreateGameUseCase{
		Credentials: &fakeCredentialRepo{},
		StateRepo:   state,
		TxManager:   fakeTxManager{},
		Sim:         newSimulator(),
		NewGameID: func() string {
			n++
			return "game_" + strings.Repeat("x", n)
		},
	}
	resp, err := uc.Execute(context.Background(), CreateGameRequest{})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if resp.GameID != "game_xx" {
		t.Fatalf("expected second id after conflict, got %s", resp.GameID)
	}
}

func TestVerifyUseCase_AcceptsValidCredentials(t *testing.T) {
	salt := []byte("salt")
	key := "game-secret"
	repo := &fakeCredentialRepo{
		getResult: ports.GameCredentialRecord{
			GameID:  "game_1",
			KeySalt: salt,
			KeyHash: credentialHash(salt, key),
			Status:  CredentialStatusActive,
		},
	}
	uc := VerifyUseCase{Credentials: repo}

	if err := uc.Execute(context.Background(), VerifyRequest{GameID: "game_1", GameKey: key}); err != nil {
		t.Fatalf("verify error: %v", err)
	}
}

func TestVerifyUseCase_RejectsInvalidCredentials(t *testing.T) {
	salt := []byte("salt")
	repo := &fakeCredentialRepo{
		getResult: ports.GameCredentialRecord{
			GameID:  "game_1",
			KeySalt: salt,
			KeyHash: credentialHash(salt, "correct"),
			Status:  CredentialStatusActive,
		},
	}
	uc := VerifyUseCase{Credentials: repo}

	err := uc.Execute(context.Background(), VerifyRequest{GameID: "game_1", GameKey: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	repo.getErr = ports.ErrNotFound
	if err := uc.Execute(context.Background(), VerifyRequest{GameID: "game_2", GameKey: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown game, got %v", err)
	}
	if err := uc.Execute(context.Background(), VerifyRequest{GameID: " "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestCreateGameUseCase_RollsBackOnStateSaveError(t *testing.T) {
	creds := &fakeCredentialRepo{}
	state := &fakeStateRepo{saveErrs: []error{errors.New("state save failed")}}
	tx := rollbackOnErrTxManager{creds: creds}
	uc := CreateGameUseCase{
		Credentials: creds,
		StateRepo:   state,
		TxManager:   tx,
		Sim:         newSimulator(),
		Now:         func() time.Time { return time.Unix(1700000000, 0).UTC() },
	}

	_, err := uc.Execute(context.Background(), CreateGameRequest{})
	if err == nil {
		t.Fatalf("expected create error")
	}
	if creds.last.GameID != "" {
		t.Fatalf("expected credential write rolled back on state failure")
	}
}

type fixedRand struct{}

func (fixedRand) Float64() float64 { return 0.5 }
func (fixedRand) IntN(n int) int   { return n / 2 }

type fakeCredentialRepo struct {
	last      ports.GameCredentialRecord
	getResult ports.GameCredentialRecord
	getErr    error
}

func (f *fakeCredentialRepo) Create(_ context.Context, credential ports.GameCredentialRecord) error {
	f.last = credential
	return nil
}

func (f *fakeCredentialRepo) GetByGameID(_ context.Context, _ string) (ports.GameCredentialRecord, error) {
	if f.getErr != nil {
		return ports.GameCredentialRecord{}, f.getErr
	}
	return f.getResult, nil
}

type fakeStateRepo struct {
	last     city.WorldState
	saveErrs []error
}

func (f *fakeStateRepo) GetByGameID(_ context.Context, _ string) (city.WorldState, error) {
	return f.last, nil
}

func (f *fakeStateRepo) SaveWithVersion(_ context.Context, state city.WorldState, _ int64) error {
	if len(f.saveErrs) > 0 {
		err := f.saveErrs[0]
		f.saveErrs = f.saveErrs[1:]
		if err != nil {
			return err
		}
	}
	f.last = state
	return nil
}

type fakeEventRepo struct {
	events []city.DomainEvent
}

func (f *fakeEventRepo) Append(_ context.Context, _ string, events []city.DomainEvent) error {
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeEventRepo) ListByGameID(_ context.Context, _ string, _ int) ([]city.DomainEvent, error) {
	return f.events, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type rollbackOnErrTxManager struct {
	creds *fakeCredentialRepo
}

func (m rollbackOnErrTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	snapshot := m.creds.last
	if err := fn(ctx); err != nil {
		m.creds.last = snapshot
		return err
	}
	return nil
}
