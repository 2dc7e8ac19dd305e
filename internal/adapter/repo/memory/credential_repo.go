package memory

import (
	"context"

	"resurgent/internal/app/ports"
)

type GameCredentialRepo struct {
	store *Store
}

func NewGameCredentialRepo(store *Store) GameCredentialRepo {
	return GameCredentialRepo{store: store}
}

func (r GameCredentialRepo) Create(ctx context.Context, credential ports.GameCredentialRecord) error {
	var err error
	r.store.write(ctx, func() {
		if _, exists := r.store.credentials[credential.GameID]; exists {
			err = ports.ErrConflict
			return
		}
		r.store.credentials[credential.GameID] = credential
	})
	return err
}

func (r GameCredentialRepo) GetByGameID(ctx context.Context, gameID string) (ports.GameCredentialRecord, error) {
	var (
		cred ports.GameCredentialRecord
		ok   bool
	)
	r.store.read(ctx, func() { cred, ok = r.store.credentials[gameID] })
	if !ok {
		return ports.GameCredentialRecord{}, ports.ErrNotFound
	}
	return cred, nil
}
