package memory

import (
	"context"

	"resurgent/internal/domain/city"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, gameID string, events []city.DomainEvent) error {
	r.store.write(ctx, func() {
		r.store.events[gameID] = append(r.store.events[gameID], events...)
	})
	return nil
}

// ListByGameID returns the newest events first.
func (r EventRepo) ListByGameID(ctx context.Context, gameID string, limit int) ([]city.DomainEvent, error) {
	var out []city.DomainEvent
	r.store.read(ctx, func() {
		all := r.store.events[gameID]
		out = make([]city.DomainEvent, 0, len(all))
		for i := len(all) - 1; i >= 0; i-- {
			out = append(out, all[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	})
	return out, nil
}
