package replay

import (
	"context"
	"errors"
	"strings"

	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const (
	DefaultLimit = 50
	MaxLimit     = city.MaxLogEntries
)

var knownCategories = map[city.LogCategory]bool{
	city.LogGeneric:  true,
	city.LogAction:   true,
	city.LogSuccess:  true,
	city.LogResource: true,
	city.LogDanger:   true,
	city.LogEvent:    true,
	city.LogResearch: true,
	city.LogVictory:  true,
	city.LogDefeat:   true,
}

type UseCase struct {
	StateRepo ports.GameStateRepository
	EventRepo ports.EventRepository
}

// Log returns the newest message history entries, optionally of one category.
func (u UseCase) Log(ctx context.Context, req LogRequest) (LogResponse, error) {
	gameID := strings.TrimSpace(req.GameID)
	category := city.LogCategory(strings.ToLower(strings.TrimSpace(req.Category)))
	if gameID == "" || (category != "" && !knownCategories[category]) {
		return LogResponse{}, ErrInvalidRequest
	}
	state, err := u.StateRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return LogResponse{}, err
	}
	return LogResponse{Day: state.Day, Entries: state.FilterLog(category, clampLimit(req.Limit))}, nil
}

// Events lists stored notifications newest first.
func (u UseCase) Events(ctx context.Context, req EventsRequest) (EventsResponse, error) {
	gameID := strings.TrimSpace(req.GameID)
	if gameID == "" || u.EventRepo == nil {
		return EventsResponse{}, ErrInvalidRequest
	}
	limit := clampLimit(req.Limit)
	fetch := limit
	eventType := strings.TrimSpace(req.Type)
	if eventType != "" {
		fetch = 0
	}
	events, err := u.EventRepo.ListByGameID(ctx, gameID, fetch)
	if err != nil {
		return EventsResponse{}, err
	}
	out := make([]city.DomainEvent, 0, min(len(events), limit))
	for _, evt := range events {
		if eventType != "" && evt.Type != eventType {
			continue
		}
		out = append(out, evt)
		if len(out) == limit {
			break
		}
	}
	return EventsResponse{Events: out}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxLimit)
}
