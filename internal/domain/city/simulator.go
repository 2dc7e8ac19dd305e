package city

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"resurgent/internal/domain/world"
)

// Simulator applies the game rules to a WorldState passed in by the caller.
// It holds no game state of its own.
type Simulator struct {
	Rand    Rand
	Content Content
	Seeder  world.Seeder
	NewID   func() string
	Now     func() time.Time
}

var idSeq atomic.Int64

func (s Simulator) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Simulator) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return "survivor-" + strconv.FormatInt(idSeq.Add(1), 10)
}

func (s Simulator) content() Content {
	if len(s.Content.Traits) == 0 {
		return DefaultContent()
	}
	return s.Content
}

// turn collects the narration and notifications one operation produces.
type turn struct {
	sim     Simulator
	content Content
	rng     Rand
	state   *WorldState
	now     time.Time
	events  []DomainEvent
}

func (s Simulator) begin(state *WorldState) *turn {
	return &turn{
		sim:     s,
		content: s.content(),
		rng:     s.Rand,
		state:   state,
		now:     s.now(),
	}
}

func (t *turn) log(category LogCategory, format string, args ...any) {
	t.state.AppendLog(newLogEntry(t.state.Day, t.now, fmt.Sprintf(format, args...), category))
}

func (t *turn) emit(eventType string, payload map[string]any) {
	t.events = append(t.events, DomainEvent{
		Type:       eventType,
		Day:        t.state.Day,
		OccurredAt: t.now,
		Payload:    payload,
	})
}

// warnOnce fires a warning unless the same flag already fired today.
func (t *turn) warnOnce(flag *int, title, message string) {
	if t.state.Day <= *flag {
		return
	}
	*flag = t.state.Day
	t.emit(EventWarning, map[string]any{"title": title, "message": message})
}

func (t *turn) reject(reason error, category LogCategory, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	t.log(category, "%s", msg)
	return &RejectionError{Reason: reason, Message: msg}
}

func (t *turn) playing() error {
	if t.state.Outcome != OutcomeNone {
		return ErrGameOver
	}
	return nil
}

// RecomputeInfluence refreshes which blocks the fort and scout posts reveal.
func (s Simulator) RecomputeInfluence(state *WorldState) {
	state.Map.RecomputeInfluence()
}

func (s Simulator) TradeOffers(state *WorldState) []TradeOffer {
	return TradeOffers(state)
}
