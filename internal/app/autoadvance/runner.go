// Package autoadvance advances games on a timer until something needs the player.
package autoadvance

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"resurgent/internal/app/day"
	"resurgent/internal/domain/city"
)

const (
	MinInterval     = 10 * time.Millisecond
	DefaultInterval = time.Second
)

var ErrInvalidRequest = errors.New("invalid auto-advance request")

type Advancer interface {
	Advance(ctx context.Context, req day.AdvanceRequest) (day.Response, error)
}

type StopReason string

const (
	StopManual   StopReason = "manual"
	StopOutcome  StopReason = "outcome"
	StopChoice   StopReason = "pending_choice"
	StopError    StopReason = "error"
	StopShutdown StopReason = "shutdown"
)

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
	reason StopReason
}

// Runner owns one ticking goroutine per game. Ticks never overlap because
// each one runs the advance synchronously on that goroutine.
type Runner struct {
	advancer Advancer
	logger   *slog.Logger

	mu     sync.Mutex
	base   context.Context
	close  context.CancelFunc
	jobs   map[string]*job
	last   map[string]StopReason
	closed bool
}

func NewRunner(parent context.Context, advancer Advancer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	base, cancel := context.WithCancel(parent)
	return &Runner{
		advancer: advancer,
		logger:   logger,
		base:     base,
		close:    cancel,
		jobs:     map[string]*job{},
		last:     map[string]StopReason{},
	}
}

// Start begins advancing gameID every interval. It reports false when the
// game is already running.
func (r *Runner) Start(gameID string, interval time.Duration) (bool, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" || r.advancer == nil {
		return false, ErrInvalidRequest
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	interval = max(interval, MinInterval)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, ErrInvalidRequest
	}
	if _, running := r.jobs[gameID]; running {
		return false, nil
	}
	ctx, cancel := context.WithCancel(r.base)
	j := &job{cancel: cancel, done: make(chan struct{})}
	r.jobs[gameID] = j
	delete(r.last, gameID)
	go r.loop(ctx, gameID, interval, j)
	r.logger.Info("auto-advance started", "game_id", gameID, "interval", interval.String())
	return true, nil
}

// Stop cancels the game's loop and waits for it to exit.
func (r *Runner) Stop(gameID string) bool {
	r.mu.Lock()
	j, ok := r.jobs[strings.TrimSpace(gameID)]
	if ok && j.reason == "" {
		j.reason = StopManual
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	j.cancel()
	<-j.done
	return true
}

func (r *Runner) Running(gameID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobs[gameID]
	return ok
}

// LastStop reports why the most recent loop for gameID ended.
func (r *Runner) LastStop(gameID string) (StopReason, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reason, ok := r.last[gameID]
	return reason, ok
}

// Close stops every loop and refuses new ones.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	jobs := make([]*job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if j.reason == "" {
			j.reason = StopShutdown
		}
		jobs = append(jobs, j)
	}
	r.mu.Unlock()
	r.close()
	for _, j := range jobs {
		<-j.done
	}
}

func (r *Runner) loop(ctx context.Context, gameID string, interval time.Duration, j *job) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer r.finish(gameID, j)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reason, stop := r.tick(ctx, gameID)
			if stop {
				r.mu.Lock()
				j.reason = reason
				r.mu.Unlock()
				return
			}
		}
	}
}

func (r *Runner) tick(ctx context.Context, gameID string) (StopReason, bool) {
	resp, err := r.advancer.Advance(ctx, day.AdvanceRequest{GameID: gameID})
	if err != nil {
		if ctx.Err() != nil {
			return StopManual, true
		}
		if errors.Is(err, city.ErrGameOver) {
			return StopOutcome, true
		}
		if errors.Is(err, city.ErrChoicePending) {
			return StopChoice, true
		}
		r.logger.Error("auto-advance failed", "game_id", gameID, "err", err)
		return StopError, true
	}
	r.logger.Info("day advanced", "game_id", gameID, "day", resp.State.Day)
	switch {
	case resp.State.Outcome != city.OutcomeNone:
		return StopOutcome, true
	case resp.Result.Status == city.DayPendingChoice:
		return StopChoice, true
	}
	return "", false
}

func (r *Runner) finish(gameID string, j *job) {
	r.mu.Lock()
	if r.jobs[gameID] == j {
		delete(r.jobs, gameID)
	}
	reason := j.reason
	if reason == "" {
		reason = StopShutdown
	}
	r.last[gameID] = reason
	r.mu.Unlock()
	close(j.done)
	r.logger.Info("auto-advance stopped", "game_id", gameID, "reason", string(reason))
}
