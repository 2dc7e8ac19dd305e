package httpadapter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"resurgent/internal/adapter/metrics/inmemory"
	"resurgent/internal/adapter/repo/memory"
	"resurgent/internal/adapter/snapshotfile"
	"resurgent/internal/app/action"
	"resurgent/internal/app/auth"
	"resurgent/internal/app/autoadvance"
	"resurgent/internal/app/catalog"
	"resurgent/internal/app/day"
	"resurgent/internal/app/observe"
	"resurgent/internal/app/ports"
	"resurgent/internal/app/replay"
	"resurgent/internal/app/shared/gamerun"
	"resurgent/internal/app/snapshot"
	"resurgent/internal/app/status"
	"resurgent/internal/domain/city"

	"github.com/cloudwego/hertz/pkg/app"
)

type fixedRand struct{}

func (fixedRand) Float64() float64 { return 0.5 }
func (fixedRand) IntN(n int) int   { return n / 2 }

type fakeGuides struct {
	files map[string][]byte
}

func (g fakeGuides) File(_ context.Context, path string) ([]byte, error) {
	if b, ok := g.files[path]; ok {
		return b, nil
	}
	return nil, ports.ErrNotFound
}

type fakeAuto struct {
	running  map[string]bool
	interval time.Duration
}

func (a *fakeAuto) Start(gameID string, interval time.Duration) (bool, error) {
	if a.running[gameID] {
		return false, nil
	}
	a.running[gameID] = true
	a.interval = interval
	return true, nil
}

func (a *fakeAuto) Stop(gameID string) bool {
	was := a.running[gameID]
	delete(a.running, gameID)
	return was
}

func (a *fakeAuto) Running(gameID string) bool { return a.running[gameID] }

func (a *fakeAuto) LastStop(gameID string) (autoadvance.StopReason, bool) {
	if a.running[gameID] {
		return "", false
	}
	return autoadvance.StopManual, true
}

type testServer struct {
	h       Handler
	auto    *fakeAuto
	metrics *inmemory.Recorder
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	store := memory.NewStore()
	states := memory.NewGameStateRepo(store)
	events := memory.NewEventRepo(store)
	creds := memory.NewGameCredentialRepo(store)
	tx := memory.NewTxManager(store)
	metrics := inmemory.NewRecorder()
	now := func() time.Time { return time.Unix(1700000000, 0).UTC() }
	sim := city.Simulator{Rand: fixedRand{}, Content: city.DefaultContent(), Now: now}
	runner := gamerun.Runner{TxManager: tx, StateRepo: states, EventRepo: events, Metrics: metrics, Now: now}
	creator := auth.CreateGameUseCase{Credentials: creds, StateRepo: states, EventRepo: events, TxManager: tx, Sim: sim, Now: now}
	auto := &fakeAuto{running: map[string]bool{}}

	return testServer{
		h: Handler{
			CreateUC:     creator,
			AuthUC:       auth.VerifyUseCase{Credentials: creds},
			StatusUC:     status.UseCase{StateRepo: states, Auto: auto},
			ObserveUC:    observe.UseCase{StateRepo: states},
			ActionUC:     action.UseCase{Runner: runner, Sim: sim},
			DayUC:        day.UseCase{Runner: runner, Sim: sim},
			ReplayUC:     replay.UseCase{StateRepo: states, EventRepo: events},
			SnapshotUC:   snapshot.UseCase{StateRepo: states, Codec: snapshotfile.Codec{}, Creator: creator, Sim: sim},
			CatalogUC:    catalog.UseCase{Content: city.DefaultContent(), Guides: fakeGuides{files: map[string][]byte{"actions.md": []byte("# Actions")}}},
			Auto:         auto,
			AutoInterval: 250 * time.Millisecond,
			KPI:          metrics,
		},
		auto:    auto,
		metrics: metrics,
	}
}

// createGame runs the create endpoint and returns the new credentials.
func (s testServer) createGame(t *testing.T) (string, string, city.WorldState) {
	t.Helper()
	ctx := &app.RequestContext{}
	s.h.createGame(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != 201 {
		t.Fatalf("create status got=%d want=201 body=%s", got, ctx.Response.Body())
	}
	var resp auth.CreateGameResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("unmarshal create: %v", err)
	}
	return resp.GameID, resp.GameKey, resp.State
}

func authedContext(gameID, gameKey string, body string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Request.Header.Set(gameIDHeader, gameID)
	ctx.Request.Header.Set(gameKeyHeader, gameKey)
	if body != "" {
		ctx.Request.SetBody([]byte(body))
	}
	return ctx
}

func decodeBody(t *testing.T, ctx *app.RequestContext) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v (%s)", err, ctx.Response.Body())
	}
	return body
}

func errorCode(body map[string]any) any {
	errObj, _ := body["error"].(map[string]any)
	return errObj["code"]
}
