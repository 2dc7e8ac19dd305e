package httpadapter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"resurgent/internal/app/action"
	"resurgent/internal/app/auth"
	"resurgent/internal/app/catalog"
	"resurgent/internal/domain/city"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

func TestRequireAuthenticatedGame_FromHeaders(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, _ := s.createGame(t)

	got, err := s.h.requireAuthenticatedGame(context.Background(), authedContext(gameID, gameKey, ""))
	if err != nil {
		t.Fatalf("requireAuthenticatedGame error: %v", err)
	}
	if got != gameID {
		t.Fatalf("unexpected game id: %q", got)
	}
}

func TestRequireAuthenticatedGame_MissingHeaders(t *testing.T) {
	h := Handler{}

	if _, err := h.requireAuthenticatedGame(context.Background(), &app.RequestContext{}); err != ErrMissingGameCredentials {
		t.Fatalf("expected ErrMissingGameCredentials, got %v", err)
	}
	ctx := &app.RequestContext{}
	ctx.Request.Header.Set(gameIDHeader, "game-1")
	if _, err := h.requireAuthenticatedGame(context.Background(), ctx); err != ErrMissingGameKeyHeader {
		t.Fatalf("expected ErrMissingGameKeyHeader, got %v", err)
	}
	ctx = &app.RequestContext{}
	ctx.Request.Header.Set(gameKeyHeader, "k")
	if _, err := h.requireAuthenticatedGame(context.Background(), ctx); err != ErrMissingGameIDHeader {
		t.Fatalf("expected ErrMissingGameIDHeader, got %v", err)
	}
}

func TestStatus_RejectsWrongKey(t *testing.T) {
	s := newTestServer(t)
	gameID, _, _ := s.createGame(t)
	ctx := authedContext(gameID, "wrong", "")

	s.h.status(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusUnauthorized; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(decodeBody(t, ctx)), "invalid_game_credentials"; got != want {
		t.Fatalf("error code mismatch: got=%v want=%v", got, want)
	}
}

func TestCreateGameAndStatus(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, state := s.createGame(t)
	if !strings.HasPrefix(gameID, "game_") || gameKey == "" {
		t.Fatalf("unexpected credentials: id=%q key=%q", gameID, gameKey)
	}
	if len(state.Survivors) != city.StartingSurvivors {
		t.Fatalf("survivors got=%d want=%d", len(state.Survivors), city.StartingSurvivors)
	}

	ctx := authedContext(gameID, gameKey, "")
	s.h.status(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeBody(t, ctx)
	st, _ := body["state"].(map[string]any)
	if got, want := st["day"], float64(1); got != want {
		t.Fatalf("day mismatch: got=%v want=%v", got, want)
	}
	if zone, _ := body["influence_zone"].([]any); len(zone) != 9 {
		t.Fatalf("influence zone got=%d cells want=9", len(zone))
	}
}

func TestAction_AssignsSurvivor(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, state := s.createGame(t)
	survivorID := state.Survivors[0].ID

	ctx := authedContext(gameID, gameKey, `{"action":"Build Repair","survivor_id":"`+survivorID+`","x":3,"y":3}`)
	s.h.action(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	body := decodeBody(t, ctx)
	if got, want := body["result_code"], "OK"; got != want {
		t.Fatalf("result_code mismatch: got=%v want=%v", got, want)
	}
	st, _ := body["state"].(map[string]any)
	if got, want := st["materials"], float64(city.StartingMaterials-city.RepairMaterialCost); got != want {
		t.Fatalf("materials mismatch: got=%v want=%v", got, want)
	}
	if snap := s.metrics.Snapshot(); snap.ByCommand[string(action.CommandAssign)].Success != 1 {
		t.Fatalf("expected assign success recorded, got %+v", snap.ByCommand)
	}
}

func TestRecruit_RejectedAtCapacity(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, _ := s.createGame(t)
	ctx := authedContext(gameID, gameKey, "")

	s.h.recruit(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeBody(t, ctx)
	if got, want := body["result_code"], "REJECTED"; got != want {
		t.Fatalf("result_code mismatch: got=%v want=%v", got, want)
	}
	if got, want := errorCode(body), "at_capacity"; got != want {
		t.Fatalf("error code mismatch: got=%v want=%v", got, want)
	}
	if _, ok := body["state"].(map[string]any); !ok {
		t.Fatalf("expected the saved state alongside a rejection")
	}
}

func TestAction_InvalidJSON(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, _ := s.createGame(t)
	ctx := authedContext(gameID, gameKey, `{"action":`)

	s.h.action(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(decodeBody(t, ctx)), "invalid_json"; got != want {
		t.Fatalf("error code mismatch: got=%v want=%v", got, want)
	}
}

func TestAdvanceDayAndLog(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, _ := s.createGame(t)

	ctx := authedContext(gameID, gameKey, "")
	s.h.advanceDay(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	body := decodeBody(t, ctx)
	st, _ := body["state"].(map[string]any)
	if got, want := st["day"], float64(2); got != want {
		t.Fatalf("day mismatch: got=%v want=%v", got, want)
	}

	ctx = authedContext(gameID, gameKey, "")
	ctx.Request.SetRequestURI("/api/game/log?limit=1")
	s.h.log(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("log status mismatch: got=%d want=%d", got, want)
	}
	if entries, _ := decodeBody(t, ctx)["entries"].([]any); len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}

	ctx = authedContext(gameID, gameKey, "")
	ctx.Request.SetRequestURI("/api/game/events?type=day_advanced")
	s.h.events(context.Background(), ctx)
	events, _ := decodeBody(t, ctx)["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("expected one day_advanced event, got %d", len(events))
	}
}

func TestHistory_RejectsNonIntegerLimit(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, _ := s.createGame(t)

	for name, handle := range map[string]func(context.Context, *app.RequestContext){
		"log":    s.h.log,
		"events": s.h.events,
	} {
		ctx := authedContext(gameID, gameKey, "")
		ctx.Request.SetRequestURI("/api/game/" + name + "?limit=abc")
		handle(context.Background(), ctx)

		if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
			t.Fatalf("%s status mismatch: got=%d want=%d body=%s", name, got, want, ctx.Response.Body())
		}
		if got, want := errorCode(decodeBody(t, ctx)), "invalid_limit"; got != want {
			t.Fatalf("%s error code mismatch: got=%v want=%v", name, got, want)
		}
	}
}

func TestResolveChoice_WithoutPendingChoice(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, _ := s.createGame(t)
	ctx := authedContext(gameID, gameKey, `{"option":"pay"}`)

	s.h.resolveChoice(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	if got, want := errorCode(decodeBody(t, ctx)), "no_pending_choice"; got != want {
		t.Fatalf("error code mismatch: got=%v want=%v", got, want)
	}
}

func TestBlock_DetailAndBadParams(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, _ := s.createGame(t)

	ctx := authedContext(gameID, gameKey, "")
	ctx.Params = param.Params{{Key: "x", Value: "3"}, {Key: "y", Value: "3"}}
	s.h.block(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	actions, _ := decodeBody(t, ctx)["actions"].([]any)
	found := false
	for _, a := range actions {
		if m, _ := a.(map[string]any); m["action"] == string(city.ActionBuildRepair) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected build_repair offered at the fort, got %v", actions)
	}

	ctx = authedContext(gameID, gameKey, "")
	ctx.Params = param.Params{{Key: "x", Value: "three"}, {Key: "y", Value: "3"}}
	s.h.block(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	ctx = authedContext(gameID, gameKey, "")
	ctx.Params = param.Params{{Key: "x", Value: "9"}, {Key: "y", Value: "0"}}
	s.h.block(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("out of bounds status mismatch: got=%d want=%d", got, want)
	}
}

func TestTradeOffers(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, _ := s.createGame(t)
	ctx := authedContext(gameID, gameKey, "")

	s.h.tradeOffers(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if offers, _ := decodeBody(t, ctx)["offers"].([]any); len(offers) != 4 {
		t.Fatalf("expected four offers, got %d", len(offers))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, _ := s.createGame(t)

	ctx := authedContext(gameID, gameKey, "")
	s.h.export(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("export status mismatch: got=%d want=%d", got, want)
	}
	if got := string(ctx.Response.Header.ContentType()); got != snapshotContentType {
		t.Fatalf("content type got=%q want=%q", got, snapshotContentType)
	}
	if got := string(ctx.Response.Header.Peek("Content-Disposition")); !strings.Contains(got, gameID) {
		t.Fatalf("expected game id in disposition, got %q", got)
	}
	data := append([]byte(nil), ctx.Response.Body()...)

	imp := &app.RequestContext{}
	imp.Request.SetBody(data)
	s.h.importGame(context.Background(), imp)
	if got, want := imp.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("import status mismatch: got=%d want=%d body=%s", got, want, imp.Response.Body())
	}
	body := decodeBody(t, imp)
	if body["game_id"] == gameID || body["game_key"] == "" {
		t.Fatalf("expected fresh credentials, got %v", body["game_id"])
	}

	bad := &app.RequestContext{}
	bad.Request.SetBody([]byte(`{"version":1}`))
	s.h.importGame(context.Background(), bad)
	if got, want := bad.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("bad import status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(decodeBody(t, bad)), "invalid_snapshot"; got != want {
		t.Fatalf("error code mismatch: got=%v want=%v", got, want)
	}
}

func TestAutoStartStop(t *testing.T) {
	s := newTestServer(t)
	gameID, gameKey, _ := s.createGame(t)

	ctx := authedContext(gameID, gameKey, "")
	s.h.autoStart(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if s.auto.interval != 250*time.Millisecond {
		t.Fatalf("expected default interval, got %v", s.auto.interval)
	}

	ctx = authedContext(gameID, gameKey, `{"interval_ms":40}`)
	s.h.autoStart(context.Background(), ctx)
	if got := decodeBody(t, ctx)["changed"]; got != false {
		t.Fatalf("expected second start to be a no-op, got changed=%v", got)
	}

	ctx = authedContext(gameID, gameKey, "")
	s.h.status(context.Background(), ctx)
	if got := decodeBody(t, ctx)["auto_advance_active"]; got != true {
		t.Fatalf("expected status to report auto-advance, got %v", got)
	}

	ctx = authedContext(gameID, gameKey, "")
	s.h.autoStop(context.Background(), ctx)
	body := decodeBody(t, ctx)
	if body["running"] != false || body["changed"] != true || body["last_stop"] != "manual" {
		t.Fatalf("unexpected stop response: %v", body)
	}

	ctx = authedContext(gameID, gameKey, `{"interval_ms":-5}`)
	s.h.autoStart(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("negative interval status mismatch: got=%d want=%d", got, want)
	}
}

func TestContentIndexAndGuides(t *testing.T) {
	s := newTestServer(t)

	ctx := &app.RequestContext{}
	s.h.contentIndex(context.Background(), ctx)
	body := decodeBody(t, ctx)
	if got, want := body["map_size"], float64(7); got != want {
		t.Fatalf("map size mismatch: got=%v want=%v", got, want)
	}

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "filepath", Value: "/actions.md"}}
	s.h.guide(context.Background(), ctx)
	if got, want := string(ctx.Response.Body()), "# Actions"; got != want {
		t.Fatalf("body mismatch: got=%q want=%q", got, want)
	}

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "filepath", Value: "/"}}
	s.h.guide(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "filepath", Value: "/missing.md"}}
	s.h.guide(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	noGuides := Handler{CatalogUC: catalog.UseCase{}}
	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "filepath", Value: "/actions.md"}}
	noGuides.guide(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestKPI(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	s := newTestServer(t)
	s.metrics.RecordSuccess("recruit")
	ctx = &app.RequestContext{}
	s.h.kpi(context.Background(), ctx)
	if got, want := decodeBody(t, ctx)["command_total"], float64(1); got != want {
		t.Fatalf("command_total mismatch: got=%v want=%v", got, want)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{auth.ErrInvalidCredentials, consts.StatusUnauthorized, "invalid_game_credentials"},
		{&city.RejectionError{Reason: city.ErrLabOccupied}, consts.StatusConflict, "lab_occupied"},
		{city.ErrChoicePending, consts.StatusConflict, "choice_pending"},
		{city.ErrGameOver, consts.StatusConflict, "game_over"},
		{city.ErrUnknownOption, consts.StatusBadRequest, "unknown_option"},
		{action.ErrInvalidCommandParams, consts.StatusBadRequest, "invalid_command_params"},
		{action.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		{errors.New("boom"), consts.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		if got := ctx.Response.StatusCode(); got != tc.status {
			t.Fatalf("%v: status got=%d want=%d", tc.err, got, tc.status)
		}
		if got := errorCode(decodeBody(t, ctx)); got != tc.code {
			t.Fatalf("%v: code got=%v want=%s", tc.err, got, tc.code)
		}
	}
}
