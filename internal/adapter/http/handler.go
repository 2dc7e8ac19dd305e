package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resurgent/internal/app/action"
	"resurgent/internal/app/auth"
	"resurgent/internal/app/autoadvance"
	"resurgent/internal/app/catalog"
	"resurgent/internal/app/day"
	"resurgent/internal/app/observe"
	"resurgent/internal/app/replay"
	"resurgent/internal/app/snapshot"
	"resurgent/internal/app/status"
	"resurgent/internal/domain/city"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const gameIDHeader = "X-Game-ID"
const gameKeyHeader = "X-Game-Key"

const snapshotContentType = "application/zstd"

// AutoAdvancer starts and stops the per-game day timer.
type AutoAdvancer interface {
	Start(gameID string, interval time.Duration) (bool, error)
	Stop(gameID string) bool
	Running(gameID string) bool
	LastStop(gameID string) (autoadvance.StopReason, bool)
}

type Handler struct {
	CreateUC   auth.CreateGameUseCase
	AuthUC     auth.VerifyUseCase
	StatusUC   status.UseCase
	ObserveUC  observe.UseCase
	ActionUC   action.UseCase
	DayUC      day.UseCase
	ReplayUC   replay.UseCase
	SnapshotUC snapshot.UseCase
	CatalogUC  catalog.UseCase
	Auto       AutoAdvancer
	// AutoInterval is used when a start request leaves interval_ms out.
	AutoInterval time.Duration
	KPI          kpiSnapshotProvider
	// CORSOrigins limits browser origins; empty allows any.
	CORSOrigins []string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.CORSOrigins))

	games := s.Group("/api/games")
	games.POST("", h.createGame)
	games.POST("/import", h.importGame)

	game := s.Group("/api/game")
	game.GET("/status", h.status)
	game.GET("/blocks/:x/:y", h.block)
	game.POST("/action", h.action)
	game.POST("/day", h.advanceDay)
	game.POST("/choice", h.resolveChoice)
	game.POST("/recruit", h.recruit)
	game.POST("/research", h.research)
	game.POST("/advisor", h.advisor)
	game.GET("/trade/offers", h.tradeOffers)
	game.POST("/trade", h.trade)
	game.POST("/trade/cancel", h.cancelTrade)
	game.POST("/equip", h.equip)
	game.POST("/unequip", h.unequip)
	game.POST("/auto/start", h.autoStart)
	game.POST("/auto/stop", h.autoStop)
	game.GET("/log", h.log)
	game.GET("/events", h.events)
	game.GET("/export", h.export)

	s.GET("/content/index.json", h.contentIndex)
	s.GET("/guides/*filepath", h.guide)
	s.GET("/ops/kpi", h.kpi)
}

type actionRequest struct {
	Action     string `json:"action"`
	SurvivorID string `json:"survivor_id"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
}

type choiceRequest struct {
	Option string `json:"option"`
}

type researchRequest struct {
	Key string `json:"key"`
}

type tradeRequest struct {
	SurvivorID string `json:"survivor_id"`
	Offer      string `json:"offer"`
}

type equipRequest struct {
	SurvivorID string `json:"survivor_id"`
	ItemIndex  int    `json:"item_index"`
}

type autoStartRequest struct {
	IntervalMS int `json:"interval_ms"`
}

type autoResponse struct {
	GameID   string `json:"game_id"`
	Running  bool   `json:"running"`
	Changed  bool   `json:"changed"`
	LastStop string `json:"last_stop,omitempty"`
}

type tradeOffersResponse struct {
	Offers []city.TradeOffer `json:"offers"`
}

func (h Handler) createGame(c context.Context, ctx *app.RequestContext) {
	resp, err := h.CreateUC.Execute(c, auth.CreateGameRequest{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) importGame(c context.Context, ctx *app.RequestContext) {
	body := ctx.Request.Body()
	if len(body) == 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "empty_snapshot", "snapshot body is empty")
		return
	}
	resp, err := h.SnapshotUC.Import(c, snapshot.ImportRequest{Data: body})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	gameID, err := h.requireAuthenticatedGame(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.StatusUC.Execute(c, status.Request{GameID: gameID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) block(c context.Context, ctx *app.RequestContext) {
	gameID, err := h.requireAuthenticatedGame(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	x, errX := strconv.Atoi(ctx.Param("x"))
	y, errY := strconv.Atoi(ctx.Param("y"))
	if errX != nil || errY != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_position", "block coordinates must be integers")
		return
	}
	resp, err := h.ObserveUC.Execute(c, observe.Request{GameID: gameID, X: x, Y: y})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	var body actionRequest
	gameID, ok := h.authenticatedBody(c, ctx, &body)
	if !ok {
		return
	}
	h.runCommand(c, ctx, action.Request{
		GameID:     gameID,
		Command:    action.CommandAssign,
		Action:     body.Action,
		SurvivorID: body.SurvivorID,
		X:          body.X,
		Y:          body.Y,
	})
}

func (h Handler) recruit(c context.Context, ctx *app.RequestContext) {
	h.simpleCommand(c, ctx, action.CommandRecruit)
}

func (h Handler) advisor(c context.Context, ctx *app.RequestContext) {
	h.simpleCommand(c, ctx, action.CommandAdvisor)
}

func (h Handler) research(c context.Context, ctx *app.RequestContext) {
	var body researchRequest
	gameID, ok := h.authenticatedBody(c, ctx, &body)
	if !ok {
		return
	}
	h.runCommand(c, ctx, action.Request{GameID: gameID, Command: action.CommandResearch, Key: body.Key})
}

func (h Handler) trade(c context.Context, ctx *app.RequestContext) {
	var body tradeRequest
	gameID, ok := h.authenticatedBody(c, ctx, &body)
	if !ok {
		return
	}
	h.runCommand(c, ctx, action.Request{GameID: gameID, Command: action.CommandTrade, SurvivorID: body.SurvivorID, Key: body.Offer})
}

func (h Handler) cancelTrade(c context.Context, ctx *app.RequestContext) {
	var body tradeRequest
	gameID, ok := h.authenticatedBody(c, ctx, &body)
	if !ok {
		return
	}
	h.runCommand(c, ctx, action.Request{GameID: gameID, Command: action.CommandCancelTrade, SurvivorID: body.SurvivorID})
}

func (h Handler) equip(c context.Context, ctx *app.RequestContext) {
	var body equipRequest
	gameID, ok := h.authenticatedBody(c, ctx, &body)
	if !ok {
		return
	}
	h.runCommand(c, ctx, action.Request{GameID: gameID, Command: action.CommandEquip, SurvivorID: body.SurvivorID, ItemIndex: body.ItemIndex})
}

func (h Handler) unequip(c context.Context, ctx *app.RequestContext) {
	var body equipRequest
	gameID, ok := h.authenticatedBody(c, ctx, &body)
	if !ok {
		return
	}
	h.runCommand(c, ctx, action.Request{GameID: gameID, Command: action.CommandUnequip, SurvivorID: body.SurvivorID})
}

func (h Handler) simpleCommand(c context.Context, ctx *app.RequestContext, command action.CommandType) {
	gameID, err := h.requireAuthenticatedGame(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	h.runCommand(c, ctx, action.Request{GameID: gameID, Command: command})
}

func (h Handler) runCommand(c context.Context, ctx *app.RequestContext, req action.Request) {
	resp, err := h.ActionUC.Execute(c, req)
	if err != nil {
		if resp.ResultCode == action.ResultRejected {
			writeCommandRejected(ctx, resp, err)
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) advanceDay(c context.Context, ctx *app.RequestContext) {
	gameID, err := h.requireAuthenticatedGame(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.DayUC.Advance(c, day.AdvanceRequest{GameID: gameID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) resolveChoice(c context.Context, ctx *app.RequestContext) {
	var body choiceRequest
	gameID, ok := h.authenticatedBody(c, ctx, &body)
	if !ok {
		return
	}
	resp, err := h.DayUC.ResolveChoice(c, day.ChoiceRequest{GameID: gameID, Option: body.Option})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) tradeOffers(c context.Context, ctx *app.RequestContext) {
	gameID, err := h.requireAuthenticatedGame(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.StatusUC.Execute(c, status.Request{GameID: gameID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, tradeOffersResponse{Offers: city.TradeOffers(&resp.State)})
}

func (h Handler) autoStart(c context.Context, ctx *app.RequestContext) {
	var body autoStartRequest
	gameID, ok := h.authenticatedBody(c, ctx, &body)
	if !ok {
		return
	}
	if h.Auto == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "auto-advance not configured")
		return
	}
	if body.IntervalMS < 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_interval", "interval_ms must not be negative")
		return
	}
	interval := h.AutoInterval
	if body.IntervalMS > 0 {
		interval = time.Duration(body.IntervalMS) * time.Millisecond
	}
	started, err := h.Auto.Start(gameID, interval)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, autoResponse{GameID: gameID, Running: true, Changed: started})
}

func (h Handler) autoStop(c context.Context, ctx *app.RequestContext) {
	gameID, err := h.requireAuthenticatedGame(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if h.Auto == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "auto-advance not configured")
		return
	}
	stopped := h.Auto.Stop(gameID)
	resp := autoResponse{GameID: gameID, Running: h.Auto.Running(gameID), Changed: stopped}
	if reason, ok := h.Auto.LastStop(gameID); ok {
		resp.LastStop = string(reason)
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) log(c context.Context, ctx *app.RequestContext) {
	gameID, err := h.requireAuthenticatedGame(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, ok := queryLimit(ctx)
	if !ok {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_limit", "limit must be an integer")
		return
	}
	resp, err := h.ReplayUC.Log(c, replay.LogRequest{
		GameID:   gameID,
		Category: string(ctx.Query("category")),
		Limit:    limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) events(c context.Context, ctx *app.RequestContext) {
	gameID, err := h.requireAuthenticatedGame(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, ok := queryLimit(ctx)
	if !ok {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_limit", "limit must be an integer")
		return
	}
	resp, err := h.ReplayUC.Events(c, replay.EventsRequest{
		GameID: gameID,
		Type:   string(ctx.Query("type")),
		Limit:  limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) export(c context.Context, ctx *app.RequestContext) {
	gameID, err := h.requireAuthenticatedGame(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.SnapshotUC.Export(c, snapshot.ExportRequest{GameID: gameID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-day%d.city"`, resp.GameID, resp.Day))
	ctx.Data(http.StatusOK, snapshotContentType, resp.Data)
}

func (h Handler) contentIndex(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.CatalogUC.Index(c))
}

func (h Handler) guide(c context.Context, ctx *app.RequestContext) {
	path := strings.TrimPrefix(ctx.Param("filepath"), "/")
	if path == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_filepath", "invalid filepath")
		return
	}

	b, err := h.CatalogUC.Guide(c, path)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "text/markdown; charset=utf-8", b)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

// queryLimit reads ?limit=; absent means zero, which the use cases default.
func queryLimit(ctx *app.RequestContext) (int, bool) {
	raw := strings.TrimSpace(string(ctx.Query("limit")))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}

// authenticatedBody checks credentials and decodes the JSON body. It writes
// the error response itself and reports whether the handler may continue.
func (h Handler) authenticatedBody(c context.Context, ctx *app.RequestContext, out any) (string, bool) {
	gameID, err := h.requireAuthenticatedGame(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return "", false
	}
	if err := decodeJSON(ctx, out); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return "", false
	}
	return gameID, true
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingGameIDHeader = errors.New("missing x-game-id header")
var ErrMissingGameKeyHeader = errors.New("missing x-game-key header")
var ErrMissingGameCredentials = errors.New("missing game credentials")

func (h Handler) requireAuthenticatedGame(c context.Context, ctx *app.RequestContext) (string, error) {
	gameID := strings.TrimSpace(string(ctx.GetHeader(gameIDHeader)))
	gameKey := strings.TrimSpace(string(ctx.GetHeader(gameKeyHeader)))
	if gameID == "" && gameKey == "" {
		return "", ErrMissingGameCredentials
	}
	if gameID == "" {
		return "", ErrMissingGameIDHeader
	}
	if gameKey == "" {
		return "", ErrMissingGameKeyHeader
	}
	if err := h.AuthUC.Execute(c, auth.VerifyRequest{
		GameID:  gameID,
		GameKey: gameKey,
	}); err != nil {
		return "", err
	}
	return gameID, nil
}
