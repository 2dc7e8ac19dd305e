package httpadapter

import (
	"errors"

	staticguides "resurgent/internal/adapter/guides/static"
	"resurgent/internal/app/action"
	"resurgent/internal/app/auth"
	"resurgent/internal/app/autoadvance"
	"resurgent/internal/app/catalog"
	"resurgent/internal/app/day"
	"resurgent/internal/app/observe"
	"resurgent/internal/app/ports"
	"resurgent/internal/app/replay"
	"resurgent/internal/app/snapshot"
	"resurgent/internal/app/status"
	"resurgent/internal/domain/city"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// rejectionCodes names the reason behind a refused command.
var rejectionCodes = []struct {
	err  error
	code string
}{
	{city.ErrSurvivorNotFound, "survivor_not_found"},
	{city.ErrSurvivorUnavailable, "survivor_unavailable"},
	{city.ErrInsufficientResources, "insufficient_resources"},
	{city.ErrInvalidTarget, "invalid_target"},
	{city.ErrUnknownAction, "unknown_action"},
	{city.ErrStartFailed, "start_failed"},
	{city.ErrLabOccupied, "lab_occupied"},
	{city.ErrAtCapacity, "at_capacity"},
	{city.ErrUnknownProject, "unknown_project"},
	{city.ErrAlreadyResearched, "already_researched"},
	{city.ErrAdvisorUsed, "advisor_used"},
	{city.ErrNoConsultant, "no_consultant"},
	{city.ErrNotTrading, "not_trading"},
	{city.ErrUnknownOffer, "unknown_offer"},
	{city.ErrInvalidItem, "invalid_item"},
	{city.ErrNothingEquipped, "nothing_equipped"},
}

func rejectionCode(err error) string {
	for _, rc := range rejectionCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return "rejected"
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingGameCredentials):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_game_credentials", err.Error())
	case errors.Is(err, ErrMissingGameIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_game_id", err.Error())
	case errors.Is(err, ErrMissingGameKeyHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_game_key", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_game_credentials", err.Error())
	case city.IsRejection(err):
		writeErrorBody(ctx, consts.StatusConflict, rejectionCode(err), err.Error())
	case errors.Is(err, city.ErrGameOver):
		writeErrorBody(ctx, consts.StatusConflict, "game_over", err.Error())
	case errors.Is(err, city.ErrChoicePending):
		writeErrorBody(ctx, consts.StatusConflict, "choice_pending", err.Error())
	case errors.Is(err, city.ErrNoPendingChoice):
		writeErrorBody(ctx, consts.StatusConflict, "no_pending_choice", err.Error())
	case errors.Is(err, city.ErrUnknownOption):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_option", err.Error())
	case errors.Is(err, action.ErrInvalidCommandParams):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_command_params", err.Error())
	case errors.Is(err, snapshot.ErrInvalidSnapshot):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_snapshot", err.Error())
	case errors.Is(err, staticguides.ErrInvalidGuidePath):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_filepath", err.Error())
	case errors.Is(err, catalog.ErrNoGuides):
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", err.Error())
	case errors.Is(err, action.ErrInvalidRequest),
		errors.Is(err, auth.ErrInvalidRequest),
		errors.Is(err, autoadvance.ErrInvalidRequest),
		errors.Is(err, day.ErrInvalidRequest),
		errors.Is(err, observe.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, snapshot.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// writeCommandRejected reports a refused command together with the saved
// state, whose log now carries the refusal.
func writeCommandRejected(ctx *app.RequestContext, resp action.Response, err error) {
	ctx.JSON(consts.StatusConflict, map[string]any{
		"result_code": action.ResultRejected,
		"message":     resp.Message,
		"state":       resp.State,
		"error": map[string]any{
			"code":    rejectionCode(err),
			"message": err.Error(),
		},
	})
}
