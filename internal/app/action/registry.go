package action

import (
	"strings"

	"resurgent/internal/app/shared/keymatch"
	"resurgent/internal/domain/city"
	"resurgent/internal/domain/world"
)

// outcome is what a command handler reports back to the use case.
type outcome struct {
	message string
	action  *city.ActionResult
	events  []city.DomainEvent
}

type commandSpec struct {
	Type     CommandType
	Validate func(req Request) bool
	Apply    func(sim city.Simulator, state *city.WorldState, req Request) (outcome, error)
}

func commandRegistry() map[CommandType]commandSpec {
	return map[CommandType]commandSpec{
		CommandAssign:      {Type: CommandAssign, Validate: needsSurvivorAndAction, Apply: applyAssign},
		CommandRecruit:     {Type: CommandRecruit, Validate: always, Apply: applyRecruit},
		CommandResearch:    {Type: CommandResearch, Validate: needsKey, Apply: applyResearch},
		CommandAdvisor:     {Type: CommandAdvisor, Validate: always, Apply: applyAdvisor},
		CommandTrade:       {Type: CommandTrade, Validate: needsSurvivorAndKey, Apply: applyTrade},
		CommandCancelTrade: {Type: CommandCancelTrade, Validate: needsSurvivor, Apply: applyCancelTrade},
		CommandEquip:       {Type: CommandEquip, Validate: needsSurvivor, Apply: applyEquip},
		CommandUnequip:     {Type: CommandUnequip, Validate: needsSurvivor, Apply: applyUnequip},
	}
}

func always(Request) bool { return true }

func needsSurvivor(req Request) bool { return req.SurvivorID != "" }

func needsKey(req Request) bool { return req.Key != "" }

func needsSurvivorAndKey(req Request) bool { return needsSurvivor(req) && needsKey(req) }

func needsSurvivorAndAction(req Request) bool { return needsSurvivor(req) && req.Action != "" }

func applyAssign(sim city.Simulator, state *city.WorldState, req Request) (outcome, error) {
	res, err := sim.PerformAction(state, city.ActionRequest{
		Action:     city.ActionType(resolveAction(req.Action)),
		SurvivorID: req.SurvivorID,
		Block:      world.Pos(req.X, req.Y),
	})
	if err != nil {
		return outcome{}, err
	}
	return outcome{message: string(res.Task), action: &res, events: res.Events}, nil
}

func applyRecruit(sim city.Simulator, state *city.WorldState, _ Request) (outcome, error) {
	return fromCommand(sim.Recruit(state))
}

func applyResearch(sim city.Simulator, state *city.WorldState, req Request) (outcome, error) {
	keys := make([]string, 0, len(state.Research))
	for key := range state.Research {
		keys = append(keys, key)
	}
	key := req.Key
	if resolved, ok := keymatch.Resolve(req.Key, keys); ok {
		key = resolved
	}
	return fromCommand(sim.Research(state, key))
}

func applyAdvisor(sim city.Simulator, state *city.WorldState, _ Request) (outcome, error) {
	return fromCommand(sim.ConsultAdvisor(state))
}

func applyTrade(sim city.Simulator, state *city.WorldState, req Request) (outcome, error) {
	offers := sim.TradeOffers(state)
	keys := make([]string, 0, len(offers))
	for _, o := range offers {
		keys = append(keys, string(o.Key))
	}
	key := req.Key
	if resolved, ok := keymatch.Resolve(req.Key, keys); ok {
		key = resolved
	}
	return fromCommand(sim.Trade(state, req.SurvivorID, city.TradeOfferKey(key)))
}

func applyCancelTrade(sim city.Simulator, state *city.WorldState, req Request) (outcome, error) {
	return fromCommand(sim.CancelTrade(state, req.SurvivorID))
}

func applyEquip(sim city.Simulator, state *city.WorldState, req Request) (outcome, error) {
	return fromCommand(sim.Equip(state, req.SurvivorID, req.ItemIndex))
}

func applyUnequip(sim city.Simulator, state *city.WorldState, req Request) (outcome, error) {
	return fromCommand(sim.Unequip(state, req.SurvivorID))
}

func fromCommand(res city.CommandResult, err error) (outcome, error) {
	if err != nil {
		return outcome{}, err
	}
	return outcome{message: res.Message, events: res.Events}, nil
}

// resolveAction maps loose input onto a known action name. Unknown input is
// passed through so the simulator rejects and logs it.
func resolveAction(raw string) string {
	names := make([]string, 0, len(city.AllActions))
	for _, a := range city.AllActions {
		names = append(names, string(a))
	}
	if resolved, ok := keymatch.Resolve(raw, names); ok {
		return resolved
	}
	return strings.TrimSpace(raw)
}

func isSupportedCommand(t CommandType) bool {
	_, ok := commandRegistry()[t]
	return ok
}
