package city

import (
	"resurgent/internal/domain/world"
)

type actionCost struct {
	Food      int
	Materials int
}

var actionCosts = map[ActionType]actionCost{
	ActionExpedition:      {Food: ExpeditionFoodCost, Materials: ExpeditionMaterials},
	ActionBuildRepair:     {Materials: RepairMaterialCost},
	ActionBuildHousing:    {Materials: HousingMaterialCost},
	ActionBuildWorkshop:   {Materials: WorkshopMaterialCost},
	ActionBuildLab:        {Materials: LabMaterialCost},
	ActionBuildWatchtower: {Materials: WatchtowerCost},
	ActionBuildScoutPost:  {Materials: ScoutPostMaterialCost},
}

var actionSkills = map[ActionType]SkillKind{
	ActionExpedition:      SkillScavenging,
	ActionScavenge:        SkillScavenging,
	ActionClear:           SkillClearing,
	ActionBuildRepair:     SkillBuilding,
	ActionBuildHousing:    SkillBuilding,
	ActionBuildWorkshop:   SkillBuilding,
	ActionBuildLab:        SkillBuilding,
	ActionBuildWatchtower: SkillBuilding,
	ActionBuildScoutPost:  SkillBuilding,
	ActionAttackFaction:   SkillClearing,
}

func ActionCost(action ActionType) (food, materials int) {
	c := actionCosts[action]
	return c.Food, c.Materials
}

func IsKnownAction(action ActionType) bool {
	for _, a := range AllActions {
		if a == action {
			return true
		}
	}
	return false
}

// TaskDuration is max(1, 1 + floor(distance to fort / 2)) days.
func TaskDuration(block, fort world.Position) int {
	return max(MinTaskDuration, BaseTaskDuration+world.Chebyshev(block, fort)/2)
}

// AvailableActions lists the actions the block offers right now, ignoring cost.
func AvailableActions(state *WorldState, p world.Position) []ActionType {
	b, err := state.Map.At(p)
	if err != nil {
		return nil
	}
	out := make([]ActionType, 0, 8)
	if b.Type == world.BlockRuined && !b.IsExplored && state.Map.AdjacentToExplored(p) {
		out = append(out, ActionExpedition)
	}
	if !b.IsExplored || !state.Map.InInfluenceZone(p) {
		return out
	}
	switch b.Type {
	case world.BlockRuined:
		if b.FactionControlledBy == "" {
			out = append(out, ActionScavenge)
		}
		if b.Zombies > 0 {
			out = append(out, ActionClear)
		}
		switch b.FactionControlledBy {
		case FactionNomads:
			out = append(out, ActionTrade)
		case FactionMarauders:
			out = append(out, ActionAttackFaction)
		}
	case world.BlockFort:
		out = append(out, ActionBuildRepair)
	case world.BlockCleared:
		if !b.HasBuilding() && b.FactionControlledBy == "" {
			out = append(out,
				ActionBuildHousing,
				ActionBuildWorkshop,
				ActionBuildLab,
				ActionBuildWatchtower,
				ActionBuildScoutPost,
			)
		}
		if b.HasLab {
			out = append(out, ActionAssignToResearch)
		}
	}
	return out
}

func actionOffered(state *WorldState, p world.Position, action ActionType) bool {
	for _, a := range AvailableActions(state, p) {
		if a == action {
			return true
		}
	}
	return false
}

// PerformAction validates req and, on success, commits the survivor to the task.
// A rejection returns *RejectionError and leaves only a log entry behind.
func (s Simulator) PerformAction(state *WorldState, req ActionRequest) (ActionResult, error) {
	t := s.begin(state)
	if err := t.playing(); err != nil {
		return ActionResult{}, err
	}
	if !IsKnownAction(req.Action) {
		return ActionResult{}, t.reject(ErrUnknownAction, LogGeneric, "Unknown action %q.", req.Action)
	}
	sv, ok := state.Survivor(req.SurvivorID)
	if !ok {
		return ActionResult{}, t.reject(ErrSurvivorNotFound, LogGeneric, "No such survivor.")
	}
	if !sv.Available() {
		return ActionResult{}, t.reject(ErrSurvivorUnavailable, LogGeneric, "%s is busy or sick and cannot perform this action.", sv.Name)
	}
	block, err := state.Map.At(req.Block)
	if err != nil {
		return ActionResult{}, t.reject(ErrInvalidTarget, LogGeneric, "Block [%d,%d] is outside the city.", req.Block.X, req.Block.Y)
	}

	switch req.Action {
	case ActionTrade:
		if err := t.startTrade(sv, block); err != nil {
			return ActionResult{}, err
		}
	case ActionAssignToResearch:
		if err := t.startResearch(sv, block); err != nil {
			return ActionResult{}, err
		}
	default:
		if err := t.startTask(sv, block, req.Action); err != nil {
			return ActionResult{}, err
		}
	}
	return ActionResult{
		Survivor:      *sv,
		Task:          sv.CurrentTask,
		DaysRemaining: sv.DaysRemaining,
		Events:        t.events,
	}, nil
}

func (t *turn) startTrade(sv *Survivor, b *world.Block) error {
	if b.Type != world.BlockRuined || !b.IsExplored || b.FactionControlledBy != FactionNomads || !t.state.Map.InInfluenceZone(b.Pos()) {
		return t.reject(ErrInvalidTarget, LogGeneric, "Cannot trade here. Requires an explored Nomad-controlled block within your influence zone.")
	}
	pos := b.Pos()
	sv.assign(TaskTrading, &pos, 0)
	t.log(LogAction, "%s is meeting The Nomads at [%d,%d] to trade.", sv.Name, b.X, b.Y)
	return nil
}

func (t *turn) startResearch(sv *Survivor, b *world.Block) error {
	if b.Type != world.BlockCleared || !b.IsExplored || !b.HasLab {
		return t.reject(ErrInvalidTarget, LogGeneric, "Cannot assign to research. Requires an explored Laboratory block.")
	}
	if other, taken := t.state.Researcher(b.Pos()); taken {
		return t.reject(ErrLabOccupied, LogGeneric, "Another survivor, %s, is already assigned to this Laboratory.", other.Name)
	}
	pos := b.Pos()
	lab := pos
	sv.assign(TaskResearch, &pos, 0)
	sv.CurrentResearchBlock = &lab
	t.log(LogAction, "%s is now working at the Laboratory at [%d,%d] to generate Research Points.", sv.Name, b.X, b.Y)
	return nil
}

func (t *turn) startTask(sv *Survivor, b *world.Block, action ActionType) error {
	if !actionOffered(t.state, b.Pos(), action) {
		return t.reject(ErrInvalidTarget, LogGeneric, "Cannot %s at [%d,%d].", action, b.X, b.Y)
	}
	cost := actionCosts[action]
	if t.state.Food < cost.Food || t.state.Materials < cost.Materials {
		return t.reject(ErrInsufficientResources, LogGeneric, "%s requires %d food and %d materials.", action, cost.Food, cost.Materials)
	}
	if fail, ok := t.content.traitEffect(*sv).(StartFailure); ok && roll(t.rng, fail.Chance) {
		return t.reject(ErrStartFailed, LogEvent, "%s was clumsy and failed to start the task!", sv.Name)
	}

	t.state.AddFood(-cost.Food)
	t.state.AddMaterials(-cost.Materials)
	days := TaskDuration(b.Pos(), world.Center(t.state.Map.Size()))
	pos := b.Pos()
	sv.assign(TaskType(action), &pos, days)
	t.log(LogAction, "%s assigned to %s at [%d,%d]. Will take %d day(s).", sv.Name, action, b.X, b.Y, days)
	return nil
}
