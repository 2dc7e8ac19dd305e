package city

import (
	"fmt"

	"resurgent/internal/domain/world"
)

// AdvanceDay resolves one full day. The steps run in a fixed order because each
// reads what the previous one wrote. When a random event needs a decision the
// day stops before closing and waits for ResolveChoice.
func (s Simulator) AdvanceDay(state *WorldState) (DayResult, error) {
	t := s.begin(state)
	if err := t.playing(); err != nil {
		return DayResult{}, err
	}
	if state.PendingChoice != nil {
		return DayResult{}, ErrChoicePending
	}

	t.releaseInstantTasks()
	t.resourceWarnings()
	t.tickTasks()
	t.resolveIllness()
	t.consumeFood()
	t.adjustMorale()
	t.produce()
	t.generateResearch()
	t.zombieAttack()
	t.marauderExpansion()

	if choice := t.randomEvent(); choice != nil {
		state.PendingChoice = choice
		t.emit(EventChoicePending, map[string]any{
			"event":   string(choice.Event),
			"title":   choice.Title,
			"prompt":  choice.Prompt,
			"options": choice.Options,
		})
		return DayResult{Status: DayPendingChoice, Day: state.Day, Choice: choice, Events: t.events}, nil
	}

	t.closeDay()
	return DayResult{Status: DayAdvanced, Day: state.Day, Events: t.events}, nil
}

// ResolveChoice applies the player's decision for the pending event and closes the day.
func (s Simulator) ResolveChoice(state *WorldState, option string) (DayResult, error) {
	t := s.begin(state)
	if err := t.playing(); err != nil {
		return DayResult{}, err
	}
	choice := state.PendingChoice
	if choice == nil {
		return DayResult{}, ErrNoPendingChoice
	}
	if !choice.HasOption(option) {
		return DayResult{}, fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}
	ev, ok := eventByKey(choice.Event)
	if !ok || ev.resolve == nil {
		return DayResult{}, fmt.Errorf("%w: no handler for event %q", ErrInvalidState, choice.Event)
	}

	ev.resolve(t, *choice, option)
	state.PendingChoice = nil
	t.emit(EventChoiceResolved, map[string]any{"event": string(choice.Event), "option": option})
	t.closeDay()
	return DayResult{Status: DayAdvanced, Day: state.Day, Events: t.events}, nil
}

// releaseInstantTasks frees survivors parked on zero-day tasks from the previous day.
func (t *turn) releaseInstantTasks() {
	for i := range t.state.Survivors {
		sv := &t.state.Survivors[i]
		if !sv.IsBusy || sv.DaysRemaining > 0 {
			continue
		}
		switch sv.CurrentTask {
		case TaskTrading, TaskEquipping, TaskConsulting:
			sv.Release()
		}
	}
}

func (t *turn) resourceWarnings() {
	if t.state.Food < LowFoodWarning {
		t.warnOnce(&t.state.Warnings.Food, "Low Food!",
			fmt.Sprintf("You are critically low on food (%d). Survivors will get hungry!", t.state.Food))
	}
	if t.state.Materials < LowMaterialsWarning {
		t.warnOnce(&t.state.Warnings.Materials, "Low Materials!",
			fmt.Sprintf("You are critically low on materials (%d). You can't build!", t.state.Materials))
	}
}

func (t *turn) tickTasks() {
	for _, id := range t.state.SurvivorIDs() {
		sv, ok := t.state.Survivor(id)
		if !ok || !sv.IsBusy || sv.DaysRemaining <= 0 {
			continue
		}
		sv.DaysRemaining--
		if sv.DaysRemaining == 0 {
			t.completeTask(sv)
			continue
		}
		where := ""
		if sv.AssignedBlock != nil {
			where = fmt.Sprintf(" at [%d,%d]", sv.AssignedBlock.X, sv.AssignedBlock.Y)
		}
		t.log(LogGeneric, "%s is still busy with %s%s. %d day(s) left.", sv.Name, sv.CurrentTask, where, sv.DaysRemaining)
	}
}

func (t *turn) resolveIllness() {
	healChance := HealBaseChance + t.medicineBonus()
	if t.state.HasAnyLab() {
		healChance += HealLabChance
	}
	for _, id := range t.state.SurvivorIDs() {
		sv, ok := t.state.Survivor(id)
		if !ok || !sv.IsSick {
			continue
		}
		if roll(t.rng, healChance) {
			sv.Heal(between(t.rng, 10, 20))
			if sv.Health >= SickHealthThreshold {
				sv.IsSick = false
				t.log(LogSuccess, "%s has recovered from their illness!", sv.Name)
			} else {
				t.log(LogEvent, "%s is still recovering from illness. Current health: %d%%.", sv.Name, sv.Health)
			}
			continue
		}
		sv.Health = max(0, sv.Health-between(t.rng, 5, 10))
		t.log(LogEvent, "%s is still sick. Their health is now %d%%.", sv.Name, sv.Health)
		if sv.Health <= 0 {
			name := sv.Name
			t.state.RemoveSurvivor(id)
			t.log(LogDanger, "%s succumbed to their illness!", name)
			t.warnOnce(&t.state.Warnings.SurvivorDeath, "Survivor Lost!", name+" succumbed to their illness!")
		}
	}
}

func (t *turn) consumeFood() {
	needed := len(t.state.Survivors)
	if t.state.Food >= needed {
		t.state.Food -= needed
		t.log(LogResource, "Consumed %d food for survivors.", needed)
		return
	}
	deficit := needed - t.state.Food
	t.state.Food = 0
	t.log(LogDanger, "Not enough food! %d food deficit. Survivors are hungry.", deficit)
	for i := range t.state.Survivors {
		sv := &t.state.Survivors[i]
		sv.Damage(deficit * HungerHealthPerDeficit)
		sv.AddMorale(-deficit * HungerMoralePerDeficit)
	}
}

func (t *turn) adjustMorale() {
	for _, id := range t.state.SurvivorIDs() {
		sv, ok := t.state.Survivor(id)
		if !ok {
			continue
		}
		change := 0
		if over := len(t.state.Survivors) - t.state.MaxSurvivors; over > 0 {
			change -= over
		}
		if shift, ok := t.content.traitEffect(*sv).(MoraleShift); ok {
			change += shift.Delta
		}
		if sv.Health < SickHealthThreshold {
			change -= SickMoralePenalty
		}
		sv.AddMorale(change)

		if sv.Morale < LowMoraleThreshold && roll(t.rng, LowMoraleLogChance) {
			t.log(LogEvent, "%s's low morale made them less effective today.", sv.Name)
		}
		if sv.Morale < DespairThreshold && roll(t.rng, DespairDepartureChance) {
			name := sv.Name
			t.state.RemoveSurvivor(id)
			t.log(LogDanger, "%s lost all hope and left the fort!", name)
			t.emit(EventWarning, map[string]any{"title": "Survivor Left!", "message": name + " lost all hope and left the fort!"})
		}
	}
}

func (t *turn) produce() {
	if t.state.FoodProduction > 0 {
		t.state.AddFood(t.state.FoodProduction)
		t.log(LogResource, "Farm produced %d food.", t.state.FoodProduction)
	}
	if t.state.MaterialProduction > 0 {
		t.state.AddMaterials(t.state.MaterialProduction)
		t.log(LogResource, "Workshops produced %d materials.", t.state.MaterialProduction)
	}
}

func (t *turn) generateResearch() {
	for i := range t.state.Survivors {
		sv := &t.state.Survivors[i]
		if sv.CurrentResearchBlock == nil {
			continue
		}
		lab, err := t.state.Map.At(*sv.CurrentResearchBlock)
		if err != nil || !lab.HasLab {
			sv.Release()
			t.log(LogEvent, "%s was unassigned from research as their Laboratory is no longer available.", sv.Name)
			continue
		}
		gained := 1 + t.content.EffectiveSkill(*sv, SkillBuilding)/2
		t.state.AddResearchPoints(gained)
		t.log(LogResearch, "%s generated %d Research Points at the lab.", sv.Name, gained)
	}
}

func (t *turn) zombieAttack() {
	if len(t.state.Map.ThreatBlocks()) == 0 || t.state.FortDefense >= ZombieAttackDefenseLimit {
		return
	}
	if !roll(t.rng, ZombieAttackChance) {
		return
	}

	strength := between(t.rng, 1, ZombieAttackMaxStrength)
	defense := t.state.FortDefense + t.defenseBonus()
	switch {
	case strength <= defense:
		t.log(LogSuccess, "Zombie attack repelled! Fort defenses held strong.")
	default:
		available := t.state.AvailableSurvivors()
		if len(available) == 0 {
			t.state.AddFortDefense(-BreachDefenseLoss)
			t.log(LogDanger, "Zombie attack! Fort defenses breached, but no available survivors to defend. Fort defense took a hit!")
			t.warnOnce(&t.state.Warnings.ZombieAttack, "Fort Attacked!", "Your fort was attacked by zombies! Defenses are weakening.")
			break
		}
		victim := available[pickIndex(t.rng, len(available))]
		victim.Damage(between(t.rng, 10, 29))
		if victim.Health <= 0 {
			name := victim.Name
			t.state.RemoveSurvivor(victim.ID)
			t.log(LogDanger, "Zombie attack! Fort defenses breached, %s was killed!", name)
			t.warnOnce(&t.state.Warnings.SurvivorDeath, "Survivor Lost!", name+" succumbed to the zombie attack!")
			break
		}
		t.log(LogDanger, "Zombie attack! Fort defenses breached, %s was injured! Health: %d%%.", victim.Name, victim.Health)
		t.warnOnce(&t.state.Warnings.SurvivorInjury, "Survivor Injured!",
			fmt.Sprintf("%s was injured in a zombie attack! Health: %d%%.", victim.Name, victim.Health))
	}
	t.state.AddFortDefense(-1)
}

func (t *turn) marauderExpansion() {
	marauders := t.state.Faction(FactionMarauders)
	if marauders == nil || marauders.Reputation >= ExpansionReputationLimit || !roll(t.rng, ExpansionChance) {
		return
	}
	var held []*world.Block
	t.state.Map.Each(func(b *world.Block) {
		if b.FactionControlledBy == FactionMarauders {
			held = append(held, b)
		}
	})
	if len(held) == 0 {
		return
	}
	from := held[pickIndex(t.rng, len(held))]
	var targets []*world.Block
	for _, n := range t.state.Map.Neighbors(from.Pos()) {
		if n.Type == world.BlockRuined && n.FactionControlledBy == "" && !n.IsExplored {
			targets = append(targets, n)
		}
	}
	if len(targets) == 0 {
		return
	}
	target := targets[pickIndex(t.rng, len(targets))]
	target.FactionControlledBy = FactionMarauders
	target.Zombies = between(t.rng, 1, 3)
	marauders.Claim(target.Pos())
	t.log(LogDanger, "The Marauders expanded their territory to [%d,%d]!", target.X, target.Y)
}

// closeDay is the final step shared by AdvanceDay and ResolveChoice.
func (t *turn) closeDay() {
	t.state.Day++
	t.log(LogGeneric, "Day %d begins.", t.state.Day)
	t.emit(EventDayAdvanced, map[string]any{"day": t.state.Day})
	t.checkOutcome()
	t.checkAchievements()
	t.state.Warnings = WarningFlags{}
}
