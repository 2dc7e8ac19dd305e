package city

import (
	"fmt"

	"resurgent/internal/domain/world"
)

// completeTask applies the effect of a finished duration task and frees the survivor.
func (t *turn) completeTask(sv *Survivor) {
	task := ActionType(sv.CurrentTask)
	var block *world.Block
	if sv.AssignedBlock != nil {
		block, _ = t.state.Map.At(*sv.AssignedBlock)
	}
	if block == nil {
		t.log(LogEvent, "%s abandoned %s: the target block is gone.", sv.Name, task)
		sv.Release()
		return
	}

	var msg string
	var category LogCategory
	switch task {
	case ActionExpedition:
		msg, category = t.resolveExpedition(sv, block)
	case ActionScavenge:
		msg, category = t.resolveScavenge(sv, block)
	case ActionClear:
		msg, category = t.resolveClear(sv, block)
	case ActionBuildRepair:
		msg, category = t.resolveFortWork(sv)
	case ActionBuildHousing:
		t.state.MaxSurvivors += HousingCapacityBonus
		block.HasHousing = true
		msg, category = fmt.Sprintf("%s built Housing at [%d,%d]! Max survivors increased by %d.", sv.Name, block.X, block.Y, HousingCapacityBonus), LogAction
	case ActionBuildWorkshop:
		t.state.MaterialProduction += WorkshopProduction
		block.HasWorkshop = true
		msg, category = fmt.Sprintf("%s built a Workshop at [%d,%d]! +%d Materials Production daily.", sv.Name, block.X, block.Y, WorkshopProduction), LogAction
	case ActionBuildLab:
		block.HasLab = true
		msg, category = fmt.Sprintf("%s built a Laboratory at [%d,%d]! Assign a survivor to it to generate Research Points.", sv.Name, block.X, block.Y), LogAction
	case ActionBuildWatchtower:
		t.state.AddFortDefense(WatchtowerDefense)
		block.HasWatchtower = true
		msg, category = fmt.Sprintf("%s built a Watchtower at [%d,%d]! +%d Fort Defense.", sv.Name, block.X, block.Y, WatchtowerDefense), LogAction
	case ActionBuildScoutPost:
		block.HasScoutPost = true
		t.state.Map.RecomputeInfluence()
		msg, category = fmt.Sprintf("%s built a Scout Post at [%d,%d]! Your influence zone has expanded.", sv.Name, block.X, block.Y), LogAction
	case ActionAttackFaction:
		msg, category = t.resolveAttack(sv, block)
	default:
		msg, category = fmt.Sprintf("%s finished %s.", sv.Name, sv.CurrentTask), LogGeneric
	}

	if kind, ok := actionSkills[task]; ok {
		sv.addSkill(kind, t.content.SkillGain(*sv))
	}
	t.log(category, "%s", msg)
	sv.Release()
	t.checkAchievements()
}

func (t *turn) resolveExpedition(sv *Survivor, b *world.Block) (string, LogCategory) {
	chance := ExpeditionBaseChance + ExpeditionSkillChance*float64(t.content.EffectiveSkill(*sv, SkillScavenging))
	if !roll(t.rng, chance) {
		sv.Damage(ExpeditionFailureDamage)
		return fmt.Sprintf("%s's expedition to [%d,%d] failed! They encountered unexpected dangers.", sv.Name, b.X, b.Y), LogDanger
	}

	b.Explore()
	b.RevealedByExpedition = true
	msg := fmt.Sprintf("%s successfully explored block [%d,%d]! Its secrets are revealed.", sv.Name, b.X, b.Y)
	category := LogSuccess
	if roll(t.rng, ExpeditionLootChance) {
		food, materials := t.rng.IntN(3), t.rng.IntN(2)
		t.state.AddFood(food)
		t.state.AddMaterials(materials)
		msg += fmt.Sprintf(" Found %d food and %d materials!", food, materials)
		category = LogResource
	}
	if roll(t.rng, ExpeditionAmbushChance) && b.Type == world.BlockRuined {
		zombies := between(t.rng, 1, 3)
		b.Zombies += zombies
		msg += fmt.Sprintf(" Encountered %d new zombies!", zombies)
		category = LogDanger
	}
	t.state.Map.RecomputeInfluence()
	return msg, category
}

func (t *turn) resolveScavenge(sv *Survivor, b *world.Block) (string, LogCategory) {
	skill := t.content.EffectiveSkill(*sv, SkillScavenging) + t.toolingBonus(SkillScavenging)
	food := between(t.rng, ScavengeFoodMin, ScavengeFoodMax) + skill
	materials := between(t.rng, ScavengeMaterialsMin, ScavengeMaterialsMax) + skill
	t.state.AddFood(food)
	t.state.AddMaterials(materials)
	msg := fmt.Sprintf("%s scavenged %d food and %d materials from [%d,%d].", sv.Name, food, materials, b.X, b.Y)
	category := LogResource

	if roll(t.rng, EquipmentDropChance) && len(t.content.Equipment) > 0 {
		item := t.content.Equipment[pickIndex(t.rng, len(t.content.Equipment))]
		t.state.Inventory = append(t.state.Inventory, item.Kind)
		msg += fmt.Sprintf(" Found a %s!", item.Name)
		category = LogSuccess
	}
	return msg, category
}

func (t *turn) resolveClear(sv *Survivor, b *world.Block) (string, LogCategory) {
	removed := min(b.Zombies, between(t.rng, 1, 3)+t.content.EffectiveSkill(*sv, SkillClearing))
	b.Zombies -= removed
	if b.Zombies > 0 {
		return fmt.Sprintf("%s reduced zombies by %d in [%d,%d].", sv.Name, removed, b.X, b.Y), LogAction
	}
	t.clearBlock(b)
	return fmt.Sprintf("%s cleared block [%d,%d] of zombies!", sv.Name, b.X, b.Y), LogSuccess
}

// resolveFortWork builds the fort farm once, then repairs defenses.
func (t *turn) resolveFortWork(sv *Survivor) (string, LogCategory) {
	gain := FortWorkBase + t.content.EffectiveSkill(*sv, SkillBuilding) + t.toolingBonus(SkillBuilding)
	fort := t.state.Map.Fort()
	if !fort.HasFarm {
		fort.HasFarm = true
		t.state.FoodProduction += gain
		return fmt.Sprintf("%s built a basic farm at the fort! +%d Food Production daily.", sv.Name, gain), LogAction
	}
	t.state.AddFortDefense(gain)
	return fmt.Sprintf("%s repaired fort defenses! +%d Fort Defense.", sv.Name, gain), LogAction
}

func (t *turn) resolveAttack(sv *Survivor, b *world.Block) (string, LogCategory) {
	marauders := t.state.Faction(FactionMarauders)
	rep := 0
	if marauders != nil {
		rep = marauders.Reputation
	}
	combat := t.content.EffectiveSkill(*sv, SkillClearing) + t.content.Defense(*sv)
	chance := AttackBaseChance + AttackSkillChance*float64(combat) - AttackReputationPenalty*float64(rep)
	if !roll(t.rng, chance) {
		sv.Damage(AttackFailureDamage)
		if marauders != nil {
			marauders.AddReputation(AttackReputationGain)
		}
		return fmt.Sprintf("%s failed to attack The Marauders' block [%d,%d] and was injured.", sv.Name, b.X, b.Y), LogDanger
	}

	removed := min(b.Zombies, between(t.rng, 2, 6))
	b.Zombies -= removed
	if marauders != nil {
		marauders.AddReputation(-AttackReputationLoss)
	}
	msg := fmt.Sprintf("%s attacked The Marauders' block [%d,%d], clearing %d zombies.", sv.Name, b.X, b.Y, removed)
	category := LogAction
	if b.Zombies <= 0 {
		t.clearBlock(b)
		msg = fmt.Sprintf("%s successfully attacked The Marauders' block [%d,%d] and cleared it!", sv.Name, b.X, b.Y)
		category = LogSuccess
	}
	if roll(t.rng, AttackStashChance) {
		materials := between(t.rng, 1, 5)
		t.state.AddMaterials(materials)
		msg += fmt.Sprintf(" Found %d materials from their stash!", materials)
		category = LogResource
	}
	return msg, category
}

// clearBlock converts a ruined block and releases any faction hold on it.
func (t *turn) clearBlock(b *world.Block) {
	b.Type = world.BlockCleared
	b.Zombies = 0
	if b.FactionControlledBy != "" {
		if f := t.state.Faction(b.FactionControlledBy); f != nil {
			f.Release(b.Pos())
		}
		b.FactionControlledBy = ""
	}
	t.state.TotalBlocksCleared++
}

func (t *turn) toolingBonus(kind SkillKind) int {
	bonus := 0
	for _, def := range t.content.Research {
		up, ok := def.Effect.(ToolingUpgrade)
		if !ok || !t.state.Researched(def.Key) {
			continue
		}
		switch kind {
		case SkillScavenging:
			bonus += up.Scavenging
		case SkillBuilding:
			bonus += up.Building
		}
	}
	return bonus
}

func (t *turn) defenseBonus() int {
	bonus := 0
	for _, def := range t.content.Research {
		if up, ok := def.Effect.(DefenseUpgrade); ok && t.state.Researched(def.Key) {
			bonus += up.FortDefense
		}
	}
	return bonus
}

func (t *turn) medicineBonus() float64 {
	bonus := 0.0
	for _, def := range t.content.Research {
		if up, ok := def.Effect.(MedicineUpgrade); ok && t.state.Researched(def.Key) {
			bonus += up.HealChance
		}
	}
	return bonus
}
