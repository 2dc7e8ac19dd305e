package city

import (
	"fmt"

	"resurgent/internal/domain/world"
)

func (s Survivor) Available() bool {
	return !s.IsBusy && !s.IsSick
}

func (s Survivor) SkillTotal() int {
	return s.Skills.Scavenging + s.Skills.Clearing + s.Skills.Building
}

func (s Survivor) Skill(kind SkillKind) int {
	switch kind {
	case SkillScavenging:
		return s.Skills.Scavenging
	case SkillClearing:
		return s.Skills.Clearing
	case SkillBuilding:
		return s.Skills.Building
	}
	return 0
}

func (s *Survivor) addSkill(kind SkillKind, n int) {
	switch kind {
	case SkillScavenging:
		s.Skills.Scavenging += n
	case SkillClearing:
		s.Skills.Clearing += n
	case SkillBuilding:
		s.Skills.Building += n
	}
}

func (s *Survivor) Damage(n int) {
	s.Health = clamp(s.Health-n, 0, MaxHealth)
	if s.Health < SickHealthThreshold {
		s.IsSick = true
	}
}

func (s *Survivor) Heal(n int) {
	s.Health = clamp(s.Health+n, 0, MaxHealth)
}

func (s *Survivor) AddMorale(n int) {
	s.Morale = clamp(s.Morale+n, 0, MaxMorale)
}

func (s *Survivor) assign(task TaskType, block *world.Position, days int) {
	s.IsBusy = true
	s.CurrentTask = task
	s.AssignedBlock = block
	s.DaysRemaining = days
}

// Release returns the survivor to the idle pool.
func (s *Survivor) Release() {
	s.IsBusy = false
	s.CurrentTask = ""
	s.AssignedBlock = nil
	s.CurrentResearchBlock = nil
	s.DaysRemaining = 0
}

// EffectiveSkill is base skill plus trait and equipment bonuses.
func (c Content) EffectiveSkill(s Survivor, kind SkillKind) int {
	skill := s.Skill(kind)
	if def, ok := c.Trait(s.Trait); ok {
		if bonus, ok := def.Effect.(SkillBonus); ok {
			skill += bonus.For(kind)
		}
	}
	if s.EquippedItem != "" {
		if def, ok := c.EquipmentDef(s.EquippedItem); ok {
			skill += equipmentSkill(def.Effect, kind)
		}
	}
	return skill
}

func (c Content) Defense(s Survivor) int {
	if s.EquippedItem == "" {
		return 0
	}
	def, ok := c.EquipmentDef(s.EquippedItem)
	if !ok {
		return 0
	}
	if armor, ok := def.Effect.(ArmorBonus); ok {
		return armor.Defense
	}
	return 0
}

func (c Content) SkillGain(s Survivor) int {
	gain := SkillGain
	if def, ok := c.Trait(s.Trait); ok {
		if bonus, ok := def.Effect.(SkillGainBonus); ok {
			gain += bonus.Extra
		}
	}
	return gain
}

func (c Content) traitEffect(s Survivor) TraitEffect {
	def, ok := c.Trait(s.Trait)
	if !ok {
		return nil
	}
	return def.Effect
}

func (c Content) TraitName(kind TraitKind) string {
	if def, ok := c.Trait(kind); ok {
		return def.Name
	}
	return string(kind)
}

func (c Content) EquipmentName(kind EquipmentKind) string {
	if def, ok := c.EquipmentDef(kind); ok {
		return def.Name
	}
	return string(kind)
}

func (b SkillBonus) For(kind SkillKind) int {
	switch kind {
	case SkillScavenging:
		return b.Scavenging
	case SkillClearing:
		return b.Clearing
	case SkillBuilding:
		return b.Building
	}
	return 0
}

func equipmentSkill(effect EquipmentEffect, kind SkillKind) int {
	switch e := effect.(type) {
	case ToolBonus:
		switch kind {
		case SkillScavenging:
			return e.Scavenging
		case SkillBuilding:
			return e.Building
		}
	case WeaponBonus:
		if kind == SkillClearing {
			return e.Clearing
		}
	}
	return 0
}

// randomSurvivor rolls a fresh recruit with skills in [0,2].
func (t *turn) randomSurvivor(dayJoined int) Survivor {
	c := t.content
	first := c.FirstNames[pickIndex(t.rng, len(c.FirstNames))]
	last := c.LastNames[pickIndex(t.rng, len(c.LastNames))]
	return Survivor{
		ID:   t.sim.newID(),
		Name: fmt.Sprintf("%s %s", first, last),
		Skills: Skills{
			Scavenging: t.rng.IntN(3),
			Clearing:   t.rng.IntN(3),
			Building:   t.rng.IntN(3),
		},
		Health:    DefaultHealth,
		Morale:    DefaultMorale,
		Trait:     c.Traits[pickIndex(t.rng, len(c.Traits))].Kind,
		DayJoined: dayJoined,
	}
}

// groupLeader rerolls skills in [1,3] until they total at least LeaderSkillTotal.
func (t *turn) groupLeader() Survivor {
	leader := t.randomSurvivor(1)
	for i := 0; leader.SkillTotal() < LeaderSkillTotal && i < leaderRerollLimit; i++ {
		leader.Skills = Skills{
			Scavenging: between(t.rng, 1, 3),
			Clearing:   between(t.rng, 1, 3),
			Building:   between(t.rng, 1, 3),
		}
	}
	if short := LeaderSkillTotal - leader.SkillTotal(); short > 0 {
		leader.Skills.Scavenging += short
	}
	last := t.content.LastNames[pickIndex(t.rng, len(t.content.LastNames))]
	leader.Name = "Commander " + last
	if _, ok := t.content.Trait(t.content.LeaderTrait); ok {
		leader.Trait = t.content.LeaderTrait
	}
	return leader
}
