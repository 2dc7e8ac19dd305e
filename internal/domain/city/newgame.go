package city

import (
	"resurgent/internal/domain/world"
)

// NewGame lays out a fresh 7x7 city with a leader and four random survivors.
func (s Simulator) NewGame(gameID string) (WorldState, []DomainEvent, error) {
	seeder := s.Seeder
	if seeder == nil {
		seeder = world.UniformSeeder{Rand: s.Rand}
	}
	state := WorldState{
		GameID:                  gameID,
		Day:                     1,
		Map:                     world.NewGrid(world.DefaultMapSize, seeder),
		MaxSurvivors:            StartingCapacity,
		Food:                    StartingFood,
		Materials:               StartingMaterials,
		FortDefense:             StartingFortDefense,
		Inventory:               []EquipmentKind{},
		MessageHistory:          []LogEntry{},
		TotalSurvivorsRecruited: StartingSurvivors,
	}
	t := s.begin(&state)
	if err := t.content.Validate(); err != nil {
		return WorldState{}, nil, err
	}
	state.UpdatedAt = t.now
	state.Research = freshResearch(t.content)
	state.Factions = freshFactions(t.content)
	state.Achievements = freshAchievements(t.content)

	state.Survivors = append(state.Survivors, t.groupLeader())
	for len(state.Survivors) < StartingSurvivors {
		state.Survivors = append(state.Survivors, t.randomSurvivor(1))
	}

	state.Map.RecomputeInfluence()
	t.seedFactionHolds()

	t.log(LogGeneric, "Welcome to Resurgent City! Reclaim the city from the zombies.")
	t.log(LogGeneric, "Pick a block to assign a task. Use 'expedition' to explore new areas!")
	t.checkAchievements()
	return state, t.events, nil
}

// seedFactionHolds places one Nomad and one Marauder block outside the starting zone.
func (t *turn) seedFactionHolds() {
	var candidates []*world.Block
	t.state.Map.Each(func(b *world.Block) {
		if b.Type == world.BlockRuined && !b.IsExplored && b.FactionControlledBy == "" {
			candidates = append(candidates, b)
		}
	})
	for _, id := range []string{FactionNomads, FactionMarauders} {
		f := t.state.Faction(id)
		if f == nil || len(candidates) == 0 {
			continue
		}
		i := pickIndex(t.rng, len(candidates))
		b := candidates[i]
		candidates = append(candidates[:i], candidates[i+1:]...)
		b.FactionControlledBy = id
		f.Claim(b.Pos())
	}
}

func freshResearch(c Content) map[string]ResearchProject {
	out := make(map[string]ResearchProject, len(c.Research))
	for _, def := range c.Research {
		out[def.Key] = ResearchProject{
			Key:         def.Key,
			Name:        def.Name,
			Description: def.Description,
			Cost:        def.Cost,
			Unlocked:    true,
		}
	}
	return out
}

func freshFactions(c Content) []Faction {
	out := make([]Faction, 0, len(c.Factions))
	for _, def := range c.Factions {
		out = append(out, Faction{
			ID:               def.ID,
			Name:             def.Name,
			Attitude:         def.Attitude,
			Reputation:       def.Reputation,
			ControlledBlocks: []world.Position{},
		})
	}
	return out
}

func freshAchievements(c Content) map[string]Achievement {
	out := make(map[string]Achievement, len(c.Achievements))
	for _, def := range c.Achievements {
		out[def.Key] = newAchievement(c, def)
	}
	return out
}
