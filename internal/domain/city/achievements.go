package city

func (s *WorldState) metric(m AchievementMetric) int {
	switch m {
	case MetricBlocksCleared:
		return s.TotalBlocksCleared
	case MetricSurvivorsRecruited:
		return s.TotalSurvivorsRecruited
	case MetricFortDefense:
		return s.FortDefense
	case MetricProjectsResearched:
		return s.ResearchedCount()
	}
	return 0
}

// checkAchievements unlocks every achievement whose target has been reached.
// Each unlocks once; content order decides the log order.
func (t *turn) checkAchievements() {
	if t.state.Achievements == nil {
		t.state.Achievements = map[string]Achievement{}
	}
	for _, def := range t.content.Achievements {
		a, ok := t.state.Achievements[def.Key]
		if !ok {
			a = newAchievement(t.content, def)
		}
		if a.Unlocked || t.state.metric(a.Metric) < a.Target {
			t.state.Achievements[def.Key] = a
			continue
		}
		a.Unlocked = true
		t.state.Achievements[def.Key] = a
		t.log(LogVictory, "ACHIEVEMENT UNLOCKED: %q! %s", a.Name, a.Description)
		t.emit(EventAchievementUnlocked, map[string]any{
			"key":         a.Key,
			"name":        a.Name,
			"description": a.Description,
		})
	}
}

// checkOutcome settles victory before defeat, matching the end-of-day order.
func (t *turn) checkOutcome() {
	if t.state.Outcome != OutcomeNone {
		return
	}
	if cleared := t.state.ClearedBlocks(); cleared >= VictoryClearedBlocks {
		t.state.Outcome = OutcomeVictory
		t.log(LogVictory, "VICTORY! You have cleared %d blocks! The city is safe... for now.", cleared)
		t.emit(EventVictory, map[string]any{"cleared_blocks": cleared, "day": t.state.Day})
		return
	}
	if len(t.state.Survivors) == 0 {
		t.state.Outcome = OutcomeDefeat
		t.log(LogDefeat, "DEFEAT! All your survivors are gone. The city falls to the undead.")
		t.emit(EventDefeat, map[string]any{"day": t.state.Day})
	}
}

func newAchievement(c Content, def AchievementDef) Achievement {
	return Achievement{
		Key:         def.Key,
		Name:        def.Name,
		Description: def.Description,
		Metric:      def.Metric,
		Target:      c.AchievementTarget(def),
	}
}
