package city

import (
	"encoding/json"
	"fmt"

	"resurgent/internal/domain/world"
)

// UnmarshalJSON fills fields that older saves did not carry.
func (s *Survivor) UnmarshalJSON(data []byte) error {
	type plain Survivor
	aux := struct {
		*plain
		Health    *int `json:"health"`
		Morale    *int `json:"morale"`
		DayJoined *int `json:"day_joined"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Health = DefaultHealth
	if aux.Health != nil {
		s.Health = *aux.Health
	}
	s.Morale = DefaultMorale
	if aux.Morale != nil {
		s.Morale = *aux.Morale
	}
	s.DayJoined = 1
	if aux.DayJoined != nil {
		s.DayJoined = *aux.DayJoined
	}
	return nil
}

// Restore reconciles a decoded snapshot with the current content tables and
// invariants. Definitions are rebuilt from content; progress is kept.
func (s Simulator) Restore(state *WorldState) ([]DomainEvent, error) {
	t := s.begin(state)
	if err := t.restoreMap(); err != nil {
		return nil, err
	}
	state.Day = max(1, state.Day)
	state.Food = max(0, state.Food)
	state.Materials = max(0, state.Materials)
	state.ResearchPoints = max(0, state.ResearchPoints)
	state.FoodProduction = max(0, state.FoodProduction)
	state.MaterialProduction = max(0, state.MaterialProduction)
	state.AddFortDefense(0)
	if state.MaxSurvivors <= 0 {
		state.MaxSurvivors = StartingCapacity
	}

	t.restoreSurvivors()
	t.restoreTables()

	if len(state.MessageHistory) > MaxLogEntries {
		state.MessageHistory = state.MessageHistory[:MaxLogEntries]
	}
	if state.MessageHistory == nil {
		state.MessageHistory = []LogEntry{}
	}
	if state.TotalSurvivorsRecruited <= 0 {
		state.TotalSurvivorsRecruited = len(state.Survivors)
	}
	if state.PendingChoice != nil {
		if ev, ok := eventByKey(state.PendingChoice.Event); !ok || ev.resolve == nil || len(state.PendingChoice.Options) == 0 {
			state.PendingChoice = nil
		}
	}
	state.Warnings = WarningFlags{}

	state.Map.RecomputeInfluence()
	t.log(LogSuccess, "Game loaded successfully!")
	t.checkOutcome()
	return t.events, nil
}

func (t *turn) restoreMap() error {
	g := t.state.Map
	if len(g) != world.DefaultMapSize {
		return fmt.Errorf("%w: map must be %dx%d", ErrInvalidState, world.DefaultMapSize, world.DefaultMapSize)
	}
	for y := range g {
		if len(g[y]) != world.DefaultMapSize {
			return fmt.Errorf("%w: map row %d has %d cells", ErrInvalidState, y, len(g[y]))
		}
	}
	fort := world.Center(len(g))
	g.Each(func(b *world.Block) {
		b.Zombies = max(0, b.Zombies)
		b.Resources = max(0, b.Resources)
		if b.Type == world.BlockFort && b.Pos() != fort {
			b.Type = world.BlockCleared
		}
		if b.Type != world.BlockRuined {
			b.FactionControlledBy = ""
		}
		if b.IsExplored {
			b.IsVisible = true
		}
	})
	for y := range g {
		for x := range g[y] {
			g[y][x].X, g[y][x].Y = x, y
		}
	}
	f := g.Fort()
	f.Type = world.BlockFort
	f.Explore()
	return nil
}

func (t *turn) restoreSurvivors() {
	seen := make(map[string]bool, len(t.state.Survivors))
	kept := make([]Survivor, 0, len(t.state.Survivors))
	for _, sv := range t.state.Survivors {
		if sv.ID == "" || seen[sv.ID] {
			sv.ID = t.sim.newID()
		}
		seen[sv.ID] = true
		if _, ok := t.content.Trait(sv.Trait); !ok {
			sv.Trait = t.content.Traits[pickIndex(t.rng, len(t.content.Traits))].Kind
		}
		if _, ok := t.content.EquipmentDef(sv.EquippedItem); sv.EquippedItem != "" && !ok {
			sv.EquippedItem = ""
		}
		sv.Health = clamp(sv.Health, 0, MaxHealth)
		sv.Morale = clamp(sv.Morale, 0, MaxMorale)
		sv.DayJoined = max(1, sv.DayJoined)
		if sv.Health < SickHealthThreshold {
			sv.IsSick = true
		}
		sv.DaysRemaining = max(0, sv.DaysRemaining)
		if !sv.IsBusy || sv.CurrentTask == "" || !t.inBounds(sv.AssignedBlock) || !t.inBounds(sv.CurrentResearchBlock) {
			sv.Release()
		}
		if stalledTask(sv) {
			sv.Release()
		}
		if sv.CurrentResearchBlock != nil {
			if other, taken := researcherIn(kept, *sv.CurrentResearchBlock); taken && other != sv.ID {
				sv.Release()
			}
		}
		kept = append(kept, sv)
	}
	t.state.Survivors = kept
}

// stalledTask reports a busy survivor that no day step would ever free: a
// counted task with no days left, or research without a lab.
func stalledTask(sv Survivor) bool {
	switch sv.CurrentTask {
	case "", TaskTrading, TaskEquipping, TaskConsulting:
		return false
	case TaskResearch:
		return sv.CurrentResearchBlock == nil
	default:
		return sv.DaysRemaining == 0
	}
}

func researcherIn(list []Survivor, p world.Position) (string, bool) {
	for _, sv := range list {
		if sv.CurrentResearchBlock != nil && *sv.CurrentResearchBlock == p {
			return sv.ID, true
		}
	}
	return "", false
}

func (t *turn) inBounds(p *world.Position) bool {
	return p == nil || t.state.Map.InBounds(*p)
}

func (t *turn) restoreTables() {
	st := t.state
	c := t.content

	research := freshResearch(c)
	for key, p := range research {
		if old, ok := st.Research[key]; ok {
			p.Researched = old.Researched
			research[key] = p
		}
	}
	st.Research = research

	factions := freshFactions(c)
	for i := range factions {
		if old := st.Faction(factions[i].ID); old != nil {
			factions[i].Reputation = clamp(old.Reputation, 0, MaxReputation)
		}
	}
	st.Map.Each(func(b *world.Block) {
		for i := range factions {
			if factions[i].ID == b.FactionControlledBy {
				factions[i].Claim(b.Pos())
				return
			}
		}
		b.FactionControlledBy = ""
	})
	st.Factions = factions

	achievements := freshAchievements(c)
	for key, a := range achievements {
		if old, ok := st.Achievements[key]; ok {
			a.Unlocked = old.Unlocked
			achievements[key] = a
		}
	}
	st.Achievements = achievements

	inventory := make([]EquipmentKind, 0, len(st.Inventory))
	for _, kind := range st.Inventory {
		if _, ok := c.EquipmentDef(kind); ok {
			inventory = append(inventory, kind)
		}
	}
	st.Inventory = inventory
}
