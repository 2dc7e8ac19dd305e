package city

import "resurgent/internal/domain/world"

func (s *WorldState) Survivor(id string) (*Survivor, bool) {
	for i := range s.Survivors {
		if s.Survivors[i].ID == id {
			return &s.Survivors[i], true
		}
	}
	return nil, false
}

// RemoveSurvivor drops the survivor with id. Callers iterating the roster must
// walk a snapshot of IDs, not indexes.
func (s *WorldState) RemoveSurvivor(id string) bool {
	for i := range s.Survivors {
		if s.Survivors[i].ID == id {
			s.Survivors = append(s.Survivors[:i], s.Survivors[i+1:]...)
			return true
		}
	}
	return false
}

func (s *WorldState) SurvivorIDs() []string {
	ids := make([]string, 0, len(s.Survivors))
	for _, sv := range s.Survivors {
		ids = append(ids, sv.ID)
	}
	return ids
}

func (s *WorldState) Faction(id string) *Faction {
	for i := range s.Factions {
		if s.Factions[i].ID == id {
			return &s.Factions[i]
		}
	}
	return nil
}

func (s *WorldState) Researched(key string) bool {
	p, ok := s.Research[key]
	return ok && p.Researched
}

func (s *WorldState) ResearchedCount() int {
	n := 0
	for _, p := range s.Research {
		if p.Researched {
			n++
		}
	}
	return n
}

func (s *WorldState) ClearedBlocks() int {
	return s.Map.Count(func(b world.Block) bool { return b.Type == world.BlockCleared })
}

func (s *WorldState) HasAnyLab() bool {
	return s.Map.Count(func(b world.Block) bool { return b.HasLab }) > 0
}

func (s *WorldState) Researcher(p world.Position) (*Survivor, bool) {
	for i := range s.Survivors {
		rb := s.Survivors[i].CurrentResearchBlock
		if rb != nil && *rb == p {
			return &s.Survivors[i], true
		}
	}
	return nil, false
}

// AvailableSurvivors are idle and healthy.
func (s *WorldState) AvailableSurvivors() []*Survivor {
	out := make([]*Survivor, 0, len(s.Survivors))
	for i := range s.Survivors {
		if s.Survivors[i].Available() {
			out = append(out, &s.Survivors[i])
		}
	}
	return out
}

func (s *WorldState) AddFood(n int) {
	s.Food = max(0, s.Food+n)
}

func (s *WorldState) AddMaterials(n int) {
	s.Materials = max(0, s.Materials+n)
}

func (s *WorldState) AddResearchPoints(n int) {
	s.ResearchPoints = max(0, s.ResearchPoints+n)
}

// AddFortDefense keeps the fort inside [0, MaxFortDefense].
func (s *WorldState) AddFortDefense(n int) {
	s.FortDefense = clamp(s.FortDefense+n, 0, MaxFortDefense)
}

func (f *Faction) AddReputation(n int) {
	f.Reputation = clamp(f.Reputation+n, 0, MaxReputation)
}

func (f *Faction) Claim(p world.Position) {
	for _, c := range f.ControlledBlocks {
		if c == p {
			return
		}
	}
	f.ControlledBlocks = append(f.ControlledBlocks, p)
}

func (f *Faction) Release(p world.Position) {
	out := f.ControlledBlocks[:0]
	for _, c := range f.ControlledBlocks {
		if c != p {
			out = append(out, c)
		}
	}
	f.ControlledBlocks = out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
