package city

import (
	"fmt"
	"testing"
	"time"

	"resurgent/internal/domain/world"
)

// scriptedRand replays fixed draws, then falls back to defaults. The default
// float of 0.99 makes every probability roll fail unless a test scripts it.
type scriptedRand struct {
	floats   []float64
	ints     []int
	defFloat float64
	defInt   int
}

func newScriptedRand() *scriptedRand {
	return &scriptedRand{defFloat: 0.99}
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return r.defFloat
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) IntN(n int) int {
	v := r.defInt
	if len(r.ints) > 0 {
		v = r.ints[0]
		r.ints = r.ints[1:]
	}
	return max(0, min(n-1, v))
}

var _ Rand = (*scriptedRand)(nil)

type fixedSeeder struct {
	zombies   int
	resources int
}

func (s fixedSeeder) Seed(world.Position) (int, int) {
	return s.zombies, s.resources
}

func newTestSimulator(r Rand) Simulator {
	n := 0
	return Simulator{
		Rand:    r,
		Content: DefaultContent(),
		Seeder:  fixedSeeder{zombies: 2, resources: 7},
		NewID: func() string {
			n++
			return fmt.Sprintf("sv-%d", n)
		},
		Now: func() time.Time { return time.Unix(1700000000, 0).UTC() },
	}
}

// newTestState builds a day-1 city around the fort with the given roster.
// Every ruined block holds two zombies.
func newTestState(survivors ...Survivor) WorldState {
	c := DefaultContent()
	state := WorldState{
		GameID:         "game-1",
		Day:            1,
		Map:            world.NewGrid(world.DefaultMapSize, fixedSeeder{zombies: 2, resources: 7}),
		Survivors:      survivors,
		MaxSurvivors:   StartingCapacity,
		Food:           StartingFood,
		Materials:      StartingMaterials,
		FortDefense:    StartingFortDefense,
		Research:       freshResearch(c),
		Factions:       freshFactions(c),
		Achievements:   freshAchievements(c),
		Inventory:      []EquipmentKind{},
		MessageHistory: []LogEntry{},
	}
	state.Map.RecomputeInfluence()
	return state
}

func survivor(id string, skills Skills) Survivor {
	return Survivor{
		ID:        id,
		Name:      "Survivor " + id,
		Skills:    skills,
		Health:    DefaultHealth,
		Morale:    DefaultMorale,
		Trait:     TraitMedic,
		DayJoined: 1,
	}
}

func mustBlock(t *testing.T, s *WorldState, x, y int) *world.Block {
	t.Helper()
	b, err := s.Map.At(world.Pos(x, y))
	if err != nil {
		t.Fatalf("block (%d,%d): %v", x, y, err)
	}
	return b
}

func mustSurvivor(t *testing.T, s *WorldState, id string) *Survivor {
	t.Helper()
	sv, ok := s.Survivor(id)
	if !ok {
		t.Fatalf("survivor %s not found", id)
	}
	return sv
}

func hasEvent(events []DomainEvent, eventType string) bool {
	for _, e := range events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

func assertInvariants(t *testing.T, s *WorldState) {
	t.Helper()
	if s.FortDefense < 0 || s.FortDefense > MaxFortDefense {
		t.Fatalf("fort defense out of range: %d", s.FortDefense)
	}
	if s.Food < 0 || s.Materials < 0 || s.ResearchPoints < 0 {
		t.Fatalf("negative resources: food=%d materials=%d rp=%d", s.Food, s.Materials, s.ResearchPoints)
	}
	if len(s.MessageHistory) > MaxLogEntries {
		t.Fatalf("log too long: %d", len(s.MessageHistory))
	}
	s.Map.Each(func(b *world.Block) {
		if b.IsExplored && !b.IsVisible {
			t.Fatalf("block (%d,%d) explored but not visible", b.X, b.Y)
		}
	})
	for _, sv := range s.Survivors {
		if sv.IsBusy != (sv.CurrentTask != "") {
			t.Fatalf("survivor %s busy=%v task=%q", sv.ID, sv.IsBusy, sv.CurrentTask)
		}
	}
}
