package noise

import (
	"testing"

	"resurgent/internal/domain/world"
)

func TestSeeder_StaysInRangeAndIsDeterministic(t *testing.T) {
	a := NewSeeder(DefaultConfig(42))
	b := NewSeeder(DefaultConfig(42))
	for y := 0; y < world.DefaultMapSize; y++ {
		for x := 0; x < world.DefaultMapSize; x++ {
			p := world.Pos(x, y)
			z, r := a.Seed(p)
			if z < MinZombies || z > MaxZombies {
				t.Fatalf("zombies out of range at %v: got=%d", p, z)
			}
			if r < MinResources || r > MaxResources {
				t.Fatalf("resources out of range at %v: got=%d", p, r)
			}
			z2, r2 := b.Seed(p)
			if z != z2 || r != r2 {
				t.Fatalf("same seed diverged at %v", p)
			}
		}
	}
}

func TestSeeder_BuildsValidGrid(t *testing.T) {
	g := world.NewGrid(world.DefaultMapSize, NewSeeder(Config{Seed: 7}))
	fort := g.Fort()
	if fort == nil || fort.Type != world.BlockFort || fort.Zombies != 0 {
		t.Fatalf("fort not placed: %+v", fort)
	}
	if n := g.Count(func(b world.Block) bool { return b.Type == world.BlockRuined && b.Zombies == 0 }); n != 0 {
		t.Fatalf("expected every ruin to hold zombies, got %d empty", n)
	}
}

func TestScale_Bounds(t *testing.T) {
	cases := []struct {
		v    float64
		want int
	}{
		{0, 1},
		{0.19, 1},
		{0.2, 2},
		{0.99, 5},
		{1, 5},
		{-0.3, 1},
	}
	for _, tc := range cases {
		if got := scale(tc.v, 1, 5); got != tc.want {
			t.Fatalf("scale(%v) got=%d want=%d", tc.v, got, tc.want)
		}
	}
}
