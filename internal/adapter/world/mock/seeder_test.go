package mock

import (
	"testing"

	"resurgent/internal/domain/world"
)

func TestSeeder_FillsEveryRuin(t *testing.T) {
	g := world.NewGrid(world.DefaultMapSize, Seeder{Zombies: 2, Resources: 8})
	if n := g.Count(func(b world.Block) bool { return b.Type == world.BlockRuined && (b.Zombies != 2 || b.Resources != 8) }); n != 0 {
		t.Fatalf("expected uniform ruins, got %d odd blocks", n)
	}
}
