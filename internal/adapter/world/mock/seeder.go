// Package mock provides a fixed map seeder for demos and end-to-end runs.
package mock

import "resurgent/internal/domain/world"

// Seeder gives every ruined block the same zombie and resource counts.
type Seeder struct {
	Zombies   int
	Resources int
}

func (s Seeder) Seed(_ world.Position) (int, int) {
	return s.Zombies, s.Resources
}
