// Package noise seeds city maps from coherent noise so neighbouring blocks
// look alike instead of independent dice rolls.
package noise

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"resurgent/internal/domain/world"
)

const (
	MinZombies   = 1
	MaxZombies   = 5
	MinResources = 5
	MaxResources = 14

	defaultFrequency   = 0.35
	defaultOctaves     = 3
	defaultPersistence = 0.5
)

type Config struct {
	Seed        int64
	Frequency   float64
	Octaves     int
	Persistence float64
}

func DefaultConfig(seed int64) Config {
	return Config{
		Seed:        seed,
		Frequency:   defaultFrequency,
		Octaves:     defaultOctaves,
		Persistence: defaultPersistence,
	}
}

// Seeder is a world.Seeder backed by two independent noise layers.
type Seeder struct {
	cfg       Config
	zombies   opensimplex.Noise
	resources opensimplex.Noise
}

var _ world.Seeder = Seeder{}

func NewSeeder(cfg Config) Seeder {
	if cfg.Frequency <= 0 {
		cfg.Frequency = defaultFrequency
	}
	if cfg.Octaves <= 0 {
		cfg.Octaves = defaultOctaves
	}
	if cfg.Persistence <= 0 {
		cfg.Persistence = defaultPersistence
	}
	return Seeder{
		cfg:       cfg,
		zombies:   opensimplex.NewNormalized(cfg.Seed),
		resources: opensimplex.NewNormalized(cfg.Seed + 1),
	}
}

func (s Seeder) Seed(p world.Position) (int, int) {
	x, y := float64(p.X), float64(p.Y)
	z := octaveNoise(s.zombies, x, y, s.cfg.Octaves, s.cfg.Frequency, s.cfg.Persistence)
	r := octaveNoise(s.resources, x, y, s.cfg.Octaves, s.cfg.Frequency, s.cfg.Persistence)
	return scale(z, MinZombies, MaxZombies), scale(r, MinResources, MaxResources)
}

// scale maps v in [0,1] onto the integer range [lo,hi].
func scale(v float64, lo, hi int) int {
	n := lo + int(math.Floor(v*float64(hi-lo+1)))
	return min(hi, max(lo, n))
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
