package world

import "errors"

var ErrOutOfBounds = errors.New("position out of bounds")

// Grid is the square map indexed [y][x].
type Grid [][]Block

// Seeder supplies the initial zombie and resource counts for a ruined block.
type Seeder interface {
	Seed(p Position) (zombies, resources int)
}

// NewGrid lays out a size×size map of ruined blocks with the fort at the center.
func NewGrid(size int, seeder Seeder) Grid {
	fort := Center(size)
	g := make(Grid, size)
	for y := 0; y < size; y++ {
		g[y] = make([]Block, size)
		for x := 0; x < size; x++ {
			zombies, resources := seeder.Seed(Position{X: x, Y: y})
			g[y][x] = Block{
				X:         x,
				Y:         y,
				Type:      BlockRuined,
				Zombies:   max(0, zombies),
				Resources: max(0, resources),
			}
		}
	}
	f := &g[fort.Y][fort.X]
	f.Type = BlockFort
	f.Zombies = 0
	f.Resources = 0
	f.Explore()
	return g
}

func (g Grid) Size() int {
	return len(g)
}

func (g Grid) InBounds(p Position) bool {
	return p.Y >= 0 && p.Y < len(g) && p.X >= 0 && p.X < len(g[p.Y])
}

// At returns a pointer into the grid so callers mutate the block in place.
func (g Grid) At(p Position) (*Block, error) {
	if !g.InBounds(p) {
		return nil, ErrOutOfBounds
	}
	return &g[p.Y][p.X], nil
}

// Fort returns the single fort block.
func (g Grid) Fort() *Block {
	c := Center(len(g))
	if !g.InBounds(c) {
		return nil
	}
	return &g[c.Y][c.X]
}

// Each visits every block row by row.
func (g Grid) Each(fn func(b *Block)) {
	for y := range g {
		for x := range g[y] {
			fn(&g[y][x])
		}
	}
}

// Neighbors returns the in-bounds cells around p within Chebyshev distance 1.
func (g Grid) Neighbors(p Position) []*Block {
	out := make([]*Block, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Position{X: p.X + dx, Y: p.Y + dy}
			if g.InBounds(n) {
				out = append(out, &g[n.Y][n.X])
			}
		}
	}
	return out
}

func (g Grid) Count(pred func(b Block) bool) int {
	n := 0
	for y := range g {
		for x := range g[y] {
			if pred(g[y][x]) {
				n++
			}
		}
	}
	return n
}

func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for y := range g {
		out[y] = append([]Block(nil), g[y]...)
	}
	return out
}

// UniformSeeder draws zombies in [1,5] and resources in [5,14] per block.
type UniformSeeder struct {
	Rand interface{ IntN(n int) int }
}

func (s UniformSeeder) Seed(_ Position) (int, int) {
	return s.Rand.IntN(5) + 1, s.Rand.IntN(10) + 5
}
