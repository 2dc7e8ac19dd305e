package city

// Rand is the only source of nondeterminism in the simulation.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

func roll(r Rand, p float64) bool {
	return r.Float64() < p
}

// between draws uniformly from [lo, hi].
func between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

func pickIndex(r Rand, n int) int {
	if n <= 1 {
		return 0
	}
	return r.IntN(n)
}
