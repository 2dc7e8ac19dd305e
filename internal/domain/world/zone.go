package world

const (
	DefaultMapSize = 7

	FortInfluenceRadius      = 1
	ScoutPostInfluenceRadius = 2
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Center returns the fort coordinate for a square map of the given side.
func Center(size int) Position {
	return Position{X: size / 2, Y: size / 2}
}

// Chebyshev is the square-grid distance used for influence and task travel.
func Chebyshev(a, b Position) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
