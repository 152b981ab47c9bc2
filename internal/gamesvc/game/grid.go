package game

import "math/rand"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Board modes are a rendering hint for clients; the coordinator never
// interprets them.
const (
	ModeShuffle = "shuffle"
	ModeKeep    = "keep"
)

// GridSize maps a difficulty tier to its board size.
func GridSize(difficulty string) int {
	switch difficulty {
	case DifficultyEasy:
		return 50
	case DifficultyMedium:
		return 100
	case DifficultyHard:
		return 150
	default:
		return 100
	}
}

// GenerateGrid returns the integers 1..N for the given difficulty in a fresh
// uniformly random order. Callers regenerate on every match start so repeated
// plays are not predictable.
func GenerateGrid(difficulty string) []int {
	n := GridSize(difficulty)
	grid := make([]int, n)
	for i := range grid {
		grid[i] = i + 1
	}
	rand.Shuffle(n, func(i, j int) {
		grid[i], grid[j] = grid[j], grid[i]
	})
	return grid
}
