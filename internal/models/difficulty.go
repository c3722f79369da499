package models

import "fmt"

// Difficulty represents a question difficulty tier on an ordered 1-4 scale
type Difficulty int

const (
	DifficultyEasy Difficulty = iota + 1
	DifficultyMedium
	DifficultyHard
	DifficultyExpert
)

// AllDifficulties returns every difficulty tier from easiest to hardest
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}
}

// Valid reports whether d is a known difficulty tier
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyExpert
}

// Points returns the base points for a correct answer at this tier (1-4 scale × 10 = 10-40 points)
func (d Difficulty) Points() int {
	return int(d) * 10
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	case DifficultyExpert:
		return "expert"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty converts a tier name to a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	case "expert":
		return DifficultyExpert, nil
	default:
		return 0, fmt.Errorf("unknown difficulty: %q", s)
	}
}
