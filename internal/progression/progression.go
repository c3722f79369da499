// Package progression maps a kid's performance on a learning path to a
// difficulty level and a sampling distribution over question tiers.
package progression

import "dogdog/internal/models"

// MaxLevel is the highest difficulty level a path can reach
const MaxLevel = 8

// questionsPerLevel is how many correct answers advance one level
const questionsPerLevel = 10

const (
	streakStart     = 3    // streaks shorter than this leave the distribution alone
	streakShift     = 0.05 // weight moved toward harder tiers per streak step
	maxStreakShift  = 0.25
	mistakeShift    = 0.08 // weight moved toward easier tiers per recent mistake
	maxMistakeShift = 0.40
)

// Distribution maps each difficulty tier to its sampling weight. Weights
// are normalized to sum to 1.
type Distribution map[models.Difficulty]float64

// baseDistributions holds the tier weights for each level, index 0 = level 1.
// Early levels lean heavily on easy questions, later levels on hard and
// expert ones.
var baseDistributions = []Distribution{
	{models.DifficultyEasy: 0.70, models.DifficultyMedium: 0.25, models.DifficultyHard: 0.05, models.DifficultyExpert: 0.00},
	{models.DifficultyEasy: 0.55, models.DifficultyMedium: 0.30, models.DifficultyHard: 0.12, models.DifficultyExpert: 0.03},
	{models.DifficultyEasy: 0.40, models.DifficultyMedium: 0.35, models.DifficultyHard: 0.18, models.DifficultyExpert: 0.07},
	{models.DifficultyEasy: 0.30, models.DifficultyMedium: 0.35, models.DifficultyHard: 0.24, models.DifficultyExpert: 0.11},
	{models.DifficultyEasy: 0.20, models.DifficultyMedium: 0.33, models.DifficultyHard: 0.30, models.DifficultyExpert: 0.17},
	{models.DifficultyEasy: 0.12, models.DifficultyMedium: 0.28, models.DifficultyHard: 0.35, models.DifficultyExpert: 0.25},
	{models.DifficultyEasy: 0.08, models.DifficultyMedium: 0.22, models.DifficultyHard: 0.38, models.DifficultyExpert: 0.32},
	{models.DifficultyEasy: 0.05, models.DifficultyMedium: 0.15, models.DifficultyHard: 0.40, models.DifficultyExpert: 0.40},
}

// LevelForQuestionCount returns the difficulty level for a path where n
// questions have been answered correctly. Levels start at 1 and never
// exceed MaxLevel.
func LevelForQuestionCount(n int) int {
	if n < 0 {
		return 1
	}
	level := n/questionsPerLevel + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// CheckpointLevel returns the level implied by a checkpoint's threshold,
// used to pick sampling weights after play resets to that checkpoint
func CheckpointLevel(c models.Checkpoint) int {
	return LevelForQuestionCount(c.Threshold())
}

// DistributionForLevel returns the base tier weights for a level. Levels
// outside 1..MaxLevel are clamped to the nearest valid level.
func DistributionForLevel(level int) Distribution {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return baseDistributions[level-1].clone()
}

// TargetDistribution returns the tier weights for a level adjusted by the
// kid's current form. A long correct streak moves weight toward harder
// tiers, recent mistakes move it back toward easier ones. The result is
// always a valid probability distribution.
func TargetDistribution(level, streak, recentMistakes int) Distribution {
	dist := DistributionForLevel(level)

	harder := 0.0
	if streak >= streakStart {
		harder = float64(streak-streakStart+1) * streakShift
		if harder > maxStreakShift {
			harder = maxStreakShift
		}
	}

	easier := 0.0
	if recentMistakes > 0 {
		easier = float64(recentMistakes) * mistakeShift
		if easier > maxMistakeShift {
			easier = maxMistakeShift
		}
	}

	shift := harder - easier
	if shift == 0 {
		return dist
	}

	dist[models.DifficultyEasy] -= shift
	dist[models.DifficultyMedium] -= shift / 2
	dist[models.DifficultyHard] += shift / 2
	dist[models.DifficultyExpert] += shift

	clampAndNormalize(dist)
	return dist
}

func (d Distribution) clone() Distribution {
	c := make(Distribution, len(d))
	for tier, w := range d {
		c[tier] = w
	}
	return c
}

// clampAndNormalize floors negative weights at zero and rescales the rest
// to sum to 1
func clampAndNormalize(d Distribution) {
	total := 0.0
	for tier, w := range d {
		if w < 0 {
			d[tier] = 0
			w = 0
		}
		total += w
	}
	if total == 0 {
		for tier := range d {
			d[tier] = 1.0 / float64(len(d))
		}
		return
	}
	for tier := range d {
		d[tier] /= total
	}
}
