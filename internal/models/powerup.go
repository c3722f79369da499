package models

import "fmt"

// PowerUpType identifies a consumable power-up a kid can spend during play
type PowerUpType string

const (
	PowerUpFiftyFifty   PowerUpType = "fiftyFifty"
	PowerUpHint         PowerUpType = "hint"
	PowerUpExtraTime    PowerUpType = "extraTime"
	PowerUpSkip         PowerUpType = "skip"
	PowerUpSecondChance PowerUpType = "secondChance"
)

// AllPowerUpTypes returns every power-up type in display order
func AllPowerUpTypes() []PowerUpType {
	return []PowerUpType{
		PowerUpFiftyFifty,
		PowerUpHint,
		PowerUpExtraTime,
		PowerUpSkip,
		PowerUpSecondChance,
	}
}

// Valid reports whether p is a known power-up type
func (p PowerUpType) Valid() bool {
	switch p {
	case PowerUpFiftyFifty, PowerUpHint, PowerUpExtraTime, PowerUpSkip, PowerUpSecondChance:
		return true
	}
	return false
}

// DisplayName returns the kid-facing name for the power-up
func (p PowerUpType) DisplayName() string {
	switch p {
	case PowerUpFiftyFifty:
		return "Fifty-Fifty"
	case PowerUpHint:
		return "Hint"
	case PowerUpExtraTime:
		return "Extra Time"
	case PowerUpSkip:
		return "Skip"
	case PowerUpSecondChance:
		return "Second Chance"
	default:
		return string(p)
	}
}

// ParsePowerUpType converts a stored power-up name to a PowerUpType
func ParsePowerUpType(s string) (PowerUpType, error) {
	p := PowerUpType(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown power-up type: %q", s)
	}
	return p, nil
}

// RewardBundle maps each power-up type to a granted quantity
type RewardBundle map[PowerUpType]int

// NewRewardBundle returns a bundle with every power-up type at zero
func NewRewardBundle() RewardBundle {
	b := make(RewardBundle, len(AllPowerUpTypes()))
	for _, p := range AllPowerUpTypes() {
		b[p] = 0
	}
	return b
}

// Clone returns an independent copy of the bundle
func (b RewardBundle) Clone() RewardBundle {
	c := make(RewardBundle, len(b))
	for p, n := range b {
		c[p] = n
	}
	return c
}

// Add merges the quantities from other into b
func (b RewardBundle) Add(other RewardBundle) {
	for p, n := range other {
		b[p] += n
	}
}

// Total returns the combined quantity across all power-up types
func (b RewardBundle) Total() int {
	total := 0
	for _, n := range b {
		total += n
	}
	return total
}
