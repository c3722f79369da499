// Package rewards defines the power-up bundles earned at checkpoints and
// the consolation bundle granted after a game over.
package rewards

import (
	"fmt"

	"dogdog/internal/models"
)

// BonusAccuracyThreshold is the checkpoint-interval accuracy at or above
// which the bonus bundle is granted
const BonusAccuracyThreshold = 0.8

// baseBundles maps each checkpoint to its guaranteed reward. For every
// power-up type the quantity never decreases along the ladder.
var baseBundles = map[models.Checkpoint]models.RewardBundle{
	models.CheckpointChihuahua: {
		models.PowerUpFiftyFifty:   1,
		models.PowerUpHint:         1,
		models.PowerUpExtraTime:    0,
		models.PowerUpSkip:         0,
		models.PowerUpSecondChance: 0,
	},
	models.CheckpointPug: {
		models.PowerUpFiftyFifty:   1,
		models.PowerUpHint:         1,
		models.PowerUpExtraTime:    1,
		models.PowerUpSkip:         1,
		models.PowerUpSecondChance: 0,
	},
	models.CheckpointCockerSpaniel: {
		models.PowerUpFiftyFifty:   2,
		models.PowerUpHint:         2,
		models.PowerUpExtraTime:    1,
		models.PowerUpSkip:         1,
		models.PowerUpSecondChance: 1,
	},
	models.CheckpointGermanShepherd: {
		models.PowerUpFiftyFifty:   2,
		models.PowerUpHint:         2,
		models.PowerUpExtraTime:    2,
		models.PowerUpSkip:         2,
		models.PowerUpSecondChance: 1,
	},
	models.CheckpointGreatDane: {
		models.PowerUpFiftyFifty:   3,
		models.PowerUpHint:         3,
		models.PowerUpExtraTime:    2,
		models.PowerUpSkip:         2,
		models.PowerUpSecondChance: 2,
	},
}

// Base returns the guaranteed bundle for earning a checkpoint, without
// any accuracy bonus
func Base(checkpoint models.Checkpoint) (models.RewardBundle, error) {
	base, ok := baseBundles[checkpoint]
	if !ok {
		return nil, fmt.Errorf("no reward bundle for checkpoint %q", checkpoint)
	}
	return base.Clone(), nil
}

// BonusBundle returns the extra grant for clearing a checkpoint with
// accuracy at or above BonusAccuracyThreshold: one of every power-up type
func BonusBundle() models.RewardBundle {
	bundle := models.NewRewardBundle()
	for _, p := range models.AllPowerUpTypes() {
		bundle[p] = 1
	}
	return bundle
}

// For returns the reward bundle for earning a checkpoint with the given
// accuracy over the checkpoint interval. Accuracy at or above
// BonusAccuracyThreshold adds the bonus bundle once; the bonus does not
// scale further with higher accuracy.
func For(checkpoint models.Checkpoint, accuracy float64) (models.RewardBundle, error) {
	bundle, err := Base(checkpoint)
	if err != nil {
		return nil, err
	}
	if accuracy >= BonusAccuracyThreshold {
		bundle.Add(BonusBundle())
	}
	return bundle, nil
}

// Preview shows what a checkpoint can award, split the way reward
// screens present it
type Preview struct {
	Checkpoint models.Checkpoint
	Base       models.RewardBundle
	Bonus      models.RewardBundle
}

// PreviewFor returns the display view of a checkpoint's possible rewards
func PreviewFor(checkpoint models.Checkpoint) (Preview, error) {
	base, err := Base(checkpoint)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		Checkpoint: checkpoint,
		Base:       base,
		Bonus:      BonusBundle(),
	}, nil
}

// Consolation returns the bundle granted when a fallback keeps a kid
// playing after a game over: one of every power-up type. It is
// independent of the checkpoint tables.
func Consolation() models.RewardBundle {
	bundle := models.NewRewardBundle()
	for _, p := range models.AllPowerUpTypes() {
		bundle[p] = 1
	}
	return bundle
}
