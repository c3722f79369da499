// Package fallback decides how play continues after a kid runs out of
// lives. There is no hard game over: the policy always finds a way to
// keep a valid path going.
package fallback

import (
	"dogdog/internal/messages"
	"dogdog/internal/models"
	"dogdog/internal/rewards"
	"dogdog/internal/track"
)

// Policy chooses the recovery for a path whose session just ended. It
// looks only at persisted checkpoint state, never at live session data.
type Policy struct{}

// New returns the default fallback policy
func New() *Policy {
	return &Policy{}
}

// HandleGameOver returns the recovery for a game over on the given path.
// With at least one checkpoint earned in order, play resets to the most
// recent one with full lives and the consolation bundle; with none, the
// path restarts from the beginning with full lives and nothing extra.
// Only unusable progress state yields a failed fallback.
func (p *Policy) HandleGameOver(progress *models.PathProgress) models.FallbackResult {
	if progress == nil || !progress.Path.Valid() {
		return models.FallbackResult{
			Action:  models.FallbackFailed,
			Message: "This path cannot continue right now.",
		}
	}

	tr := track.FromProgress(progress)
	if checkpoint, ok := tr.Current(); ok {
		return models.FallbackResult{
			Action:        models.FallbackResetToCheckpoint,
			Checkpoint:    checkpoint,
			RestoredLives: models.MaxLives,
			PowerUps:      rewards.Consolation(),
			Message:       messages.CheckpointReset(checkpoint.DisplayName()),
		}
	}

	return models.FallbackResult{
		Action:        models.FallbackRestartFromBeginning,
		RestoredLives: models.MaxLives,
		PowerUps:      models.NewRewardBundle(),
		Message:       messages.Restart(),
	}
}
