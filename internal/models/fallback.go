package models

// FallbackAction identifies how play continues after a kid runs out of lives
type FallbackAction string

const (
	FallbackResetToCheckpoint    FallbackAction = "resetToCheckpoint"
	FallbackRestartFromBeginning FallbackAction = "restartFromBeginning"
	FallbackFailed               FallbackAction = "fallbackFailed"
)

// FallbackResult describes the recovery chosen after a game over.
// Checkpoint is set only when Action is FallbackResetToCheckpoint.
type FallbackResult struct {
	Action        FallbackAction
	Checkpoint    Checkpoint
	RestoredLives int
	PowerUps      RewardBundle
	Message       string
}
