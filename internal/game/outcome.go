package game

import (
	"time"

	"dogdog/internal/models"
)

// ExtraTimeGrant is how much time an extraTime power-up adds to the UI
// layer's question timer
const ExtraTimeGrant = 30 * time.Second

// AnswerOutcome reports how one graded answer changed the session
type AnswerOutcome struct {
	QuestionID   string
	Correct      bool
	CorrectIndex int
	Points       int // 0 for a wrong answer
	Streak       int
	LivesLeft    int
	FunFact      string

	// Checkpoint is set when this answer crossed a checkpoint threshold
	Checkpoint    *CheckpointGrant
	PathCompleted bool

	// GameOver means no lives are left. The caller either spends a
	// second chance or ends the run with OnLivesExhausted.
	GameOver        bool
	CanSecondChance bool
}

// CheckpointGrant describes a checkpoint earned by an answer
type CheckpointGrant struct {
	Checkpoint       models.Checkpoint
	Rewards          models.RewardBundle
	IntervalAccuracy float64
	Message          string
}

// PowerUpEffect reports what spending a power-up changed
type PowerUpEffect struct {
	Type models.PowerUpType

	// RemovedChoices holds the answer indexes a fiftyFifty hides
	RemovedChoices []int
	// FunFact carries the hint text for a hint power-up
	FunFact string
	// ExtraTime is the timer extension granted by an extraTime power-up
	ExtraTime time.Duration
	// Skipped means the current question was passed without an answer
	Skipped bool
	// QuestionReopened means the current question may be answered again
	QuestionReopened bool

	LivesLeft int
	Remaining int // uses of this power-up left in the inventory
}
