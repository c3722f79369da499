package fallback

import (
	"testing"

	"dogdog/internal/models"
)

func TestHandleGameOverResetsToEarnedCheckpoint(t *testing.T) {
	progress := models.NewPathProgress(models.PathDogBreeds)
	progress.CompletedCheckpoints = []models.Checkpoint{models.CheckpointChihuahua}
	progress.CorrectAnswers = 17

	result := New().HandleGameOver(progress)

	if result.Action != models.FallbackResetToCheckpoint {
		t.Fatalf("Action = %v, want %v", result.Action, models.FallbackResetToCheckpoint)
	}
	if result.Checkpoint != models.CheckpointChihuahua {
		t.Errorf("Checkpoint = %v, want %v", result.Checkpoint, models.CheckpointChihuahua)
	}
	if result.RestoredLives != 3 {
		t.Errorf("RestoredLives = %d, want 3", result.RestoredLives)
	}
	for _, p := range models.AllPowerUpTypes() {
		if result.PowerUps[p] < 1 {
			t.Errorf("consolation bundle grants %d of %v, want at least 1", result.PowerUps[p], p)
		}
	}
	if result.Message == "" {
		t.Error("reset result has no message")
	}
}

func TestHandleGameOverResetsToHighestOrderedCheckpoint(t *testing.T) {
	progress := models.NewPathProgress(models.PathDogHealth)
	progress.CompletedCheckpoints = []models.Checkpoint{
		models.CheckpointChihuahua,
		models.CheckpointPug,
		models.CheckpointCockerSpaniel,
	}

	result := New().HandleGameOver(progress)

	if result.Action != models.FallbackResetToCheckpoint {
		t.Fatalf("Action = %v, want %v", result.Action, models.FallbackResetToCheckpoint)
	}
	if result.Checkpoint != models.CheckpointCockerSpaniel {
		t.Errorf("Checkpoint = %v, want %v", result.Checkpoint, models.CheckpointCockerSpaniel)
	}
}

func TestHandleGameOverRestartsWithoutCheckpoints(t *testing.T) {
	progress := models.NewPathProgress(models.PathDogTraining)
	progress.CorrectAnswers = 6

	result := New().HandleGameOver(progress)

	if result.Action != models.FallbackRestartFromBeginning {
		t.Fatalf("Action = %v, want %v", result.Action, models.FallbackRestartFromBeginning)
	}
	if result.Checkpoint != "" {
		t.Errorf("restart result names checkpoint %v, want none", result.Checkpoint)
	}
	if result.RestoredLives != 3 {
		t.Errorf("RestoredLives = %d, want 3", result.RestoredLives)
	}
	for _, p := range models.AllPowerUpTypes() {
		if got, ok := result.PowerUps[p]; !ok || got != 0 {
			t.Errorf("restart bundle grants %d of %v, want an explicit 0", got, p)
		}
	}
	if result.Message == "" {
		t.Error("restart result has no message")
	}
}

func TestHandleGameOverIgnoresOutOfOrderCompletions(t *testing.T) {
	// A gap at the bottom of the ladder means nothing was earned in order,
	// so the path restarts rather than resetting to an unearned checkpoint.
	progress := models.NewPathProgress(models.PathDogBehavior)
	progress.CompletedCheckpoints = []models.Checkpoint{models.CheckpointCockerSpaniel}

	result := New().HandleGameOver(progress)

	if result.Action != models.FallbackRestartFromBeginning {
		t.Errorf("Action = %v, want %v", result.Action, models.FallbackRestartFromBeginning)
	}
}

func TestHandleGameOverFailsOnUnusableProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress *models.PathProgress
	}{
		{"nil progress", nil},
		{"invalid path", models.NewPathProgress(models.PathType("catBreeds"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().HandleGameOver(tt.progress)
			if result.Action != models.FallbackFailed {
				t.Errorf("Action = %v, want %v", result.Action, models.FallbackFailed)
			}
			if result.RestoredLives != 0 {
				t.Errorf("failed fallback restored %d lives, want 0", result.RestoredLives)
			}
		})
	}
}
