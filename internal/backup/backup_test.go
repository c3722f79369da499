package backup

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dogdog/internal/models"
	"dogdog/internal/storage/memory"
)

func seedProgress(t *testing.T, store *memory.Store) *models.PathProgress {
	t.Helper()

	progress := models.NewPathProgress(models.PathDogBreeds)
	progress.CurrentCheckpoint = models.CheckpointPug
	progress.CompletedCheckpoints = []models.Checkpoint{
		models.CheckpointChihuahua,
		models.CheckpointPug,
	}
	progress.AnsweredQuestionIDs = []string{"q1", "q2", "q3"}
	progress.PowerUps[models.PowerUpHint] = 2
	progress.PowerUps[models.PowerUpSkip] = 1
	progress.CorrectAnswers = 27
	progress.TotalAnswers = 31
	progress.BestAccuracy = 0.9
	progress.TimeSpent = 42 * time.Minute
	progress.FallbackCount = 1
	progress.LastPlayed = time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

	if err := store.SaveProgress(context.Background(), progress); err != nil {
		t.Fatalf("seed progress: %v", err)
	}
	return progress
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := memory.New()
	want := seedProgress(t, source)

	stats := &models.GlobalStats{
		QuestionsAnswered:  31,
		CorrectAnswers:     27,
		SessionsPlayed:     4,
		PathsCompleted:     0,
		FallbacksTriggered: 1,
		PlayTime:           42 * time.Minute,
		LastPlayed:         time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC),
	}
	if err := source.SaveGlobalStats(ctx, stats); err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	var buf bytes.Buffer
	if err := New(source).ExportToWriter(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	target := memory.New()
	if err := New(target).ImportFromReader(ctx, &buf); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := target.LoadProgress(ctx, models.PathDogBreeds)
	if err != nil {
		t.Fatalf("load imported progress: %v", err)
	}
	if got.CurrentCheckpoint != want.CurrentCheckpoint {
		t.Errorf("CurrentCheckpoint = %v, want %v", got.CurrentCheckpoint, want.CurrentCheckpoint)
	}
	if len(got.CompletedCheckpoints) != 2 || got.CompletedCheckpoints[1] != models.CheckpointPug {
		t.Errorf("CompletedCheckpoints = %v, want %v", got.CompletedCheckpoints, want.CompletedCheckpoints)
	}
	if len(got.AnsweredQuestionIDs) != 3 || got.AnsweredQuestionIDs[2] != "q3" {
		t.Errorf("AnsweredQuestionIDs = %v, want %v", got.AnsweredQuestionIDs, want.AnsweredQuestionIDs)
	}
	if got.PowerUps[models.PowerUpHint] != 2 || got.PowerUps[models.PowerUpSkip] != 1 {
		t.Errorf("PowerUps = %v, want %v", got.PowerUps, want.PowerUps)
	}
	if got.CorrectAnswers != 27 || got.TotalAnswers != 31 {
		t.Errorf("answers = %d/%d, want 27/31", got.CorrectAnswers, got.TotalAnswers)
	}
	if got.BestAccuracy != 0.9 {
		t.Errorf("BestAccuracy = %v, want 0.9", got.BestAccuracy)
	}
	if got.TimeSpent != 42*time.Minute {
		t.Errorf("TimeSpent = %v, want 42m", got.TimeSpent)
	}
	if got.FallbackCount != 1 {
		t.Errorf("FallbackCount = %d, want 1", got.FallbackCount)
	}
	if !got.LastPlayed.Equal(want.LastPlayed) {
		t.Errorf("LastPlayed = %v, want %v", got.LastPlayed, want.LastPlayed)
	}

	gotStats, err := target.LoadGlobalStats(ctx)
	if err != nil {
		t.Fatalf("load imported stats: %v", err)
	}
	if gotStats.QuestionsAnswered != 31 || gotStats.SessionsPlayed != 4 {
		t.Errorf("stats = %+v, want %+v", gotStats, stats)
	}
	if gotStats.PlayTime != 42*time.Minute {
		t.Errorf("PlayTime = %v, want 42m", gotStats.PlayTime)
	}
}

func TestBackupRoundTripThroughFile(t *testing.T) {
	ctx := context.Background()
	source := memory.New()
	seedProgress(t, source)

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := New(source).Export(ctx, path); err != nil {
		t.Fatalf("export: %v", err)
	}

	target := memory.New()
	if err := New(target).Import(ctx, path); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := target.LoadProgress(ctx, models.PathDogBreeds)
	if err != nil {
		t.Fatalf("load imported progress: %v", err)
	}
	if got.CorrectAnswers != 27 {
		t.Errorf("CorrectAnswers = %d, want 27", got.CorrectAnswers)
	}
}

func TestBackupImportMergesByPath(t *testing.T) {
	ctx := context.Background()

	source := memory.New()
	seedProgress(t, source)
	var buf bytes.Buffer
	if err := New(source).ExportToWriter(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	// The target already has progress on another path.
	target := memory.New()
	existing := models.NewPathProgress(models.PathDogTraining)
	existing.CorrectAnswers = 5
	if err := target.SaveProgress(ctx, existing); err != nil {
		t.Fatalf("seed target: %v", err)
	}

	if err := New(target).ImportFromReader(ctx, &buf); err != nil {
		t.Fatalf("import: %v", err)
	}

	kept, err := target.LoadProgress(ctx, models.PathDogTraining)
	if err != nil {
		t.Fatalf("load untouched path: %v", err)
	}
	if kept.CorrectAnswers != 5 {
		t.Errorf("import touched an absent path: CorrectAnswers = %d, want 5", kept.CorrectAnswers)
	}

	imported, err := target.LoadProgress(ctx, models.PathDogBreeds)
	if err != nil {
		t.Fatalf("load imported path: %v", err)
	}
	if imported.CorrectAnswers != 27 {
		t.Errorf("imported CorrectAnswers = %d, want 27", imported.CorrectAnswers)
	}
}

func TestBackupImportRejectsBadBundles(t *testing.T) {
	tests := []struct {
		name   string
		bundle string
	}{
		{
			name:   "unsupported version",
			bundle: `{"version": 99, "progress": []}`,
		},
		{
			name:   "unknown path",
			bundle: `{"version": 1, "progress": [{"path": "catBreeds"}]}`,
		},
		{
			name:   "unknown checkpoint",
			bundle: `{"version": 1, "progress": [{"path": "dogBreeds", "currentCheckpoint": "poodle"}]}`,
		},
		{
			name:   "unknown power-up",
			bundle: `{"version": 1, "progress": [{"path": "dogBreeds", "powerUps": {"megaBark": 2}}]}`,
		},
		{
			name:   "negative power-up count",
			bundle: `{"version": 1, "progress": [{"path": "dogBreeds", "powerUps": {"hint": -1}}]}`,
		},
		{
			name:   "malformed json",
			bundle: `{"version": 1,`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(memory.New()).ImportFromReader(context.Background(), strings.NewReader(tt.bundle))
			if err == nil {
				t.Error("ImportFromReader() accepted a bad bundle")
			}
		})
	}
}
