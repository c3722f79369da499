package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.etcd.io/bbolt"

	"dogdog/internal/models"
	"dogdog/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dogdog.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreProgressRoundTrip(t *testing.T) {
	store := openTestStore(t)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	progress := &models.PathProgress{
		Path:                 models.PathDogBreeds,
		CurrentCheckpoint:    models.CheckpointPug,
		CompletedCheckpoints: []models.Checkpoint{models.CheckpointChihuahua, models.CheckpointPug},
		AnsweredQuestionIDs:  []string{"breeds-easy-1", "breeds-easy-2"},
		PowerUps:             models.RewardBundle{models.PowerUpHint: 2},
		CorrectAnswers:       25,
		TotalAnswers:         30,
		BestAccuracy:         0.9,
		TimeSpent:            45 * time.Minute,
		LastPlayed:           now,
	}

	if err := store.SaveProgress(context.Background(), progress); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	loaded, err := store.LoadProgress(context.Background(), models.PathDogBreeds)
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if loaded.CurrentCheckpoint != models.CheckpointPug {
		t.Errorf("CurrentCheckpoint = %q, want %q", loaded.CurrentCheckpoint, models.CheckpointPug)
	}
	if len(loaded.CompletedCheckpoints) != 2 {
		t.Errorf("CompletedCheckpoints length = %d, want 2", len(loaded.CompletedCheckpoints))
	}
	if loaded.PowerUps[models.PowerUpHint] != 2 {
		t.Errorf("hint count = %d, want 2", loaded.PowerUps[models.PowerUpHint])
	}
	if loaded.CorrectAnswers != 25 || loaded.TotalAnswers != 30 {
		t.Errorf("answers = %d/%d, want 25/30", loaded.CorrectAnswers, loaded.TotalAnswers)
	}
	if !loaded.LastPlayed.Equal(now) {
		t.Errorf("LastPlayed = %v, want %v", loaded.LastPlayed, now)
	}

	all, err := store.LoadAllProgress(context.Background())
	if err != nil {
		t.Fatalf("load all progress: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("LoadAllProgress returned %d records, want 1", len(all))
	}
	if all[models.PathDogBreeds].CorrectAnswers != 25 {
		t.Errorf("all[dogBreeds].CorrectAnswers = %d, want 25", all[models.PathDogBreeds].CorrectAnswers)
	}
}

func TestStoreLoadProgressNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.LoadProgress(context.Background(), models.PathDogHealth)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if !storage.IsMissing(err) {
		t.Errorf("IsMissing(%v) = false, want true", err)
	}
}

func TestStoreSaveProgressInvalid(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveProgress(context.Background(), nil); err == nil {
		t.Error("expected error for nil progress")
	}
	bad := models.NewPathProgress(models.PathType("catBreeds"))
	if err := store.SaveProgress(context.Background(), bad); err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStoreSessionRoundTrip(t *testing.T) {
	store := openTestStore(t)

	session := models.NewGameSession(models.PathDogTraining)
	session.RecordResult("training-easy-1", true)
	session.RecordResult("training-easy-2", false)
	session.PowerUpsUsed[models.PowerUpFiftyFifty] = 1

	if err := store.SaveSession(context.Background(), session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, err := store.LoadSession(context.Background())
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if loaded.ID != session.ID {
		t.Errorf("ID = %q, want %q", loaded.ID, session.ID)
	}
	if loaded.Path != models.PathDogTraining {
		t.Errorf("Path = %q, want %q", loaded.Path, models.PathDogTraining)
	}
	if loaded.CorrectCount != 1 || len(loaded.AnsweredIDs) != 2 {
		t.Errorf("counters = %d correct of %d answered, want 1 of 2", loaded.CorrectCount, len(loaded.AnsweredIDs))
	}
	if loaded.PowerUpsUsed[models.PowerUpFiftyFifty] != 1 {
		t.Errorf("fiftyFifty uses = %d, want 1", loaded.PowerUpsUsed[models.PowerUpFiftyFifty])
	}

	if err := store.ClearSession(context.Background()); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	if _, err := store.LoadSession(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found after clear, got %v", err)
	}

	// Clearing again is allowed.
	if err := store.ClearSession(context.Background()); err != nil {
		t.Errorf("clear empty session: %v", err)
	}
}

func TestStoreGlobalStatsDefaults(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.LoadGlobalStats(context.Background())
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if stats.QuestionsAnswered != 0 || stats.SessionsPlayed != 0 {
		t.Errorf("fresh stats = %+v, want zero values", stats)
	}

	stats.QuestionsAnswered = 40
	stats.CorrectAnswers = 32
	stats.SessionsPlayed = 3
	if err := store.SaveGlobalStats(context.Background(), stats); err != nil {
		t.Fatalf("save stats: %v", err)
	}

	loaded, err := store.LoadGlobalStats(context.Background())
	if err != nil {
		t.Fatalf("reload stats: %v", err)
	}
	if loaded.QuestionsAnswered != 40 || loaded.CorrectAnswers != 32 {
		t.Errorf("reloaded stats = %d/%d, want 40/32", loaded.CorrectAnswers, loaded.QuestionsAnswered)
	}
}

func TestStoreCorruptRecords(t *testing.T) {
	store := openTestStore(t)

	good := models.NewPathProgress(models.PathDogBehavior)
	good.CorrectAnswers = 5
	good.TotalAnswers = 6
	if err := store.SaveProgress(context.Background(), good); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	err := store.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(progressBucket)).Put([]byte(models.PathDogHealth), []byte("{not json")); err != nil {
			return err
		}
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(sessionKey), []byte("garbage"))
	})
	if err != nil {
		t.Fatalf("plant corrupt records: %v", err)
	}

	if _, err := store.LoadProgress(context.Background(), models.PathDogHealth); !errors.Is(err, storage.ErrCorrupt) {
		t.Errorf("LoadProgress corrupt = %v, want ErrCorrupt", err)
	}
	if !storage.IsMissing(storage.ErrCorrupt) {
		t.Error("IsMissing(ErrCorrupt) = false, want true")
	}
	if _, err := store.LoadSession(context.Background()); !errors.Is(err, storage.ErrCorrupt) {
		t.Errorf("LoadSession corrupt = %v, want ErrCorrupt", err)
	}

	// The damaged record must not hide the healthy one.
	all, err := store.LoadAllProgress(context.Background())
	if err != nil {
		t.Fatalf("load all progress: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("LoadAllProgress returned %d records, want 1", len(all))
	}
	if all[models.PathDogBehavior].CorrectAnswers != 5 {
		t.Errorf("surviving record CorrectAnswers = %d, want 5", all[models.PathDogBehavior].CorrectAnswers)
	}
}

func TestStoreReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dogdog.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	progress := models.NewPathProgress(models.PathDogBreeds)
	progress.CorrectAnswers = 12
	progress.TotalAnswers = 15
	if err := store.SaveProgress(context.Background(), progress); err != nil {
		t.Fatalf("save progress: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.LoadProgress(context.Background(), models.PathDogBreeds)
	if err != nil {
		t.Fatalf("load progress after reopen: %v", err)
	}
	if loaded.CorrectAnswers != 12 {
		t.Errorf("CorrectAnswers = %d, want 12", loaded.CorrectAnswers)
	}
}

func TestStoreClearAll(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveProgress(context.Background(), models.NewPathProgress(models.PathDogBreeds)); err != nil {
		t.Fatalf("save progress: %v", err)
	}
	if err := store.SaveSession(context.Background(), models.NewGameSession(models.PathDogBreeds)); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.SaveGlobalStats(context.Background(), &models.GlobalStats{SessionsPlayed: 9}); err != nil {
		t.Fatalf("save stats: %v", err)
	}

	if err := store.ClearAll(context.Background()); err != nil {
		t.Fatalf("clear all: %v", err)
	}

	all, err := store.LoadAllProgress(context.Background())
	if err != nil {
		t.Fatalf("load all progress: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("progress records after reset = %d, want 0", len(all))
	}
	if _, err := store.LoadSession(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("session after reset = %v, want ErrNotFound", err)
	}
	stats, err := store.LoadGlobalStats(context.Background())
	if err != nil {
		t.Fatalf("load stats after reset: %v", err)
	}
	if stats.SessionsPlayed != 0 {
		t.Errorf("SessionsPlayed after reset = %d, want 0", stats.SessionsPlayed)
	}
}

func TestStoreLegacyMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dogdog.db")

	// Build a pre-split save file by hand.
	raw, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	oldProgress := models.NewPathProgress(models.PathDogTraining)
	oldProgress.CorrectAnswers = 11
	oldProgress.TotalAnswers = 14
	oldStats := &models.GlobalStats{QuestionsAnswered: 14, CorrectAnswers: 11}
	err = raw.Update(func(tx *bbolt.Tx) error {
		legacy, err := tx.CreateBucket([]byte(legacySaveBucket))
		if err != nil {
			return err
		}
		progressPayload, err := json.Marshal(oldProgress)
		if err != nil {
			return err
		}
		if err := legacy.Put([]byte("progress:dogTraining"), progressPayload); err != nil {
			return err
		}
		statsPayload, err := json.Marshal(oldStats)
		if err != nil {
			return err
		}
		if err := legacy.Put([]byte("stats"), statsPayload); err != nil {
			return err
		}
		return legacy.Put([]byte("unknown"), []byte("ignored"))
	})
	if err != nil {
		t.Fatalf("seed legacy db: %v", err)
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("close raw db: %v", err)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store over legacy file: %v", err)
	}
	defer store.Close()

	loaded, err := store.LoadProgress(context.Background(), models.PathDogTraining)
	if err != nil {
		t.Fatalf("load migrated progress: %v", err)
	}
	if loaded.CorrectAnswers != 11 {
		t.Errorf("migrated CorrectAnswers = %d, want 11", loaded.CorrectAnswers)
	}

	stats, err := store.LoadGlobalStats(context.Background())
	if err != nil {
		t.Fatalf("load migrated stats: %v", err)
	}
	if stats.QuestionsAnswered != 14 {
		t.Errorf("migrated QuestionsAnswered = %d, want 14", stats.QuestionsAnswered)
	}

	err = store.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(legacySaveBucket)) != nil {
			t.Error("legacy save bucket still present after migration")
		}
		version := tx.Bucket([]byte(metaBucket)).Get([]byte(schemaVersionKey))
		if string(version) != "1" {
			t.Errorf("schema version = %q, want %q", version, "1")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("inspect migrated db: %v", err)
	}
}
