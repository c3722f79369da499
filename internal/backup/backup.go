// Package backup exports saved progress to a versioned JSON bundle and
// restores it again. Because it speaks to the storage interface rather
// than one backend, the same bundle moves saves between devices and
// between store backends.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"dogdog/internal/models"
	"dogdog/internal/storage"
)

// BundleVersion is the bundle format version this build reads and writes
const BundleVersion = 1

// Bundle is the complete save backup structure
type Bundle struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	Progress   []progressRecord `json:"progress"`
	Stats      *statsRecord     `json:"stats,omitempty"`
}

// progressRecord mirrors one path's progress in the bundle. Durations are
// stored as whole seconds so bundles stay readable and editable.
type progressRecord struct {
	Path                 string         `json:"path"`
	CurrentCheckpoint    string         `json:"currentCheckpoint,omitempty"`
	CompletedCheckpoints []string       `json:"completedCheckpoints"`
	AnsweredQuestionIDs  []string       `json:"answeredQuestionIds"`
	PowerUps             map[string]int `json:"powerUps"`
	CorrectAnswers       int            `json:"correctAnswers"`
	TotalAnswers         int            `json:"totalAnswers"`
	BestAccuracy         float64        `json:"bestAccuracy"`
	TimeSpentSeconds     int64          `json:"timeSpentSeconds"`
	FallbackCount        int            `json:"fallbackCount"`
	LastPlayed           time.Time      `json:"lastPlayed"`
	Completed            bool           `json:"completed"`
}

// statsRecord mirrors the global play stats in the bundle
type statsRecord struct {
	QuestionsAnswered  int       `json:"questionsAnswered"`
	CorrectAnswers     int       `json:"correctAnswers"`
	SessionsPlayed     int       `json:"sessionsPlayed"`
	PathsCompleted     int       `json:"pathsCompleted"`
	FallbacksTriggered int       `json:"fallbacksTriggered"`
	PlayTimeSeconds    int64     `json:"playTimeSeconds"`
	LastPlayed         time.Time `json:"lastPlayed"`
}

// Service handles save backup and restore operations
type Service struct {
	store storage.ProgressStore
}

// New creates a backup service over a progress store
func New(store storage.ProgressStore) *Service {
	return &Service{store: store}
}

// Export writes a complete backup of the saved progress to a file
func (s *Service) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	log.Printf("Save exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes the backup bundle to a writer
func (s *Service) ExportToWriter(ctx context.Context, w io.Writer) error {
	log.Println("Starting save export...")

	bundle := &Bundle{
		Version:    BundleVersion,
		ExportedAt: time.Now(),
	}

	all, err := s.store.LoadAllProgress(ctx)
	if err != nil {
		return fmt.Errorf("failed to export progress: %w", err)
	}
	// Walk the paths in display order so bundles diff cleanly.
	for _, path := range models.AllPathTypes() {
		progress, ok := all[path]
		if !ok {
			continue
		}
		bundle.Progress = append(bundle.Progress, toProgressRecord(progress))
	}

	stats, err := s.store.LoadGlobalStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to export stats: %w", err)
	}
	bundle.Stats = toStatsRecord(stats)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(bundle); err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}

	log.Printf("Exported: %d paths, %d questions answered",
		len(bundle.Progress), bundle.Stats.QuestionsAnswered)
	return nil
}

// Import restores saved progress from a backup file. Records merge into
// the store path by path; paths absent from the bundle are left alone.
func (s *Service) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores saved progress from a bundle reader
func (s *Service) ImportFromReader(ctx context.Context, r io.Reader) error {
	var bundle Bundle
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&bundle); err != nil {
		return fmt.Errorf("failed to decode bundle: %w", err)
	}
	if bundle.Version != BundleVersion {
		return fmt.Errorf("unsupported bundle version %d, this build reads version %d",
			bundle.Version, BundleVersion)
	}

	log.Printf("Bundle exported at: %s", bundle.ExportedAt.Format(time.RFC3339))
	log.Printf("Importing %d paths...", len(bundle.Progress))

	for _, record := range bundle.Progress {
		progress, err := fromProgressRecord(record)
		if err != nil {
			return fmt.Errorf("failed to import path %q: %w", record.Path, err)
		}
		if err := s.store.SaveProgress(ctx, progress); err != nil {
			return fmt.Errorf("failed to import path %q: %w", record.Path, err)
		}
	}

	if bundle.Stats != nil {
		if err := s.store.SaveGlobalStats(ctx, fromStatsRecord(bundle.Stats)); err != nil {
			return fmt.Errorf("failed to import stats: %w", err)
		}
	}

	log.Println("Save import completed successfully")
	return nil
}

func toProgressRecord(progress *models.PathProgress) progressRecord {
	record := progressRecord{
		Path:                 string(progress.Path),
		CurrentCheckpoint:    string(progress.CurrentCheckpoint),
		CompletedCheckpoints: make([]string, 0, len(progress.CompletedCheckpoints)),
		AnsweredQuestionIDs:  append([]string{}, progress.AnsweredQuestionIDs...),
		PowerUps:             make(map[string]int, len(progress.PowerUps)),
		CorrectAnswers:       progress.CorrectAnswers,
		TotalAnswers:         progress.TotalAnswers,
		BestAccuracy:         progress.BestAccuracy,
		TimeSpentSeconds:     int64(progress.TimeSpent / time.Second),
		FallbackCount:        progress.FallbackCount,
		LastPlayed:           progress.LastPlayed,
		Completed:            progress.Completed,
	}
	for _, c := range progress.CompletedCheckpoints {
		record.CompletedCheckpoints = append(record.CompletedCheckpoints, string(c))
	}
	for p, n := range progress.PowerUps {
		if n != 0 {
			record.PowerUps[string(p)] = n
		}
	}
	return record
}

func fromProgressRecord(record progressRecord) (*models.PathProgress, error) {
	path, err := models.ParsePathType(record.Path)
	if err != nil {
		return nil, err
	}

	progress := models.NewPathProgress(path)
	progress.CorrectAnswers = record.CorrectAnswers
	progress.TotalAnswers = record.TotalAnswers
	progress.BestAccuracy = record.BestAccuracy
	progress.TimeSpent = time.Duration(record.TimeSpentSeconds) * time.Second
	progress.FallbackCount = record.FallbackCount
	progress.LastPlayed = record.LastPlayed
	progress.Completed = record.Completed
	progress.AnsweredQuestionIDs = append([]string{}, record.AnsweredQuestionIDs...)

	if record.CurrentCheckpoint != "" {
		checkpoint, err := models.ParseCheckpoint(record.CurrentCheckpoint)
		if err != nil {
			return nil, err
		}
		progress.CurrentCheckpoint = checkpoint
	}
	for _, name := range record.CompletedCheckpoints {
		checkpoint, err := models.ParseCheckpoint(name)
		if err != nil {
			return nil, err
		}
		progress.CompletedCheckpoints = append(progress.CompletedCheckpoints, checkpoint)
	}
	for name, n := range record.PowerUps {
		powerUp, err := models.ParsePowerUpType(name)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative %s count: %d", name, n)
		}
		progress.PowerUps[powerUp] = n
	}
	return progress, nil
}

func toStatsRecord(stats *models.GlobalStats) *statsRecord {
	return &statsRecord{
		QuestionsAnswered:  stats.QuestionsAnswered,
		CorrectAnswers:     stats.CorrectAnswers,
		SessionsPlayed:     stats.SessionsPlayed,
		PathsCompleted:     stats.PathsCompleted,
		FallbacksTriggered: stats.FallbacksTriggered,
		PlayTimeSeconds:    int64(stats.PlayTime / time.Second),
		LastPlayed:         stats.LastPlayed,
	}
}

func fromStatsRecord(record *statsRecord) *models.GlobalStats {
	return &models.GlobalStats{
		QuestionsAnswered:  record.QuestionsAnswered,
		CorrectAnswers:     record.CorrectAnswers,
		SessionsPlayed:     record.SessionsPlayed,
		PathsCompleted:     record.PathsCompleted,
		FallbacksTriggered: record.FallbacksTriggered,
		PlayTime:           time.Duration(record.PlayTimeSeconds) * time.Second,
		LastPlayed:         record.LastPlayed,
	}
}
