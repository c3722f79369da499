// Package storage defines the persistence contract for game progress.
package storage

import (
	"context"
	"errors"

	"dogdog/internal/models"
)

var (
	// ErrNotFound is returned when no record exists for the requested key
	ErrNotFound = errors.New("storage: not found")

	// ErrCorrupt is returned when a stored record cannot be decoded.
	// Callers treat it like an absent record so a damaged save file never
	// blocks play.
	ErrCorrupt = errors.New("storage: corrupt record")
)

// IsMissing reports whether err means the record is absent or unusable
func IsMissing(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorrupt)
}

// ProgressStore persists path progress, the active session, and global
// play stats. Implementations must be safe for concurrent use.
type ProgressStore interface {
	// SaveProgress writes the progress record for its path
	SaveProgress(ctx context.Context, progress *models.PathProgress) error
	// LoadProgress returns the progress for a path, ErrNotFound when none
	// has been saved
	LoadProgress(ctx context.Context, path models.PathType) (*models.PathProgress, error)
	// LoadAllProgress returns every saved progress record keyed by path
	LoadAllProgress(ctx context.Context) (map[models.PathType]*models.PathProgress, error)

	// SaveSession writes the active session so an interrupted game can resume
	SaveSession(ctx context.Context, session *models.GameSession) error
	// LoadSession returns the saved session, ErrNotFound when none exists
	LoadSession(ctx context.Context) (*models.GameSession, error)
	// ClearSession removes the saved session. Clearing when none exists
	// is not an error.
	ClearSession(ctx context.Context) error

	// SaveGlobalStats writes the cross-path play stats
	SaveGlobalStats(ctx context.Context, stats *models.GlobalStats) error
	// LoadGlobalStats returns the saved stats, or zero-valued defaults
	// when none have been saved yet
	LoadGlobalStats(ctx context.Context) (*models.GlobalStats, error)

	// ClearAll wipes every stored record
	ClearAll(ctx context.Context) error

	Close() error
}

// AnswerRecorder is an optional capability for backends that archive
// per-answer history. Callers discover it with a type assertion, so
// backends without an archive simply omit it.
type AnswerRecorder interface {
	RecordAnswer(ctx context.Context, sessionID, questionID string, correct bool) error
}
