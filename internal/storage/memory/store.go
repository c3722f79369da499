// Package memory provides an in-memory ProgressStore for tests and
// ephemeral play sessions.
package memory

import (
	"context"
	"sync"

	"dogdog/internal/models"
	"dogdog/internal/storage"
)

// Store keeps all records in process memory. Records are deep-copied on
// the way in and out so callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	progress map[models.PathType]*models.PathProgress
	session  *models.GameSession
	stats    *models.GlobalStats
}

// New returns an empty in-memory store
func New() *Store {
	return &Store{
		progress: make(map[models.PathType]*models.PathProgress),
	}
}

func (s *Store) SaveProgress(ctx context.Context, progress *models.PathProgress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[progress.Path] = progress.Clone()
	return nil
}

func (s *Store) LoadProgress(ctx context.Context, path models.PathType) (*models.PathProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress, ok := s.progress[path]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return progress.Clone(), nil
}

func (s *Store) LoadAllProgress(ctx context.Context) (map[models.PathType]*models.PathProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make(map[models.PathType]*models.PathProgress, len(s.progress))
	for path, progress := range s.progress {
		all[path] = progress.Clone()
	}
	return all, nil
}

func (s *Store) SaveSession(ctx context.Context, session *models.GameSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session.Clone()
	return nil
}

func (s *Store) LoadSession(ctx context.Context) (*models.GameSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, storage.ErrNotFound
	}
	return s.session.Clone(), nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

func (s *Store) SaveGlobalStats(ctx context.Context, stats *models.GlobalStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *stats
	s.stats = &copied
	return nil
}

func (s *Store) LoadGlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return &models.GlobalStats{}, nil
	}
	copied := *s.stats
	return &copied, nil
}

func (s *Store) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = make(map[models.PathType]*models.PathProgress)
	s.session = nil
	s.stats = nil
	return nil
}

func (s *Store) Close() error {
	return nil
}
