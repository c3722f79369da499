package game

import (
	"context"
	"log"
	"sync"

	"dogdog/internal/models"
	"dogdog/internal/storage"
)

// saveState is one snapshot bound for the store. Nil fields are skipped;
// clearSession removes the stored session instead of writing one.
type saveState struct {
	progress     *models.PathProgress
	session      *models.GameSession
	stats        *models.GlobalStats
	clearSession bool
}

// saver mirrors engine state to the store from a single background
// goroutine. The queue holds one pending snapshot and scheduling a newer
// one replaces it, so a slow store only ever writes the freshest state
// and never falls behind the game.
type saver struct {
	store storage.ProgressStore

	mu     sync.Mutex
	queue  chan saveState
	closed bool
	wg     sync.WaitGroup
}

func newSaver(store storage.ProgressStore) *saver {
	s := &saver{
		store: store,
		queue: make(chan saveState, 1),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *saver) run() {
	defer s.wg.Done()
	for state := range s.queue {
		s.write(state)
	}
}

// schedule queues a snapshot, replacing any snapshot still waiting.
// Scheduling after close is a no-op.
func (s *saver) schedule(state saveState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.queue <- state:
			return
		default:
			// Drop the stale snapshot and try again. Only the worker
			// consumes, so the retry cannot spin.
			select {
			case <-s.queue:
			default:
			}
		}
	}
}

// write pushes one snapshot to the store. Failures are logged and play
// continues; the next snapshot carries the same state forward.
func (s *saver) write(state saveState) {
	ctx := context.Background()

	if state.progress != nil {
		if err := s.store.SaveProgress(ctx, state.progress); err != nil {
			log.Printf("Warning: failed to save progress for %s: %v", state.progress.Path, err)
		}
	}
	switch {
	case state.clearSession:
		if err := s.store.ClearSession(ctx); err != nil {
			log.Printf("Warning: failed to clear saved session: %v", err)
		}
	case state.session != nil:
		if err := s.store.SaveSession(ctx, state.session); err != nil {
			log.Printf("Warning: failed to save session: %v", err)
		}
	}
	if state.stats != nil {
		if err := s.store.SaveGlobalStats(ctx, state.stats); err != nil {
			log.Printf("Warning: failed to save stats: %v", err)
		}
	}
}

// close writes any pending snapshot, waits for the in-flight one to
// finish, and stops the worker
func (s *saver) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()
	s.wg.Wait()
}
