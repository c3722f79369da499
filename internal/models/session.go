package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxLives is the number of lives a session starts with. Lives stay within
// 0..MaxLives at all times.
const MaxLives = 3

// recentResultLimit caps how many recent answer results a session remembers
// for difficulty adjustment
const recentResultLimit = 10

// GameSession represents a single play attempt on a learning path
type GameSession struct {
	ID                string
	Path              PathType
	Lives             int
	CurrentQuestionID string
	AnsweredIDs       []string // question ids answered during this attempt
	CorrectCount      int
	IntervalCorrect   int // correct answers since the last checkpoint
	IntervalTotal     int
	Streak            int
	MistakeStreak     int
	RecentResults     []bool // newest last, bounded by recentResultLimit
	PowerUpsUsed      map[PowerUpType]int
	SecondChanceArmed bool
	Paused            bool
	StartedAt         time.Time
	TimeElapsed       time.Duration
}

// NewGameSession starts a fresh attempt on the given path with full lives
func NewGameSession(path PathType) *GameSession {
	return &GameSession{
		ID:           uuid.New().String(),
		Path:         path,
		Lives:        MaxLives,
		PowerUpsUsed: make(map[PowerUpType]int),
		StartedAt:    time.Now(),
	}
}

// RecordResult updates the attempt counters and streaks for one answer
func (s *GameSession) RecordResult(questionID string, correct bool) {
	s.AnsweredIDs = append(s.AnsweredIDs, questionID)
	s.IntervalTotal++
	if correct {
		s.CorrectCount++
		s.IntervalCorrect++
		s.Streak++
		s.MistakeStreak = 0
	} else {
		s.Streak = 0
		s.MistakeStreak++
	}
	s.RecentResults = append(s.RecentResults, correct)
	if len(s.RecentResults) > recentResultLimit {
		s.RecentResults = s.RecentResults[len(s.RecentResults)-recentResultLimit:]
	}
}

// ResetInterval clears the per-checkpoint accuracy counters
func (s *GameSession) ResetInterval() {
	s.IntervalCorrect = 0
	s.IntervalTotal = 0
}

// IntervalAccuracy returns the fraction of correct answers since the last checkpoint
func (s *GameSession) IntervalAccuracy() float64 {
	if s.IntervalTotal == 0 {
		return 0
	}
	return float64(s.IntervalCorrect) / float64(s.IntervalTotal)
}

// RecentMistakes counts wrong answers in the remembered result window
func (s *GameSession) RecentMistakes() int {
	count := 0
	for _, correct := range s.RecentResults {
		if !correct {
			count++
		}
	}
	return count
}

// HasAnswered reports whether the question was answered during this attempt
func (s *GameSession) HasAnswered(questionID string) bool {
	for _, id := range s.AnsweredIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// LoseLife removes one life and returns the remaining count, never below zero
func (s *GameSession) LoseLife() int {
	if s.Lives > 0 {
		s.Lives--
	}
	return s.Lives
}

// RestoreLives refills the session to full lives
func (s *GameSession) RestoreLives() {
	s.Lives = MaxLives
}

// Clone returns an independent deep copy of the session
func (s *GameSession) Clone() *GameSession {
	if s == nil {
		return nil
	}
	clone := *s
	clone.AnsweredIDs = make([]string, len(s.AnsweredIDs))
	copy(clone.AnsweredIDs, s.AnsweredIDs)
	clone.RecentResults = make([]bool, len(s.RecentResults))
	copy(clone.RecentResults, s.RecentResults)
	clone.PowerUpsUsed = make(map[PowerUpType]int, len(s.PowerUpsUsed))
	for p, n := range s.PowerUpsUsed {
		clone.PowerUpsUsed[p] = n
	}
	return &clone
}
