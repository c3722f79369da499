package models

import "time"

// GlobalStats aggregates play activity across every learning path
type GlobalStats struct {
	QuestionsAnswered  int
	CorrectAnswers     int
	SessionsPlayed     int
	PathsCompleted     int
	FallbacksTriggered int
	PlayTime           time.Duration
	LastPlayed         time.Time
}

// Accuracy returns the overall fraction of correct answers
func (g GlobalStats) Accuracy() float64 {
	if g.QuestionsAnswered == 0 {
		return 0
	}
	return float64(g.CorrectAnswers) / float64(g.QuestionsAnswered)
}
