package models

import "time"

// PathProgress tracks everything a kid has earned on a single learning path
type PathProgress struct {
	Path                 PathType
	CurrentCheckpoint    Checkpoint // empty until the first checkpoint is earned
	CompletedCheckpoints []Checkpoint
	AnsweredQuestionIDs  []string
	PowerUps             RewardBundle
	CorrectAnswers       int
	TotalAnswers         int
	BestAccuracy         float64
	TimeSpent            time.Duration
	FallbackCount        int
	LastPlayed           time.Time
	Completed            bool
}

// NewPathProgress returns fresh progress for a path with an empty power-up inventory
func NewPathProgress(path PathType) *PathProgress {
	return &PathProgress{
		Path:     path,
		PowerUps: NewRewardBundle(),
	}
}

// Accuracy returns the lifetime fraction of correct answers on this path
func (p *PathProgress) Accuracy() float64 {
	if p.TotalAnswers == 0 {
		return 0
	}
	return float64(p.CorrectAnswers) / float64(p.TotalAnswers)
}

// HasAnswered reports whether the question has already been answered on this path
func (p *PathProgress) HasAnswered(questionID string) bool {
	for _, id := range p.AnsweredQuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// HasCompleted reports whether the checkpoint has been earned on this path
func (p *PathProgress) HasCompleted(c Checkpoint) bool {
	for _, cp := range p.CompletedCheckpoints {
		if cp == c {
			return true
		}
	}
	return false
}

// GrantPowerUps adds a reward bundle to the path's power-up inventory
func (p *PathProgress) GrantPowerUps(bundle RewardBundle) {
	if p.PowerUps == nil {
		p.PowerUps = NewRewardBundle()
	}
	p.PowerUps.Add(bundle)
}

// Clone returns an independent deep copy of the progress
func (p *PathProgress) Clone() *PathProgress {
	if p == nil {
		return nil
	}
	clone := *p
	clone.CompletedCheckpoints = make([]Checkpoint, len(p.CompletedCheckpoints))
	copy(clone.CompletedCheckpoints, p.CompletedCheckpoints)
	clone.AnsweredQuestionIDs = make([]string, len(p.AnsweredQuestionIDs))
	copy(clone.AnsweredQuestionIDs, p.AnsweredQuestionIDs)
	if p.PowerUps != nil {
		clone.PowerUps = p.PowerUps.Clone()
	}
	return &clone
}
