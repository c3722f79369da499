package models

import "time"

// AnswerRecord is one archived answer from a past or running session
type AnswerRecord struct {
	SessionID  string
	QuestionID string
	Correct    bool
	AnsweredAt time.Time
}
