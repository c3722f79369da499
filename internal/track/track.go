// Package track manages checkpoint completion along a learning path.
package track

import "dogdog/internal/models"

// Track walks the checkpoint ladder for one learning path. Completions can
// be recorded in any order, but the current checkpoint only advances along
// the unbroken prefix of completed checkpoints, so the reset point after a
// game over is always a checkpoint that was genuinely earned in order.
type Track struct {
	path      models.PathType
	completed map[models.Checkpoint]bool
	order     []models.Checkpoint // completion order, kept for persistence
	current   models.Checkpoint   // empty until the first checkpoint is earned
}

// New returns an empty track for a path
func New(path models.PathType) *Track {
	return &Track{
		path:      path,
		completed: make(map[models.Checkpoint]bool),
	}
}

// FromProgress rebuilds a track from persisted path progress. Unknown
// checkpoint names in the stored set are dropped.
func FromProgress(progress *models.PathProgress) *Track {
	t := New(progress.Path)
	for _, c := range progress.CompletedCheckpoints {
		t.Complete(c)
	}
	return t
}

// Path returns the learning path this track belongs to
func (t *Track) Path() models.PathType {
	return t.path
}

// Complete records a checkpoint as earned and reports whether the current
// checkpoint advanced. Completing an unknown or already-earned checkpoint
// changes nothing.
func (t *Track) Complete(c models.Checkpoint) bool {
	if !c.Valid() || t.completed[c] {
		return false
	}
	t.completed[c] = true
	t.order = append(t.order, c)
	return t.advance()
}

// advance moves the cursor to the end of the unbroken completed prefix of
// the ladder and reports whether it moved
func (t *Track) advance() bool {
	prev := t.current
	var cursor models.Checkpoint
	for _, c := range models.CheckpointLadder() {
		if !t.completed[c] {
			break
		}
		cursor = c
	}
	t.current = cursor
	return cursor != prev
}

// Current returns the checkpoint the path resets to after a game over.
// ok is false while no checkpoint has been earned in order.
func (t *Track) Current() (models.Checkpoint, bool) {
	return t.current, t.current != ""
}

// HasCompleted reports whether a checkpoint has been earned
func (t *Track) HasCompleted(c models.Checkpoint) bool {
	return t.completed[c]
}

// Completed returns the earned checkpoints in completion order
func (t *Track) Completed() []models.Checkpoint {
	order := make([]models.Checkpoint, len(t.order))
	copy(order, t.order)
	return order
}

// NextToEarn returns the first checkpoint on the ladder not yet completed.
// ok is false once every checkpoint has been earned.
func (t *Track) NextToEarn() (models.Checkpoint, bool) {
	for _, c := range models.CheckpointLadder() {
		if !t.completed[c] {
			return c, true
		}
	}
	return "", false
}

// Next returns the first checkpoint whose threshold exceeds the given
// correct-answer count. ok is false once every threshold has been passed.
func (t *Track) Next(correctAnswers int) (models.Checkpoint, bool) {
	for _, c := range models.CheckpointLadder() {
		if c.Threshold() > correctAnswers {
			return c, true
		}
	}
	return "", false
}

// UntilNext returns how many more correct answers reach the next
// checkpoint threshold. ok is false once every threshold has been passed.
func (t *Track) UntilNext(correctAnswers int) (int, bool) {
	next, ok := t.Next(correctAnswers)
	if !ok {
		return 0, false
	}
	return next.Threshold() - correctAnswers, true
}

// IsComplete reports whether every checkpoint has been earned in order
func (t *Track) IsComplete() bool {
	return t.current == models.FinalCheckpoint()
}

// ApplyTo writes the track state back onto persisted path progress
func (t *Track) ApplyTo(progress *models.PathProgress) {
	progress.CurrentCheckpoint = t.current
	progress.CompletedCheckpoints = t.Completed()
	progress.Completed = t.IsComplete()
}
