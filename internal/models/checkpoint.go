package models

import "fmt"

// Checkpoint identifies a milestone on a learning path. Checkpoints form a
// fixed ladder from smallest to largest breed and must be earned in order.
type Checkpoint string

const (
	CheckpointChihuahua      Checkpoint = "chihuahua"
	CheckpointPug            Checkpoint = "pug"
	CheckpointCockerSpaniel  Checkpoint = "cockerSpaniel"
	CheckpointGermanShepherd Checkpoint = "germanShepherd"
	CheckpointGreatDane      Checkpoint = "greatDane"
)

// checkpointLadder lists every checkpoint in the order it must be earned
var checkpointLadder = []Checkpoint{
	CheckpointChihuahua,
	CheckpointPug,
	CheckpointCockerSpaniel,
	CheckpointGermanShepherd,
	CheckpointGreatDane,
}

// checkpointThresholds maps each checkpoint to the cumulative number of
// correct answers required to earn it. Thresholds are strictly increasing
// along the ladder.
var checkpointThresholds = map[Checkpoint]int{
	CheckpointChihuahua:      10,
	CheckpointPug:            25,
	CheckpointCockerSpaniel:  50,
	CheckpointGermanShepherd: 75,
	CheckpointGreatDane:      100,
}

// CheckpointLadder returns a copy of the full checkpoint ladder in order
func CheckpointLadder() []Checkpoint {
	ladder := make([]Checkpoint, len(checkpointLadder))
	copy(ladder, checkpointLadder)
	return ladder
}

// FinalCheckpoint returns the last checkpoint on the ladder
func FinalCheckpoint() Checkpoint {
	return checkpointLadder[len(checkpointLadder)-1]
}

// Valid reports whether c is a known checkpoint
func (c Checkpoint) Valid() bool {
	_, ok := checkpointThresholds[c]
	return ok
}

// Threshold returns the correct-answer count required to earn c, or 0 for
// an unknown checkpoint
func (c Checkpoint) Threshold() int {
	return checkpointThresholds[c]
}

// Index returns the position of c on the ladder, or -1 for an unknown checkpoint
func (c Checkpoint) Index() int {
	for i, cp := range checkpointLadder {
		if cp == c {
			return i
		}
	}
	return -1
}

// Next returns the checkpoint after c on the ladder. The second return is
// false when c is the final checkpoint or unknown.
func (c Checkpoint) Next() (Checkpoint, bool) {
	idx := c.Index()
	if idx < 0 || idx+1 >= len(checkpointLadder) {
		return "", false
	}
	return checkpointLadder[idx+1], true
}

// DisplayName returns the kid-facing name for the checkpoint
func (c Checkpoint) DisplayName() string {
	switch c {
	case CheckpointChihuahua:
		return "Chihuahua"
	case CheckpointPug:
		return "Pug"
	case CheckpointCockerSpaniel:
		return "Cocker Spaniel"
	case CheckpointGermanShepherd:
		return "German Shepherd"
	case CheckpointGreatDane:
		return "Great Dane"
	default:
		return string(c)
	}
}

// ParseCheckpoint converts a stored checkpoint name to a Checkpoint
func ParseCheckpoint(s string) (Checkpoint, error) {
	c := Checkpoint(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown checkpoint: %q", s)
	}
	return c, nil
}
