// Package messages picks kid-friendly lines shown at checkpoints and
// after a game over.
package messages

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Lines shown when a checkpoint is earned
var checkpointEarnedLines = []string{
	"Woof woof! You reached the %s checkpoint!",
	"Pawsome! The %s checkpoint is yours!",
	"Great job! You earned the %s badge!",
	"Amazing! Say hello to your new %s friend!",
	"You did it! The %s checkpoint is complete!",
}

// Lines shown when play resumes from the last earned checkpoint
var checkpointResetLines = []string{
	"Back to your %s checkpoint. You've got this!",
	"No worries! Your %s friend is waiting for you.",
	"Let's try again from the %s checkpoint!",
	"Your %s badge is safe. Keep going!",
}

// Lines shown when a path restarts from the beginning
var restartLines = []string{
	"Every big dog starts as a puppy. Let's go again!",
	"Fresh start! The puppies believe in you!",
	"Shake it off and try again. You can do it!",
	"New round, new chances. Let's play!",
}

// Lines shown when a whole path is finished
var pathCompleteLines = []string{
	"Incredible! You finished the whole %s path!",
	"Top dog! The %s path is complete!",
	"Wow! You know everything about %s now!",
}

// CheckpointEarned returns a celebration line for an earned checkpoint
func CheckpointEarned(checkpointName string) string {
	return fmt.Sprintf(pick(checkpointEarnedLines), checkpointName)
}

// CheckpointReset returns an encouragement line for resuming at a checkpoint
func CheckpointReset(checkpointName string) string {
	return fmt.Sprintf(pick(checkpointResetLines), checkpointName)
}

// Restart returns an encouragement line for starting a path over
func Restart() string {
	return pick(restartLines)
}

// PathComplete returns a celebration line for finishing a path
func PathComplete(pathName string) string {
	return fmt.Sprintf(pick(pathCompleteLines), pathName)
}

// pick returns a random element from a line list
func pick(lines []string) string {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(lines))))
	if err != nil {
		return lines[0]
	}
	return lines[num.Int64()]
}
