// Package memory implements the per-item memory model: a pure calculation
// that evolves stability, difficulty and scheduling state from graded
// review outcomes. Persistence is the caller's responsibility.
package memory

import "time"

// State is the coarse lifecycle stage of an item's memory.
type State string

const (
	StateNew        State = "new"
	StateLearning   State = "learning"
	StateReview     State = "review"
	StateRelearning State = "relearning"
)

// MemoryState is the memory model for one (user, item, mode).
// It is mutated exclusively by Update.
type MemoryState struct {
	Stability       float64    `db:"stability" yaml:"stability"`
	Difficulty      float64    `db:"difficulty" yaml:"difficulty"`
	State           State      `db:"state" yaml:"state"`
	Due             time.Time  `db:"due" yaml:"due"`
	LastReview      *time.Time `db:"last_review" yaml:"last_review,omitempty"`
	Repetitions     int        `db:"repetitions" yaml:"repetitions"`
	Lapses          int        `db:"lapses" yaml:"lapses"`
	Streak          int        `db:"streak" yaml:"streak"`
	IncorrectStreak int        `db:"incorrect_streak" yaml:"incorrect_streak"`
	TimesCorrect    int        `db:"times_correct" yaml:"times_correct"`
	TimesIncorrect  int        `db:"times_incorrect" yaml:"times_incorrect"`
}
