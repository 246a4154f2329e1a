package memory

import (
	"fmt"
	"math"
	"time"
)

// Model evolves memory states. It is stateless apart from its params and
// safe for concurrent use.
type Model struct {
	params Params
}

// NewModel creates a Model after validating the params.
func NewModel(params Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("params.Validate() > %w", err)
	}
	return &Model{params: params}, nil
}

// Params returns the model's tuning.
func (m *Model) Params() Params {
	return m.params
}

// Update applies one graded answer to the prior state and returns the new
// state together with the scheduled interval until the next due time.
// A nil prior means first exposure. Update performs no I/O and never
// mutates prior.
func (m *Model) Update(prior *MemoryState, q Quality, now time.Time) (MemoryState, time.Duration, error) {
	if !q.Valid() {
		return MemoryState{}, 0, fmt.Errorf("%w: %d", ErrInvalidRating, q)
	}

	var next MemoryState
	if prior == nil {
		next = m.initialState(q)
	} else {
		next = *prior
		if q < m.params.PassThreshold {
			m.applyLapse(&next, q)
		} else {
			m.applyRecall(&next, q, now)
		}
	}

	interval := m.scheduleInterval(&next, q)
	next.Due = now.Add(interval)
	lastReview := now
	next.LastReview = &lastReview

	return next, interval, nil
}

// Retrievability returns the estimated recall probability at the given
// time, or 0 before the first graded answer.
func (m *Model) Retrievability(state MemoryState, now time.Time) float64 {
	if state.LastReview == nil || state.Stability <= 0 {
		return 0
	}
	elapsed := elapsedDays(*state.LastReview, now)
	return math.Pow(1+m.params.forgetFactor()*elapsed/state.Stability, m.params.RetentionDecay)
}

// IsStruggling is the single derived "hard" predicate. The hard-only
// selector mirrors these thresholds in SQL; both read the same Params so
// the two paths cannot drift.
func (m *Model) IsStruggling(state MemoryState) bool {
	if state.State == StateNew {
		return false
	}
	if state.IncorrectStreak >= m.params.StrugglingIncorrectStreak {
		return true
	}
	return state.Lapses >= m.params.StrugglingLapses && state.Stability < m.params.StrugglingStabilityBelow
}

// Points returns the session score delta for an answer of the given quality.
func (m *Model) Points(q Quality) int {
	if q < m.params.PassThreshold {
		return 0
	}
	return int(q) * m.params.PointsPerQuality
}

func (m *Model) initialState(q Quality) MemoryState {
	next := MemoryState{
		Stability:  m.params.InitialStability[q],
		Difficulty: m.clampDifficulty(m.params.InitialDifficulty - m.params.DifficultySlope*float64(q-m.params.PassThreshold)),
		State:      StateLearning,
	}
	if q < m.params.PassThreshold {
		next.Lapses = 1
		next.IncorrectStreak = 1
		next.TimesIncorrect = 1
	} else {
		next.Repetitions = 1
		next.Streak = 1
		next.TimesCorrect = 1
	}
	return next
}

func (m *Model) applyRecall(next *MemoryState, q Quality, now time.Time) {
	elapsed := 0.0
	if next.LastReview != nil {
		elapsed = elapsedDays(*next.LastReview, now)
	}

	if elapsed < 1 {
		// Same-day review: the forgetting curve carries no signal yet,
		// grow stability by a small quality-scaled factor instead.
		inc := math.Exp(m.params.ShortTermWeight * float64(q-m.params.PassThreshold+1))
		next.Stability = math.Max(next.Stability, next.Stability*inc)
	} else {
		r := m.Retrievability(*next, now)
		next.Stability *= 1 + math.Exp(m.params.GrowthRate)*
			(m.params.MaxDifficulty+1-next.Difficulty)*
			math.Pow(next.Stability, -m.params.StabilityDecay)*
			(math.Exp((1-r)*m.params.RetrievabilityWeight)-1)*
			m.qualityScale(q)
	}
	next.Stability = math.Max(next.Stability, m.params.StabilityFloor)
	next.Difficulty = m.nextDifficulty(next.Difficulty, q)

	next.Repetitions++
	next.Streak++
	next.IncorrectStreak = 0
	next.TimesCorrect++

	switch next.State {
	case StateNew, StateLearning:
		if next.Repetitions >= m.params.GraduationReps {
			next.State = StateReview
		} else {
			next.State = StateLearning
		}
	case StateRelearning:
		next.State = StateReview
	}
}

func (m *Model) applyLapse(next *MemoryState, q Quality) {
	factor := m.params.LapseFactor
	if next.Streak >= m.params.ProtectedStreak {
		// Long streaks indicate solid prior knowledge; shrink less
		// aggressively.
		factor = m.params.LapseFactorProtected
	}
	next.Stability = math.Max(next.Stability*factor, m.params.StabilityFloor)
	next.Difficulty = m.nextDifficulty(next.Difficulty, q)

	next.Lapses++
	next.IncorrectStreak++
	next.Streak = 0
	next.TimesIncorrect++

	switch next.State {
	case StateReview:
		next.State = StateRelearning
	case StateNew:
		next.State = StateLearning
	}
}

// nextDifficulty adjusts difficulty toward its equilibrium: lower quality
// pushes it up, higher quality down, with mild mean reversion.
func (m *Model) nextDifficulty(difficulty float64, q Quality) float64 {
	delta := m.params.DifficultyDelta * float64(m.params.PassThreshold-q)
	adjusted := difficulty + (m.params.MaxDifficulty-difficulty)*delta/(m.params.MaxDifficulty-m.params.MinDifficulty)
	reverted := m.params.MeanReversion*m.params.InitialDifficulty + (1-m.params.MeanReversion)*adjusted
	return m.clampDifficulty(reverted)
}

func (m *Model) qualityScale(q Quality) float64 {
	switch {
	case q == m.params.PassThreshold:
		return m.params.HardPenalty
	case q == MaxQuality:
		return m.params.EasyBonus
	default:
		return 1.0
	}
}

// scheduleInterval computes the time until the next due date for the
// already-updated state. Monotonically increasing in stability and bounded
// by MaxIntervalDays.
func (m *Model) scheduleInterval(next *MemoryState, q Quality) time.Duration {
	if q < m.params.PassThreshold {
		return m.params.RelearningStep
	}

	if next.State == StateLearning {
		step := next.Repetitions - 1
		if step >= len(m.params.LearningSteps) {
			step = len(m.params.LearningSteps) - 1
		}
		return m.params.LearningSteps[step]
	}

	return m.ReviewInterval(next.Stability)
}

// ReviewInterval converts a stability into the review interval that hits
// the desired retention, clamped to [1, MaxIntervalDays] days. Used when
// scheduling a passed review and when regenerating due dates after a
// parameter change.
func (m *Model) ReviewInterval(stability float64) time.Duration {
	days := stability / m.params.forgetFactor() *
		(math.Pow(m.params.DesiredRetention, 1.0/m.params.RetentionDecay) - 1)
	rounded := int(math.Round(days))
	if rounded < 1 {
		rounded = 1
	}
	if rounded > m.params.MaxIntervalDays {
		rounded = m.params.MaxIntervalDays
	}
	return time.Duration(rounded) * 24 * time.Hour
}

func (m *Model) clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, m.params.MinDifficulty), m.params.MaxDifficulty)
}

func elapsedDays(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24.0
}
