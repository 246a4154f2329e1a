package memory

import (
	"fmt"
	"math"
	"time"
)

// Params holds every tunable constant of the memory model. The formula
// shapes are fixed in code; everything numeric is configuration.
type Params struct {
	// InitialStability is the stability after a first graded answer,
	// indexed by canonical quality. Must be non-decreasing.
	InitialStability [6]float64 `mapstructure:"initial_stability"`

	// InitialDifficulty is the difficulty assigned on first exposure at
	// quality equal to PassThreshold; DifficultySlope shifts it per
	// quality step away from the threshold.
	InitialDifficulty float64 `mapstructure:"initial_difficulty"`
	DifficultySlope   float64 `mapstructure:"difficulty_slope"`

	// MinDifficulty and MaxDifficulty clamp difficulty.
	MinDifficulty float64 `mapstructure:"min_difficulty"`
	MaxDifficulty float64 `mapstructure:"max_difficulty"`

	// DifficultyDelta scales the per-review difficulty adjustment,
	// MeanReversion pulls difficulty toward the first-exposure target.
	DifficultyDelta float64 `mapstructure:"difficulty_delta"`
	MeanReversion   float64 `mapstructure:"mean_reversion"`

	// GrowthRate, StabilityDecay and RetrievabilityWeight shape the
	// stability growth on a successful recall.
	GrowthRate           float64 `mapstructure:"growth_rate"`
	StabilityDecay       float64 `mapstructure:"stability_decay"`
	RetrievabilityWeight float64 `mapstructure:"retrievability_weight"`

	// HardPenalty (< 1) and EasyBonus (> 1) scale growth for barely-pass
	// and best-quality answers.
	HardPenalty float64 `mapstructure:"hard_penalty"`
	EasyBonus   float64 `mapstructure:"easy_bonus"`

	// ShortTermWeight shapes the stability change for same-day reviews,
	// where the retrievability curve carries no signal yet.
	ShortTermWeight float64 `mapstructure:"short_term_weight"`

	// LapseFactor shrinks stability on a failed answer;
	// LapseFactorProtected applies instead when the prior correct streak
	// is at least ProtectedStreak. StabilityFloor is the lower bound.
	LapseFactor          float64 `mapstructure:"lapse_factor"`
	LapseFactorProtected float64 `mapstructure:"lapse_factor_protected"`
	ProtectedStreak      int     `mapstructure:"protected_streak"`
	StabilityFloor       float64 `mapstructure:"stability_floor"`

	// RetentionDecay is the exponent of the forgetting curve,
	// DesiredRetention the retention the next interval targets.
	RetentionDecay   float64 `mapstructure:"retention_decay"`
	DesiredRetention float64 `mapstructure:"desired_retention"`

	// MaxIntervalDays bounds f(stability) to avoid runaway intervals.
	MaxIntervalDays int `mapstructure:"max_interval_days"`

	// LearningSteps are the re-exposure intervals while an item is in the
	// learning state; RelearningStep is the short re-exposure after a
	// lapse. GraduationReps is the repetition count at which an item
	// moves from learning to review.
	LearningSteps  []time.Duration `mapstructure:"learning_steps"`
	RelearningStep time.Duration   `mapstructure:"relearning_step"`
	GraduationReps int             `mapstructure:"graduation_reps"`

	// PassThreshold is the lowest passing quality.
	PassThreshold Quality `mapstructure:"pass_threshold"`

	// Struggling thresholds feed IsStruggling and the hard-only selector.
	StrugglingIncorrectStreak int     `mapstructure:"struggling_incorrect_streak"`
	StrugglingLapses          int     `mapstructure:"struggling_lapses"`
	StrugglingStabilityBelow  float64 `mapstructure:"struggling_stability_below"`

	// PointsPerQuality is the session score awarded per passing answer,
	// multiplied by the canonical quality.
	PointsPerQuality int `mapstructure:"points_per_quality"`
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		InitialStability:     [6]float64{0.2, 0.4, 1.0, 2.0, 4.0, 8.0},
		InitialDifficulty:    5.0,
		DifficultySlope:      1.0,
		MinDifficulty:        1.0,
		MaxDifficulty:        10.0,
		DifficultyDelta:      0.6,
		MeanReversion:        0.05,
		GrowthRate:           1.3,
		StabilityDecay:       0.2,
		RetrievabilityWeight: 1.9,
		HardPenalty:          0.7,
		EasyBonus:            1.4,
		ShortTermWeight:      0.12,
		LapseFactor:          0.5,
		LapseFactorProtected: 0.7,
		ProtectedStreak:      3,
		StabilityFloor:       0.1,
		RetentionDecay:       -0.5,
		DesiredRetention:     0.9,
		MaxIntervalDays:      36500,
		LearningSteps:        []time.Duration{time.Minute, 10 * time.Minute},
		RelearningStep:       10 * time.Minute,
		GraduationReps:       2,
		PassThreshold:        3,

		StrugglingIncorrectStreak: 2,
		StrugglingLapses:          3,
		StrugglingStabilityBelow:  7.0,

		PointsPerQuality: 2,
	}
}

// Validate rejects parameter sets that would break the model's invariants.
func (p Params) Validate() error {
	for i := 1; i < len(p.InitialStability); i++ {
		if p.InitialStability[i] < p.InitialStability[i-1] {
			return fmt.Errorf("initial_stability must be non-decreasing, got %v", p.InitialStability)
		}
	}
	if p.InitialStability[0] <= 0 {
		return fmt.Errorf("initial_stability[0] must be positive, got %f", p.InitialStability[0])
	}
	if p.MinDifficulty <= 0 || p.MaxDifficulty <= p.MinDifficulty {
		return fmt.Errorf("difficulty bounds [%f, %f] are invalid", p.MinDifficulty, p.MaxDifficulty)
	}
	if p.DesiredRetention <= 0 || p.DesiredRetention >= 1 {
		return fmt.Errorf("desired_retention %f out of range (0, 1)", p.DesiredRetention)
	}
	if p.RetentionDecay >= 0 {
		return fmt.Errorf("retention_decay %f must be negative", p.RetentionDecay)
	}
	if p.LapseFactor <= 0 || p.LapseFactor >= 1 {
		return fmt.Errorf("lapse_factor %f out of range (0, 1)", p.LapseFactor)
	}
	if p.StabilityFloor <= 0 {
		return fmt.Errorf("stability_floor %f must be positive", p.StabilityFloor)
	}
	if p.MaxIntervalDays < 1 {
		return fmt.Errorf("max_interval_days %d must be at least 1", p.MaxIntervalDays)
	}
	if len(p.LearningSteps) == 0 {
		return fmt.Errorf("learning_steps must not be empty")
	}
	for i, step := range p.LearningSteps {
		if step <= 0 {
			return fmt.Errorf("learning_steps[%d] %v must be positive", i, step)
		}
	}
	if p.RelearningStep <= 0 {
		return fmt.Errorf("relearning_step must be positive")
	}
	if !p.PassThreshold.Valid() || p.PassThreshold == MinQuality {
		return fmt.Errorf("pass_threshold %d out of range", p.PassThreshold)
	}
	return nil
}

// forgetFactor is the constant k in the forgetting curve
// R(t, S) = (1 + k*t/S)^decay, chosen so that R(S, S) = 0.9.
func (p Params) forgetFactor() float64 {
	return math.Pow(0.9, 1.0/p.RetentionDecay) - 1.0
}
