package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hsaito/retentio/internal/progress"
)

type exportReviewLog struct {
	ID              int64   `yaml:"id"`
	ItemID          int64   `yaml:"item_id"`
	SessionID       string  `yaml:"session_id,omitempty"`
	Mode            string  `yaml:"mode"`
	Quality         int     `yaml:"quality"`
	Correct         bool    `yaml:"correct"`
	DurationMs      int64   `yaml:"duration_ms"`
	PriorStability  float64 `yaml:"prior_stability"`
	PriorDifficulty float64 `yaml:"prior_difficulty"`
	PriorState      string  `yaml:"prior_state"`
	PriorDue        string  `yaml:"prior_due,omitempty"`
	PriorStreak     int     `yaml:"prior_streak"`
	PriorLapses     int     `yaml:"prior_lapses"`
	ReviewedAt      string  `yaml:"reviewed_at"`
}

// YAMLReviewSink writes review ledger entries to a YAML file.
type YAMLReviewSink struct {
	outputDir string
}

// NewYAMLReviewSink creates a new YAMLReviewSink.
func NewYAMLReviewSink(outputDir string) *YAMLReviewSink {
	return &YAMLReviewSink{outputDir: outputDir}
}

// WriteAll writes ledger entries to review_logs.yml.
func (s *YAMLReviewSink) WriteAll(logs []progress.ReviewLog) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := make([]exportReviewLog, len(logs))
	for i, l := range logs {
		out[i] = exportReviewLog{
			ID:              l.ID,
			ItemID:          l.ItemID,
			SessionID:       l.SessionID,
			Mode:            l.Mode,
			Quality:         l.Quality,
			Correct:         l.Correct,
			DurationMs:      l.DurationMs,
			PriorStability:  l.PriorStability,
			PriorDifficulty: l.PriorDifficulty,
			PriorState:      string(l.PriorState),
			PriorStreak:     l.PriorStreak,
			PriorLapses:     l.PriorLapses,
			ReviewedAt:      l.ReviewedAt.UTC().Format(timeLayout),
		}
		if l.PriorDue != nil {
			out[i].PriorDue = l.PriorDue.UTC().Format(timeLayout)
		}
	}

	if err := writeYAML(filepath.Join(s.outputDir, "review_logs.yml"), out); err != nil {
		return fmt.Errorf("write review_logs.yml: %w", err)
	}
	return nil
}
