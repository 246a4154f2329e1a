package export

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hsaito/retentio/internal/progress"
)

const timeLayout = "2006-01-02T15:04:05Z"

type exportMemoryState struct {
	ID              int64   `yaml:"id"`
	ItemID          int64   `yaml:"item_id"`
	Mode            string  `yaml:"mode"`
	Stability       float64 `yaml:"stability"`
	Difficulty      float64 `yaml:"difficulty"`
	State           string  `yaml:"state"`
	Due             string  `yaml:"due"`
	LastReview      string  `yaml:"last_review,omitempty"`
	Repetitions     int     `yaml:"repetitions"`
	Lapses          int     `yaml:"lapses"`
	Streak          int     `yaml:"streak"`
	IncorrectStreak int     `yaml:"incorrect_streak"`
	TimesCorrect    int     `yaml:"times_correct"`
	TimesIncorrect  int     `yaml:"times_incorrect"`
}

// YAMLStateSink writes memory state snapshots to a YAML file.
type YAMLStateSink struct {
	outputDir string
}

// NewYAMLStateSink creates a new YAMLStateSink.
func NewYAMLStateSink(outputDir string) *YAMLStateSink {
	return &YAMLStateSink{outputDir: outputDir}
}

// WriteAll writes memory states to memory_states.yml.
func (s *YAMLStateSink) WriteAll(states []progress.MemoryStateRecord) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := make([]exportMemoryState, len(states))
	for i, st := range states {
		out[i] = exportMemoryState{
			ID:              st.ID,
			ItemID:          st.ItemID,
			Mode:            st.Mode,
			Stability:       st.Stability,
			Difficulty:      st.Difficulty,
			State:           string(st.State),
			Due:             st.Due.UTC().Format(timeLayout),
			Repetitions:     st.Repetitions,
			Lapses:          st.Lapses,
			Streak:          st.Streak,
			IncorrectStreak: st.IncorrectStreak,
			TimesCorrect:    st.TimesCorrect,
			TimesIncorrect:  st.TimesIncorrect,
		}
		if st.LastReview != nil {
			out[i].LastReview = st.LastReview.UTC().Format(timeLayout)
		}
	}

	if err := writeYAML(filepath.Join(s.outputDir, "memory_states.yml"), out); err != nil {
		return fmt.Errorf("write memory_states.yml: %w", err)
	}
	return nil
}

func writeYAML(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}
