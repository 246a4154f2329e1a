package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsaito/retentio/internal/memory"
	"github.com/hsaito/retentio/internal/stats"
)

type stubStatsReporter struct {
	overview    *stats.Overview
	overviewErr error
	activity    stats.ActivityResult
	activityErr error
}

func (s *stubStatsReporter) Overview(_ context.Context, _ int64, _ string) (*stats.Overview, error) {
	return s.overview, s.overviewErr
}

func (s *stubStatsReporter) MonthlyActivity(_ context.Context, _ int64, _, _ int) (stats.ActivityResult, error) {
	return s.activity, s.activityErr
}

func TestRunStatsReport(t *testing.T) {
	overview := &stats.Overview{
		CountsByState: map[memory.State]int{
			memory.StateLearning:   5,
			memory.StateReview:     40,
			memory.StateRelearning: 2,
		},
		DueNow:       7,
		TotalReviews: 100,
		Accuracy:     90,
	}

	t.Run("prints overview and activity table", func(t *testing.T) {
		svc := &stubStatsReporter{
			overview: overview,
			activity: stats.ActivityResult{
				Periods: []stats.PeriodActivity{
					{Period: "2025-06", ReviewsCount: 60, UniqueItems: 25, CorrectCount: 54, Accuracy: 90},
					{Period: "2025-05", ReviewsCount: 40, UniqueItems: 20, CorrectCount: 36, Accuracy: 90},
				},
				Aggregate: stats.AggregateActivity{ReviewsCount: 100, UniqueItems: 30, CorrectCount: 90, Accuracy: 90},
			},
		}

		var out bytes.Buffer
		err := RunStatsReport(context.Background(), svc, &out, 1, "flashcards", 0, 0)
		require.NoError(t, err)

		got := out.String()
		assert.Contains(t, got, "Learning Overview")
		assert.Contains(t, got, "review:      40")
		assert.Contains(t, got, "due now:     7")
		assert.Contains(t, got, "100 (90.0% correct)")
		assert.Contains(t, got, "2025-06")
		assert.Contains(t, got, "Totals:")
	})

	t.Run("no activity for period", func(t *testing.T) {
		svc := &stubStatsReporter{overview: overview}

		var out bytes.Buffer
		err := RunStatsReport(context.Background(), svc, &out, 1, "flashcards", 2020, 1)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "No review activity for the specified period.")
	})

	t.Run("overview error is wrapped", func(t *testing.T) {
		svc := &stubStatsReporter{overviewErr: assert.AnError}

		var out bytes.Buffer
		err := RunStatsReport(context.Background(), svc, &out, 1, "flashcards", 0, 0)
		assert.ErrorContains(t, err, "load overview")
	})

	t.Run("activity error is wrapped", func(t *testing.T) {
		svc := &stubStatsReporter{overview: overview, activityErr: assert.AnError}

		var out bytes.Buffer
		err := RunStatsReport(context.Background(), svc, &out, 1, "flashcards", 0, 0)
		assert.ErrorContains(t, err, "load activity")
	})
}
