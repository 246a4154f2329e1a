package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/hsaito/retentio/internal/memory"
	"github.com/hsaito/retentio/internal/stats"
)

// StatsReporter is the subset of the stats service the report needs.
type StatsReporter interface {
	Overview(ctx context.Context, userID int64, mode string) (*stats.Overview, error)
	MonthlyActivity(ctx context.Context, userID int64, year, month int) (stats.ActivityResult, error)
}

// RunStatsReport prints a user's learning overview and monthly review
// activity.
func RunStatsReport(ctx context.Context, svc StatsReporter, w io.Writer, userID int64, mode string, year, month int) error {
	overview, err := svc.Overview(ctx, userID, mode)
	if err != nil {
		return fmt.Errorf("load overview: %w", err)
	}
	activity, err := svc.MonthlyActivity(ctx, userID, year, month)
	if err != nil {
		return fmt.Errorf("load activity: %w", err)
	}

	bold := color.New(color.Bold)

	_, _ = bold.Fprintln(w, "Learning Overview")
	fmt.Fprintln(w, "=================")
	fmt.Fprintln(w)
	for _, state := range []memory.State{memory.StateLearning, memory.StateReview, memory.StateRelearning} {
		fmt.Fprintf(w, "%-12s %d\n", string(state)+":", overview.CountsByState[state])
	}
	fmt.Fprintf(w, "%-12s %d\n", "due now:", overview.DueNow)
	fmt.Fprintf(w, "%-12s %d (%.1f%% correct)\n", "reviews:", overview.TotalReviews, overview.Accuracy)
	fmt.Fprintln(w)

	if len(activity.Periods) == 0 {
		fmt.Fprintln(w, "No review activity for the specified period.")
		return nil
	}

	_, _ = bold.Fprintln(w, "Monthly Activity")
	fmt.Fprintln(w, "================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %10s  %12s  %10s\n", "Period", "Reviews", "Unique Items", "Accuracy")
	fmt.Fprintf(w, "%-10s  %10s  %12s  %10s\n", "------", "-------", "------------", "--------")
	for _, p := range activity.Periods {
		fmt.Fprintf(w, "%-10s  %10d  %12d  %9.1f%%\n", p.Period, p.ReviewsCount, p.UniqueItems, p.Accuracy)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %10d  %12d  %9.1f%%\n",
		"Totals:", activity.Aggregate.ReviewsCount, activity.Aggregate.UniqueItems, activity.Aggregate.Accuracy)

	return nil
}
