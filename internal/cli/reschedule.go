package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/hsaito/retentio/internal/worker"
)

// Rescheduler recomputes due dates for a user's review-state items.
type Rescheduler interface {
	Reschedule(ctx context.Context, userID int64, mode string) (worker.Report, error)
}

// RunReschedule recomputes due dates after a scheduler parameter change
// and prints the outcome.
func RunReschedule(ctx context.Context, runner Rescheduler, w io.Writer, userID int64, mode string) error {
	report, err := runner.Reschedule(ctx, userID, mode)
	if err != nil {
		return fmt.Errorf("reschedule: %w", err)
	}

	_, _ = color.New(color.Bold).Fprintln(w, "Reschedule complete")
	fmt.Fprintf(w, "updated: %d\n", report.Processed)
	fmt.Fprintf(w, "skipped: %d\n", report.Skipped)
	if report.Failed > 0 {
		_, _ = color.New(color.FgRed).Fprintf(w, "failed:  %d\n", report.Failed)
	}
	return nil
}
