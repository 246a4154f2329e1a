package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsaito/retentio/internal/worker"
)

type stubRescheduler struct {
	report worker.Report
	err    error
}

func (s *stubRescheduler) Reschedule(_ context.Context, _ int64, _ string) (worker.Report, error) {
	return s.report, s.err
}

func TestRunReschedule(t *testing.T) {
	t.Run("prints report counts", func(t *testing.T) {
		runner := &stubRescheduler{report: worker.Report{Processed: 12, Skipped: 3}}

		var out bytes.Buffer
		err := RunReschedule(context.Background(), runner, &out, 1, "flashcards")
		require.NoError(t, err)

		got := out.String()
		assert.Contains(t, got, "updated: 12")
		assert.Contains(t, got, "skipped: 3")
		assert.NotContains(t, got, "failed")
	})

	t.Run("reports failures", func(t *testing.T) {
		runner := &stubRescheduler{report: worker.Report{Processed: 1, Failed: 2}}

		var out bytes.Buffer
		err := RunReschedule(context.Background(), runner, &out, 1, "flashcards")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "failed:  2")
	})

	t.Run("runner error is wrapped", func(t *testing.T) {
		runner := &stubRescheduler{err: assert.AnError}

		var out bytes.Buffer
		err := RunReschedule(context.Background(), runner, &out, 1, "flashcards")
		assert.ErrorContains(t, err, "reschedule")
	})
}
