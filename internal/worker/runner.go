// Package worker runs bulk, long-running scheduling work out of band:
// due-date regeneration after parameter changes and batched corrective
// answers. Units of work commit independently so a cancelled run leaves
// all finished units intact.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go"
	"github.com/jmoiron/sqlx"

	"github.com/hsaito/retentio/internal/database"
	"github.com/hsaito/retentio/internal/memory"
	"github.com/hsaito/retentio/internal/progress"
)

// ErrStopped is returned when a run terminates early on a stop request.
var ErrStopped = errors.New("worker stop requested")

// Report summarizes one run.
type Report struct {
	Processed int
	Skipped   int
	Failed    int
}

// BulkAnswer is one corrective answer applied outside an interactive
// session, e.g. importing review results recorded offline.
type BulkAnswer struct {
	UserID     int64
	ItemID     int64
	Mode       string
	Quality    memory.Quality
	ReviewedAt time.Time
}

// Runner executes bulk jobs. Stop requests and context cancellation are
// both checked between item-level units of work.
type Runner struct {
	db            *sqlx.DB
	states        progress.MemoryStateRepository
	ledger        progress.ReviewLogRepository
	model         *memory.Model
	logger        *slog.Logger
	batchSize     int
	retryAttempts uint
	retryDelay    time.Duration
	stop          atomic.Bool
}

// NewRunner creates a Runner.
func NewRunner(
	db *sqlx.DB,
	states progress.MemoryStateRepository,
	ledger progress.ReviewLogRepository,
	model *memory.Model,
	logger *slog.Logger,
	batchSize int,
	retryAttempts uint,
	retryDelay time.Duration,
) *Runner {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Runner{
		db:            db,
		states:        states,
		ledger:        ledger,
		model:         model,
		logger:        logger,
		batchSize:     batchSize,
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
	}
}

// Stop requests cooperative termination. The current unit of work
// finishes and commits; the run then returns ErrStopped.
func (r *Runner) Stop() {
	r.stop.Store(true)
}

func (r *Runner) stopped(ctx context.Context) error {
	if r.stop.Load() {
		return ErrStopped
	}
	return ctx.Err()
}

// rescheduleRow is the slice of a memory state the regeneration needs.
type rescheduleRow struct {
	ID         int64        `db:"id"`
	Stability  float64      `db:"stability"`
	State      memory.State `db:"state"`
	LastReview *time.Time   `db:"last_review"`
	Due        time.Time    `db:"due"`
	Version    int64        `db:"version"`
}

// Reschedule regenerates due dates for every review-state row of a
// (user, mode), walking the table in id order one batch at a time. Used
// after scheduling parameters change. Each row commits on its own, so
// partial progress survives cancellation.
func (r *Runner) Reschedule(ctx context.Context, userID int64, mode string) (Report, error) {
	var report Report
	var lastID int64

	for {
		if err := r.stopped(ctx); err != nil {
			return report, err
		}

		var rows []rescheduleRow
		if err := r.db.SelectContext(ctx, &rows,
			`SELECT id, stability, state, last_review, due, version FROM memory_states
			WHERE user_id = ? AND mode = ? AND state = ? AND id > ?
			ORDER BY id LIMIT ?`,
			userID, mode, memory.StateReview, lastID, r.batchSize); err != nil {
			return report, fmt.Errorf("db.SelectContext(reschedule batch) > %w", err)
		}
		if len(rows) == 0 {
			return report, nil
		}
		lastID = rows[len(rows)-1].ID

		for _, row := range rows {
			if err := r.stopped(ctx); err != nil {
				return report, err
			}
			if row.LastReview == nil {
				report.Skipped++
				continue
			}

			due := row.LastReview.Add(r.model.ReviewInterval(row.Stability))
			if due.Equal(row.Due) {
				report.Skipped++
				continue
			}

			if err := r.withRetry(ctx, func() error {
				result, err := r.db.ExecContext(ctx,
					"UPDATE memory_states SET due = ?, version = version + 1 WHERE id = ? AND version = ?",
					due, row.ID, row.Version)
				if err != nil {
					return fmt.Errorf("db.ExecContext(reschedule memory_state) > %w", err)
				}
				affected, err := result.RowsAffected()
				if err != nil {
					return fmt.Errorf("result.RowsAffected() > %w", err)
				}
				if affected == 0 {
					// A concurrent answer recomputed this row; its due
					// date is already fresher than ours.
					return retry.Unrecoverable(progress.ErrVersionConflict)
				}
				return nil
			}); err != nil {
				if errors.Is(err, progress.ErrVersionConflict) {
					report.Skipped++
					continue
				}
				report.Failed++
				r.logger.Warn("rescheduling memory state failed",
					slog.Int64("memory_state_id", row.ID), slog.Any("error", err))
				continue
			}
			report.Processed++
		}
	}
}

// ApplyAnswers applies corrective answers one transaction per answer.
// Conflicting rows are skipped, not overwritten; each answer that lands
// also appends a ledger entry.
func (r *Runner) ApplyAnswers(ctx context.Context, answers []BulkAnswer) (Report, error) {
	var report Report

	for _, answer := range answers {
		if err := r.stopped(ctx); err != nil {
			return report, err
		}
		if !answer.Quality.Valid() {
			report.Failed++
			r.logger.Warn("skipping answer with invalid quality",
				slog.Int64("item_id", answer.ItemID), slog.Int("quality", int(answer.Quality)))
			continue
		}

		err := r.withRetry(ctx, func() error {
			err := r.applyAnswer(ctx, answer)
			if errors.Is(err, progress.ErrVersionConflict) {
				return retry.Unrecoverable(err)
			}
			return err
		})
		switch {
		case errors.Is(err, progress.ErrVersionConflict):
			report.Skipped++
		case err != nil:
			report.Failed++
			r.logger.Warn("applying bulk answer failed",
				slog.Int64("item_id", answer.ItemID), slog.Any("error", err))
		default:
			report.Processed++
		}
	}
	return report, nil
}

func (r *Runner) applyAnswer(ctx context.Context, answer BulkAnswer) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		record, err := r.states.Find(ctx, tx, answer.UserID, answer.ItemID, answer.Mode)
		if err != nil {
			return err
		}

		// Copy the prior state: the record is overwritten below and the
		// ledger entry must snapshot the values before the update.
		var prior *memory.MemoryState
		if record != nil {
			priorState := record.MemoryState
			prior = &priorState
		}
		next, _, err := r.model.Update(prior, answer.Quality, answer.ReviewedAt)
		if err != nil {
			return err
		}

		if record == nil {
			record = &progress.MemoryStateRecord{
				UserID:      answer.UserID,
				ItemID:      answer.ItemID,
				Mode:        answer.Mode,
				MemoryState: next,
			}
			if err := r.states.Create(ctx, tx, record); err != nil {
				return err
			}
		} else {
			record.MemoryState = next
			if err := r.states.UpdateVersioned(ctx, tx, record); err != nil {
				return err
			}
		}

		entry := &progress.ReviewLog{
			UserID:     answer.UserID,
			ItemID:     answer.ItemID,
			Mode:       answer.Mode,
			Quality:    int(answer.Quality),
			Correct:    answer.Quality >= r.model.Params().PassThreshold,
			ReviewedAt: answer.ReviewedAt,
		}
		if prior != nil {
			entry.PriorStability = prior.Stability
			entry.PriorDifficulty = prior.Difficulty
			entry.PriorState = prior.State
			due := prior.Due
			entry.PriorDue = &due
			entry.PriorStreak = prior.Streak
			entry.PriorLapses = prior.Lapses
		} else {
			entry.PriorState = memory.StateNew
		}
		return r.ledger.Create(ctx, tx, entry)
	})
}

func (r *Runner) withRetry(ctx context.Context, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(r.retryAttempts+1),
		retry.Delay(r.retryDelay),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.LastErrorOnly(true),
	)
}
