package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hsaito/retentio/internal/database"
	"github.com/hsaito/retentio/internal/memory"
	"github.com/hsaito/retentio/internal/progress"
	"github.com/hsaito/retentio/internal/selector"
)

// Batch is one unit of served work. Exhausted means every eligible item
// has been processed and the session completed; an empty non-exhausted
// batch means nothing is currently due but the session remains active.
type Batch struct {
	ItemIDs   []int64 `json:"item_ids"`
	Exhausted bool    `json:"exhausted"`
}

// AnswerSummary is what a graded answer produced, for the UI.
type AnswerSummary struct {
	ItemID        int64          `json:"item_id"`
	Quality       memory.Quality `json:"quality"`
	Correct       bool           `json:"correct"`
	State         memory.State   `json:"state"`
	Stability     float64        `json:"stability"`
	Due           time.Time      `json:"due"`
	Interval      time.Duration  `json:"interval"`
	Streak        int            `json:"streak"`
	Lapses        int            `json:"lapses"`
	PointsAwarded int            `json:"points_awarded"`
}

// Orchestrator runs study sessions. All descriptor and memory-state
// mutations for one call happen in a single transaction; version checks
// turn concurrent mutation races into ErrConflict for the caller to
// retry, never a silent overwrite.
type Orchestrator struct {
	db       *sqlx.DB
	sessions Repository
	states   progress.MemoryStateRepository
	ledger   progress.ReviewLogRepository
	items    selector.ItemSelector
	model    *memory.Model
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	db *sqlx.DB,
	sessions Repository,
	states progress.MemoryStateRepository,
	ledger progress.ReviewLogRepository,
	items selector.ItemSelector,
	model *memory.Model,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		db:       db,
		sessions: sessions,
		states:   states,
		ledger:   ledger,
		items:    items,
		model:    model,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Start begins a session for (user, mode, policy, scope). Any prior
// active session with the same (user, mode, scope) key is cancelled in
// the same transaction, keeping at most one active per key.
func (o *Orchestrator) Start(ctx context.Context, userID int64, mode string, policy selector.Policy, scope selector.Scope) (*Descriptor, error) {
	total, err := o.items.Count(ctx, userID, mode, policy, scope)
	if err != nil {
		return nil, fmt.Errorf("items.Count() > %w", err)
	}
	if total == 0 {
		return nil, ErrNoEligibleItems
	}

	now := o.now()
	d := &Descriptor{
		ID:               o.newID(),
		UserID:           userID,
		Mode:             mode,
		Policy:           policy,
		Scope:            scope,
		ScopeHash:        scope.Hash(),
		ProcessedItemIDs: Int64List{},
		TotalEligible:    total,
		Status:           StatusActive,
		StartedAt:        now,
		LastActivityAt:   now,
	}

	err = database.RunInTx(ctx, o.db, func(ctx context.Context, tx *sqlx.Tx) error {
		cancelled, err := o.sessions.CancelActive(ctx, tx, userID, mode, d.ScopeHash, now)
		if err != nil {
			return err
		}
		if cancelled > 0 {
			o.logger.Info("cancelled prior active session",
				slog.Int64("user_id", userID), slog.String("mode", mode), slog.Int64("count", cancelled))
		}
		return o.sessions.Create(ctx, tx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// NextBatch serves up to n unprocessed items in the session policy's
// order. Served ids are appended to the processed list before the batch
// is returned, so an id is never re-served even when a second device
// calls concurrently; the losing writer gets ErrConflict.
func (o *Orchestrator) NextBatch(ctx context.Context, sessionID string, n int) (*Batch, error) {
	var batch *Batch
	err := database.RunInTx(ctx, o.db, func(ctx context.Context, tx *sqlx.Tx) error {
		d, err := o.activeSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		ids, err := o.items.Sample(ctx, d.UserID, d.Mode, d.Policy, d.Scope, n, d.ProcessedItemIDs)
		if err != nil {
			return fmt.Errorf("items.Sample() > %w", err)
		}

		now := o.now()
		d.LastActivityAt = now

		if len(ids) == 0 {
			if len(d.ProcessedItemIDs) >= d.TotalEligible && d.Policy != selector.PolicyUnlimited {
				d.Status = StatusCompleted
				d.EndedAt = &now
				if err := o.sessions.UpdateVersioned(ctx, tx, d); err != nil {
					return err
				}
				batch = &Batch{Exhausted: true}
				return nil
			}
			// Unprocessed items exist but none is currently eligible
			// (e.g. not yet due). The session stays active.
			if err := o.sessions.UpdateVersioned(ctx, tx, d); err != nil {
				return err
			}
			batch = &Batch{}
			return nil
		}

		d.ProcessedItemIDs = append(d.ProcessedItemIDs, ids...)
		if err := o.sessions.UpdateVersioned(ctx, tx, d); err != nil {
			return err
		}
		batch = &Batch{ItemIDs: ids}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// SubmitAnswer grades one served item: it reads the memory state fresh,
// applies the model, persists the new state with a version check, appends
// a ledger entry with the prior snapshot, and updates the session
// counters. All of it commits or none of it does.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, sessionID string, itemID int64, q memory.Quality, duration time.Duration) (*AnswerSummary, error) {
	if !q.Valid() {
		return nil, memory.ErrInvalidRating
	}

	var summary *AnswerSummary
	err := database.RunInTx(ctx, o.db, func(ctx context.Context, tx *sqlx.Tx) error {
		d, err := o.activeSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if !d.ProcessedItemIDs.Contains(itemID) {
			return fmt.Errorf("item %d in session %s: %w", itemID, sessionID, ErrItemNotInSession)
		}

		record, err := o.states.Find(ctx, tx, d.UserID, itemID, d.Mode)
		if err != nil {
			return err
		}

		now := o.now()
		// Copy the prior state: the record is overwritten below and the
		// ledger entry must snapshot the values before the update.
		var prior *memory.MemoryState
		if record != nil {
			priorState := record.MemoryState
			prior = &priorState
		}
		next, interval, err := o.model.Update(prior, q, now)
		if err != nil {
			return err
		}

		if record == nil {
			record = &progress.MemoryStateRecord{
				UserID:      d.UserID,
				ItemID:      itemID,
				Mode:        d.Mode,
				MemoryState: next,
			}
			if err := o.states.Create(ctx, tx, record); err != nil {
				return err
			}
		} else {
			record.MemoryState = next
			if err := o.states.UpdateVersioned(ctx, tx, record); err != nil {
				if errors.Is(err, progress.ErrVersionConflict) {
					return fmt.Errorf("memory state for item %d: %w", itemID, ErrConflict)
				}
				return err
			}
		}

		correct := q >= o.model.Params().PassThreshold
		entry := &progress.ReviewLog{
			UserID:     d.UserID,
			ItemID:     itemID,
			SessionID:  d.ID,
			Mode:       d.Mode,
			Quality:    int(q),
			Correct:    correct,
			DurationMs: duration.Milliseconds(),
			ReviewedAt: now,
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
		if err := o.ledger.Create(ctx, tx, entry); err != nil {
			return err
		}

		points := o.model.Points(q)
		if correct {
			d.CorrectCount++
		} else {
			d.IncorrectCount++
		}
		d.Points += points
		d.LastActivityAt = now
		if err := o.sessions.UpdateVersioned(ctx, tx, d); err != nil {
			return err
		}

		summary = &AnswerSummary{
			ItemID:        itemID,
			Quality:       q,
			Correct:       correct,
			State:         next.State,
			Stability:     next.Stability,
			Due:           next.Due,
			Interval:      interval,
			Streak:        next.Streak,
			Lapses:        next.Lapses,
			PointsAwarded: points,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Skip records that a served item was shown but not graded. It counts
// toward the session's other-outcome counter and touches no memory state.
func (o *Orchestrator) Skip(ctx context.Context, sessionID string, itemID int64) error {
	return database.RunInTx(ctx, o.db, func(ctx context.Context, tx *sqlx.Tx) error {
		d, err := o.activeSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if !d.ProcessedItemIDs.Contains(itemID) {
			return fmt.Errorf("item %d in session %s: %w", itemID, sessionID, ErrItemNotInSession)
		}
		d.OtherCount++
		d.LastActivityAt = o.now()
		return o.sessions.UpdateVersioned(ctx, tx, d)
	})
}

// End cancels an active session. Terminal states are read-only history.
func (o *Orchestrator) End(ctx context.Context, sessionID string) (*Descriptor, error) {
	var ended *Descriptor
	err := database.RunInTx(ctx, o.db, func(ctx context.Context, tx *sqlx.Tx) error {
		d, err := o.activeSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		now := o.now()
		d.Status = StatusCancelled
		d.LastActivityAt = now
		d.EndedAt = &now
		if err := o.sessions.UpdateVersioned(ctx, tx, d); err != nil {
			return err
		}
		ended = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ended, nil
}

// Status returns the descriptor for any session, active or terminal.
func (o *Orchestrator) Status(ctx context.Context, sessionID string) (*Descriptor, error) {
	d, err := o.sessions.Find(ctx, o.db, sessionID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	return d, nil
}

// Resume returns the active session for the (user, mode, scope) key so a
// second device can pick it up, or nil when none is active.
func (o *Orchestrator) Resume(ctx context.Context, userID int64, mode string, scope selector.Scope) (*Descriptor, error) {
	return o.sessions.FindActive(ctx, o.db, userID, mode, scope.Hash())
}

func (o *Orchestrator) activeSession(ctx context.Context, q sqlx.QueryerContext, sessionID string) (*Descriptor, error) {
	d, err := o.sessions.Find(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	if !d.IsActive() {
		return nil, fmt.Errorf("session %s is %s: %w", sessionID, d.Status, ErrSessionNotActive)
	}
	return d, nil
}
