package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hsaito/retentio/internal/memory"
	mock_progress "github.com/hsaito/retentio/internal/mocks/progress"
	mock_selector "github.com/hsaito/retentio/internal/mocks/selector"
	mock_session "github.com/hsaito/retentio/internal/mocks/session"
	"github.com/hsaito/retentio/internal/progress"
	"github.com/hsaito/retentio/internal/selector"
	"github.com/hsaito/retentio/internal/session"
)

var testNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

type orchestratorFixture struct {
	orch     *session.Orchestrator
	mock     sqlmock.Sqlmock
	sessions *mock_session.MockRepository
	states   *mock_progress.MockMemoryStateRepository
	ledger   *mock_progress.MockReviewLogRepository
	items    *mock_selector.MockItemSelector
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctrl := gomock.NewController(t)
	f := &orchestratorFixture{
		mock:     mock,
		sessions: mock_session.NewMockRepository(ctrl),
		states:   mock_progress.NewMockMemoryStateRepository(ctrl),
		ledger:   mock_progress.NewMockReviewLogRepository(ctrl),
		items:    mock_selector.NewMockItemSelector(ctrl),
	}

	model, err := memory.NewModel(memory.DefaultParams())
	require.NoError(t, err)

	f.orch = session.NewOrchestrator(
		sqlx.NewDb(db, "mysql"), f.sessions, f.states, f.ledger, f.items, model,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.orch.SetClock(func() time.Time { return testNow })
	f.orch.SetIDGenerator(func() string { return "s-1" })
	return f
}

func activeDescriptor(processed ...int64) *session.Descriptor {
	return &session.Descriptor{
		ID:               "s-1",
		UserID:           1,
		Mode:             "flashcards",
		Policy:           selector.PolicyDueOnly,
		Scope:            selector.ScopeContainers(7),
		ScopeHash:        selector.ScopeContainers(7).Hash(),
		ProcessedItemIDs: processed,
		TotalEligible:    3,
		Status:           session.StatusActive,
		StartedAt:        testNow.Add(-time.Hour),
		LastActivityAt:   testNow.Add(-time.Minute),
		Version:          2,
	}
}

func TestOrchestrator_Start(t *testing.T) {
	ctx := context.Background()
	scope := selector.ScopeContainers(7)

	t.Run("cancels prior active and creates a new descriptor", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		f.items.EXPECT().Count(ctx, int64(1), "flashcards", selector.PolicyDueOnly, scope).Return(3, nil)

		f.mock.ExpectBegin()
		f.sessions.EXPECT().
			CancelActive(gomock.Any(), gomock.Any(), int64(1), "flashcards", scope.Hash(), testNow).
			Return(int64(1), nil)
		f.sessions.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, d *session.Descriptor) error {
				assert.Equal(t, "s-1", d.ID)
				assert.Equal(t, session.StatusActive, d.Status)
				assert.Equal(t, 3, d.TotalEligible)
				assert.Empty(t, d.ProcessedItemIDs)
				assert.Equal(t, testNow, d.StartedAt)
				return nil
			})
		f.mock.ExpectCommit()

		d, err := f.orch.Start(ctx, 1, "flashcards", selector.PolicyDueOnly, scope)
		require.NoError(t, err)
		assert.Equal(t, "s-1", d.ID)
		assert.Equal(t, scope.Hash(), d.ScopeHash)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("zero eligible items fails before any write", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		f.items.EXPECT().Count(ctx, int64(1), "flashcards", selector.PolicyDueOnly, scope).Return(0, nil)

		_, err := f.orch.Start(ctx, 1, "flashcards", selector.PolicyDueOnly, scope)
		assert.ErrorIs(t, err, session.ErrNoEligibleItems)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}

func TestOrchestrator_NextBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("serves unprocessed items and appends them before returning", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		d := activeDescriptor(11)

		f.mock.ExpectBegin()
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
		f.items.EXPECT().
			Sample(gomock.Any(), int64(1), "flashcards", selector.PolicyDueOnly, d.Scope, 2, []int64{11}).
			Return([]int64{12, 13}, nil)
		f.sessions.EXPECT().
			UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, got *session.Descriptor) error {
				assert.Equal(t, session.Int64List{11, 12, 13}, got.ProcessedItemIDs)
				assert.Equal(t, testNow, got.LastActivityAt)
				return nil
			})
		f.mock.ExpectCommit()

		batch, err := f.orch.NextBatch(ctx, "s-1", 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{12, 13}, batch.ItemIDs)
		assert.False(t, batch.Exhausted)
	})

	t.Run("every item processed completes the session", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		d := activeDescriptor(11, 12, 13)

		f.mock.ExpectBegin()
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
		f.items.EXPECT().
			Sample(gomock.Any(), int64(1), "flashcards", selector.PolicyDueOnly, d.Scope, 2, []int64{11, 12, 13}).
			Return(nil, nil)
		f.sessions.EXPECT().
			UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, got *session.Descriptor) error {
				assert.Equal(t, session.StatusCompleted, got.Status)
				require.NotNil(t, got.EndedAt)
				assert.Equal(t, testNow, *got.EndedAt)
				return nil
			})
		f.mock.ExpectCommit()

		batch, err := f.orch.NextBatch(ctx, "s-1", 2)
		require.NoError(t, err)
		assert.True(t, batch.Exhausted)
		assert.Empty(t, batch.ItemIDs)
	})

	t.Run("nothing currently due keeps the session active", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		d := activeDescriptor(11)

		f.mock.ExpectBegin()
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
		f.items.EXPECT().
			Sample(gomock.Any(), int64(1), "flashcards", selector.PolicyDueOnly, d.Scope, 2, []int64{11}).
			Return(nil, nil)
		f.sessions.EXPECT().
			UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, got *session.Descriptor) error {
				assert.Equal(t, session.StatusActive, got.Status)
				return nil
			})
		f.mock.ExpectCommit()

		batch, err := f.orch.NextBatch(ctx, "s-1", 2)
		require.NoError(t, err)
		assert.False(t, batch.Exhausted)
		assert.Empty(t, batch.ItemIDs)
	})

	t.Run("losing a concurrent append surfaces a conflict", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		d := activeDescriptor(11)

		f.mock.ExpectBegin()
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
		f.items.EXPECT().
			Sample(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]int64{12}, nil)
		f.sessions.EXPECT().
			UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(session.ErrConflict)
		f.mock.ExpectRollback()

		_, err := f.orch.NextBatch(ctx, "s-1", 2)
		assert.ErrorIs(t, err, session.ErrConflict)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newOrchestratorFixture(t)

		f.mock.ExpectBegin()
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(nil, nil)
		f.mock.ExpectRollback()

		_, err := f.orch.NextBatch(ctx, "s-1", 2)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("terminal session rejects mutation", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		d := activeDescriptor()
		d.Status = session.StatusCompleted

		f.mock.ExpectBegin()
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
		f.mock.ExpectRollback()

		_, err := f.orch.NextBatch(ctx, "s-1", 2)
		assert.ErrorIs(t, err, session.ErrSessionNotActive)
	})
}

func TestOrchestrator_SubmitAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("first answer creates a memory state and ledger entry", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		d := activeDescriptor(11)

		f.mock.ExpectBegin()
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
		f.states.EXPECT().Find(gomock.Any(), gomock.Any(), int64(1), int64(11), "flashcards").Return(nil, nil)
		f.states.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, record *progress.MemoryStateRecord) error {
				assert.Equal(t, int64(11), record.ItemID)
				assert.Equal(t, memory.StateLearning, record.State)
				assert.Positive(t, record.Stability)
				return nil
			})
		f.ledger.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, entry *progress.ReviewLog) error {
				assert.Equal(t, "s-1", entry.SessionID)
				assert.Equal(t, memory.StateNew, entry.PriorState)
				assert.Nil(t, entry.PriorDue)
				assert.True(t, entry.Correct)
				return nil
			})
		f.sessions.EXPECT().
			UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, got *session.Descriptor) error {
				assert.Equal(t, 1, got.CorrectCount)
				assert.Equal(t, 0, got.IncorrectCount)
				assert.Positive(t, got.Points)
				return nil
			})
		f.mock.ExpectCommit()

		summary, err := f.orch.SubmitAnswer(ctx, "s-1", 11, 4, 3*time.Second)
		require.NoError(t, err)
		assert.True(t, summary.Correct)
		assert.True(t, summary.Due.After(testNow))
		assert.Positive(t, summary.PointsAwarded)
	})

	t.Run("lapse updates the existing state in place", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		d := activeDescriptor(11)
		due := testNow.Add(-24 * time.Hour)
		lastReview := testNow.Add(-10 * 24 * time.Hour)
		record := &progress.MemoryStateRecord{
			ID: 5, UserID: 1, ItemID: 11, Mode: "flashcards",
			MemoryState: memory.MemoryState{
				Stability: 10, Difficulty: 5, State: memory.StateReview,
				Due: due, LastReview: &lastReview, Repetitions: 6, Streak: 2,
			},
			Version: 4,
		}

		f.mock.ExpectBegin()
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
		f.states.EXPECT().Find(gomock.Any(), gomock.Any(), int64(1), int64(11), "flashcards").Return(record, nil)
		f.states.EXPECT().
			UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, got *progress.MemoryStateRecord) error {
				assert.Equal(t, memory.StateRelearning, got.State)
				assert.Equal(t, 1, got.Lapses)
				assert.Equal(t, 0, got.Streak)
				return nil
			})
		f.ledger.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, entry *progress.ReviewLog) error {
				assert.Equal(t, memory.StateReview, entry.PriorState)
				assert.Equal(t, 10.0, entry.PriorStability)
				assert.Equal(t, 2, entry.PriorStreak)
				assert.Equal(t, 0, entry.PriorLapses)
				if assert.NotNil(t, entry.PriorDue) {
					assert.Equal(t, due, *entry.PriorDue)
				}
				assert.False(t, entry.Correct)
				return nil
			})
		f.sessions.EXPECT().
			UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, got *session.Descriptor) error {
				assert.Equal(t, 1, got.IncorrectCount)
				assert.Equal(t, 0, got.Points)
				return nil
			})
		f.mock.ExpectCommit()

		summary, err := f.orch.SubmitAnswer(ctx, "s-1", 11, 1, 3*time.Second)
		require.NoError(t, err)
		assert.False(t, summary.Correct)
		assert.Equal(t, memory.StateRelearning, summary.State)
		assert.Equal(t, 0, summary.PointsAwarded)
	})

	t.Run("stale memory state surfaces a conflict", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		d := activeDescriptor(11)
		lastReview := testNow.Add(-24 * time.Hour)
		record := &progress.MemoryStateRecord{
			ID: 5, UserID: 1, ItemID: 11, Mode: "flashcards",
			MemoryState: memory.MemoryState{
				Stability: 10, Difficulty: 5, State: memory.StateReview,
				Due: testNow.Add(-time.Hour), LastReview: &lastReview,
			},
			Version: 4,
		}

		f.mock.ExpectBegin()
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
		f.states.EXPECT().Find(gomock.Any(), gomock.Any(), int64(1), int64(11), "flashcards").Return(record, nil)
		f.states.EXPECT().
			UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(progress.ErrVersionConflict)
		f.mock.ExpectRollback()

		_, err := f.orch.SubmitAnswer(ctx, "s-1", 11, 4, time.Second)
		assert.ErrorIs(t, err, session.ErrConflict)
	})

	t.Run("unserved item is rejected", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		d := activeDescriptor(11)

		f.mock.ExpectBegin()
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
		f.mock.ExpectRollback()

		_, err := f.orch.SubmitAnswer(ctx, "s-1", 99, 4, time.Second)
		assert.ErrorIs(t, err, session.ErrItemNotInSession)
	})

	t.Run("out-of-range rating is rejected before any read", func(t *testing.T) {
		f := newOrchestratorFixture(t)

		_, err := f.orch.SubmitAnswer(ctx, "s-1", 11, 9, time.Second)
		assert.ErrorIs(t, err, memory.ErrInvalidRating)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}

func TestOrchestrator_Skip(t *testing.T) {
	f := newOrchestratorFixture(t)
	d := activeDescriptor(11)

	f.mock.ExpectBegin()
	f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
	f.sessions.EXPECT().
		UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, got *session.Descriptor) error {
			assert.Equal(t, 1, got.OtherCount)
			return nil
		})
	f.mock.ExpectCommit()

	require.NoError(t, f.orch.Skip(context.Background(), "s-1", 11))
}

func TestOrchestrator_End(t *testing.T) {
	f := newOrchestratorFixture(t)
	d := activeDescriptor(11)

	f.mock.ExpectBegin()
	f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)
	f.sessions.EXPECT().
		UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ sqlx.ExecerContext, got *session.Descriptor) error {
			assert.Equal(t, session.StatusCancelled, got.Status)
			require.NotNil(t, got.EndedAt)
			return nil
		})
	f.mock.ExpectCommit()

	ended, err := f.orch.End(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, session.StatusCancelled, ended.Status)
}

func TestOrchestrator_Status(t *testing.T) {
	t.Run("returns terminal sessions too", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		d := activeDescriptor(11)
		d.Status = session.StatusCompleted
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(d, nil)

		got, err := f.orch.Status(context.Background(), "s-1")
		require.NoError(t, err)
		assert.Equal(t, session.StatusCompleted, got.Status)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		f.sessions.EXPECT().Find(gomock.Any(), gomock.Any(), "s-1").Return(nil, nil)

		_, err := f.orch.Status(context.Background(), "s-1")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}
