package stats

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsaito/retentio/internal/memory"
	"github.com/hsaito/retentio/internal/progress"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "mysql")
	svc := NewService(sqlxDB, progress.NewDBReviewLogRepository(sqlxDB))
	svc.now = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }
	return svc, mock
}

func TestService_Overview(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT state, COUNT\\(\\*\\) AS count FROM memory_states").
		WithArgs(int64(1), "flashcards").
		WillReturnRows(sqlmock.NewRows([]string{"state", "count"}).
			AddRow("review", 40).AddRow("learning", 5).AddRow("relearning", 2))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM memory_states WHERE user_id = \\? AND mode = \\? AND due <= \\?").
		WithArgs(int64(1), "flashcards", time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(7))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(times_correct\\), 0\\) AS correct").
		WithArgs(int64(1), "flashcards").
		WillReturnRows(sqlmock.NewRows([]string{"correct", "incorrect"}).AddRow(90, 10))

	overview, err := svc.Overview(context.Background(), 1, "flashcards")
	require.NoError(t, err)
	assert.Equal(t, map[memory.State]int{
		memory.StateReview:     40,
		memory.StateLearning:   5,
		memory.StateRelearning: 2,
	}, overview.CountsByState)
	assert.Equal(t, 7, overview.DueNow)
	assert.Equal(t, 100, overview.TotalReviews)
	assert.InDelta(t, 90.0, overview.Accuracy, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_DueByContainer(t *testing.T) {
	t.Run("returns per-container workload", func(t *testing.T) {
		svc, mock := newMockService(t)

		rows := sqlmock.NewRows([]string{"container_id", "name", "due_count", "new_count"}).
			AddRow(7, "Irregular Verbs", 3, 10).
			AddRow(8, "Phrases", 0, 2)
		mock.ExpectQuery("SELECT c.id AS container_id, c.name AS name").
			WithArgs(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), int64(1), "flashcards", int64(7), int64(8)).
			WillReturnRows(rows)

		got, err := svc.DueByContainer(context.Background(), 1, "flashcards", []int64{7, 8})
		require.NoError(t, err)
		assert.Equal(t, []ContainerDue{
			{ContainerID: 7, Name: "Irregular Verbs", DueCount: 3, NewCount: 10},
			{ContainerID: 8, Name: "Phrases", DueCount: 0, NewCount: 2},
		}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty container set short-circuits", func(t *testing.T) {
		svc, _ := newMockService(t)

		got, err := svc.DueByContainer(context.Background(), 1, "flashcards", nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
