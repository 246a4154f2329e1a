package session

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsaito/retentio/internal/selector"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func sessionColumns() []string {
	return []string{
		"id", "user_id", "mode", "policy", "scope", "scope_hash", "processed_item_ids",
		"total_eligible", "correct_count", "incorrect_count", "other_count", "points",
		"status", "started_at", "last_activity_at", "ended_at", "version", "created_at", "updated_at",
	}
}

func TestDBRepository_Find(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      *Descriptor
		wantErr   bool
	}{
		{
			name: "returns descriptor with decoded JSON columns",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(sessionColumns()).AddRow(
					"s-1", 1, "flashcards", "due_only", []byte(`{"all":false,"container_ids":[7]}`), "abc",
					[]byte(`[11,12]`), 5, 1, 1, 0, 12, "active", now, now, nil, 3, now, now)
				mock.ExpectQuery("SELECT \\* FROM study_sessions WHERE id = \\?").
					WithArgs("s-1").WillReturnRows(rows)
			},
			want: &Descriptor{
				ID: "s-1", UserID: 1, Mode: "flashcards", Policy: selector.PolicyDueOnly,
				Scope: selector.ScopeContainers(7), ScopeHash: "abc",
				ProcessedItemIDs: Int64List{11, 12}, TotalEligible: 5,
				CorrectCount: 1, IncorrectCount: 1, Points: 12, Status: StatusActive,
				StartedAt: now, LastActivityAt: now, Version: 3, CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name: "unknown id returns nil",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM study_sessions WHERE id = \\?").
					WithArgs("s-1").WillReturnRows(sqlmock.NewRows(sessionColumns()))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setupMock(mock)

			got, err := NewDBRepository().Find(context.Background(), db, "s-1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_UpdateVersioned(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "matching version updates and bumps",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE study_sessions SET").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "stale version conflicts",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE study_sessions SET").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setupMock(mock)

			d := &Descriptor{ID: "s-1", Status: StatusActive, LastActivityAt: now, Version: 2}
			err := NewDBRepository().UpdateVersioned(context.Background(), db, d)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, int64(2), d.Version)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), d.Version)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_CancelActive(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE study_sessions SET status = \\?, ended_at = \\?, last_activity_at = \\?, version = version \\+ 1").
		WithArgs(string(StatusCancelled), now, now, int64(1), "flashcards", "abc", string(StatusActive)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cancelled, err := NewDBRepository().CancelActive(context.Background(), db, 1, "flashcards", "abc", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInt64List_Scan(t *testing.T) {
	var l Int64List
	require.NoError(t, l.Scan([]byte(`[3,1]`)))
	assert.Equal(t, Int64List{3, 1}, l)
	assert.True(t, l.Contains(3))
	assert.False(t, l.Contains(2))
}
