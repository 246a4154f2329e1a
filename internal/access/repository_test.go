package access

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBRepository_UserRole(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      string
		wantErr   bool
	}{
		{
			name: "returns role",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"role"}).AddRow("admin")
				mock.ExpectQuery("SELECT role FROM users WHERE id = \\?").
					WithArgs(int64(2)).WillReturnRows(rows)
			},
			want: "admin",
		},
		{
			name: "unknown user returns empty role",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT role FROM users WHERE id = \\?").
					WithArgs(int64(2)).WillReturnRows(sqlmock.NewRows([]string{"role"}))
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT role FROM users WHERE id = \\?").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.UserRole(context.Background(), 2)
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

func TestDBRepository_GrantedContainerIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
	rows := sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(4)
	mock.ExpectQuery("SELECT DISTINCT c.id FROM containers c").
		WithArgs(int64(1), GrantEditor, int64(1)).
		WillReturnRows(rows)

	got, err := repo.GrantedContainerIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
