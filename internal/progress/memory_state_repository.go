// Package progress persists per-user memory states and the append-only
// review ledger.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hsaito/retentio/internal/memory"
)

// ErrVersionConflict is returned when a versioned write loses a race.
// The caller may retry the whole read-update-write cycle.
var ErrVersionConflict = errors.New("memory state was modified concurrently")

// MemoryStateRecord is a persisted memory state. Rows are created lazily
// on the first graded answer and never deleted.
type MemoryStateRecord struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"user_id"`
	ItemID int64  `db:"item_id"`
	Mode   string `db:"mode"`
	memory.MemoryState
	Version   int64     `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

//go:generate mockgen -source=memory_state_repository.go -destination=../mocks/progress/mock_memory_state_repository.go -package=mock_progress

// MemoryStateRepository defines operations on memory states. Reads used to
// compute an update must run on the same queryer (transaction) as the
// subsequent write.
type MemoryStateRepository interface {
	Find(ctx context.Context, q sqlx.QueryerContext, userID, itemID int64, mode string) (*MemoryStateRecord, error)
	Create(ctx context.Context, e sqlx.ExecerContext, record *MemoryStateRecord) error
	UpdateVersioned(ctx context.Context, e sqlx.ExecerContext, record *MemoryStateRecord) error
}

// DBMemoryStateRepository implements MemoryStateRepository using MySQL.
type DBMemoryStateRepository struct{}

// NewDBMemoryStateRepository creates a new DBMemoryStateRepository.
func NewDBMemoryStateRepository() *DBMemoryStateRepository {
	return &DBMemoryStateRepository{}
}

// Find returns the memory state for (user, item, mode), or nil before the
// first graded answer.
func (r *DBMemoryStateRepository) Find(ctx context.Context, q sqlx.QueryerContext, userID, itemID int64, mode string) (*MemoryStateRecord, error) {
	var record MemoryStateRecord
	err := sqlx.GetContext(ctx, q, &record,
		"SELECT * FROM memory_states WHERE user_id = ? AND item_id = ? AND mode = ?",
		userID, itemID, mode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(memory_state) > %w", err)
	}
	return &record, nil
}

// Create inserts a first-answer memory state with version 1.
func (r *DBMemoryStateRepository) Create(ctx context.Context, e sqlx.ExecerContext, record *MemoryStateRecord) error {
	record.Version = 1
	result, err := e.ExecContext(ctx,
		`INSERT INTO memory_states
		(user_id, item_id, mode, stability, difficulty, state, due, last_review,
		repetitions, lapses, streak, incorrect_streak, times_correct, times_incorrect, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.UserID, record.ItemID, record.Mode,
		record.Stability, record.Difficulty, record.State, record.Due, record.LastReview,
		record.Repetitions, record.Lapses, record.Streak, record.IncorrectStreak,
		record.TimesCorrect, record.TimesIncorrect, record.Version)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert memory_state) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	record.ID = id
	return nil
}

// UpdateVersioned writes the record only if no concurrent writer advanced
// its version since it was read. On success the in-memory version is
// incremented to match the row.
func (r *DBMemoryStateRepository) UpdateVersioned(ctx context.Context, e sqlx.ExecerContext, record *MemoryStateRecord) error {
	result, err := e.ExecContext(ctx,
		`UPDATE memory_states SET
		stability = ?, difficulty = ?, state = ?, due = ?, last_review = ?,
		repetitions = ?, lapses = ?, streak = ?, incorrect_streak = ?,
		times_correct = ?, times_incorrect = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		record.Stability, record.Difficulty, record.State, record.Due, record.LastReview,
		record.Repetitions, record.Lapses, record.Streak, record.IncorrectStreak,
		record.TimesCorrect, record.TimesIncorrect,
		record.ID, record.Version)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update memory_state) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("memory_state %d version %d: %w", record.ID, record.Version, ErrVersionConflict)
	}
	record.Version++
	return nil
}
