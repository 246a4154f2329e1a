package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hsaito/retentio/internal/database"
	"github.com/hsaito/retentio/internal/memory"
)

// ReviewLog is one immutable answer event with a snapshot of the memory
// state before the update. Corrections append new entries; history is
// never rewritten.
type ReviewLog struct {
	ID              int64        `db:"id" json:"id" yaml:"id"`
	UserID          int64        `db:"user_id" json:"user_id" yaml:"user_id"`
	ItemID          int64        `db:"item_id" json:"item_id" yaml:"item_id"`
	SessionID       string       `db:"session_id" json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Mode            string       `db:"mode" json:"mode" yaml:"mode"`
	Quality         int          `db:"quality" json:"quality" yaml:"quality"`
	Correct         bool         `db:"correct" json:"correct" yaml:"correct"`
	DurationMs      int64        `db:"duration_ms" json:"duration_ms" yaml:"duration_ms"`
	PriorStability  float64      `db:"prior_stability" json:"prior_stability" yaml:"prior_stability"`
	PriorDifficulty float64      `db:"prior_difficulty" json:"prior_difficulty" yaml:"prior_difficulty"`
	PriorState      memory.State `db:"prior_state" json:"prior_state" yaml:"prior_state"`
	PriorDue        *time.Time   `db:"prior_due" json:"prior_due,omitempty" yaml:"prior_due,omitempty"`
	PriorStreak     int          `db:"prior_streak" json:"prior_streak" yaml:"prior_streak"`
	PriorLapses     int          `db:"prior_lapses" json:"prior_lapses" yaml:"prior_lapses"`
	ReviewedAt      time.Time    `db:"reviewed_at" json:"reviewed_at" yaml:"reviewed_at"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at" yaml:"created_at"`
}

//go:generate mockgen -source=review_log_repository.go -destination=../mocks/progress/mock_review_log_repository.go -package=mock_progress

// ReviewLogRepository defines the append-only ledger operations. There is
// deliberately no update or delete.
type ReviewLogRepository interface {
	Create(ctx context.Context, e sqlx.ExecerContext, log *ReviewLog) error
	BatchCreate(ctx context.Context, logs []*ReviewLog) error
	FindRecentByUser(ctx context.Context, userID int64, limit int) ([]ReviewLog, error)
}

// DBReviewLogRepository implements ReviewLogRepository using MySQL.
type DBReviewLogRepository struct {
	db *sqlx.DB
}

// NewDBReviewLogRepository creates a new DBReviewLogRepository.
func NewDBReviewLogRepository(db *sqlx.DB) *DBReviewLogRepository {
	return &DBReviewLogRepository{db: db}
}

const reviewLogColumns = `user_id, item_id, session_id, mode, quality, correct, duration_ms,
		prior_stability, prior_difficulty, prior_state, prior_due, prior_streak, prior_lapses, reviewed_at`

// Create appends a single ledger entry.
func (r *DBReviewLogRepository) Create(ctx context.Context, e sqlx.ExecerContext, log *ReviewLog) error {
	result, err := e.ExecContext(ctx,
		`INSERT INTO review_logs (`+reviewLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.UserID, log.ItemID, log.SessionID, log.Mode, log.Quality, log.Correct, log.DurationMs,
		log.PriorStability, log.PriorDifficulty, log.PriorState, log.PriorDue,
		log.PriorStreak, log.PriorLapses, log.ReviewedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert review_log) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	log.ID = id
	return nil
}

// BatchCreate appends multiple entries with a single multi-row insert.
func (r *DBReviewLogRepository) BatchCreate(ctx context.Context, logs []*ReviewLog) error {
	if len(logs) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(logs))
	args := make([]any, 0, len(logs)*14)
	for _, log := range logs {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			log.UserID, log.ItemID, log.SessionID, log.Mode, log.Quality, log.Correct, log.DurationMs,
			log.PriorStability, log.PriorDifficulty, log.PriorState, log.PriorDue,
			log.PriorStreak, log.PriorLapses, log.ReviewedAt)
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO review_logs (`+reviewLogColumns+`) VALUES `+strings.Join(placeholders, ", "),
			args...); err != nil {
			return fmt.Errorf("db.ExecContext(batch insert review_logs) > %w", err)
		}
		return nil
	})
}

// FindRecentByUser returns the user's most recent entries, newest first.
func (r *DBReviewLogRepository) FindRecentByUser(ctx context.Context, userID int64, limit int) ([]ReviewLog, error) {
	var logs []ReviewLog
	if err := r.db.SelectContext(ctx, &logs,
		"SELECT * FROM review_logs WHERE user_id = ? ORDER BY id DESC LIMIT ?",
		userID, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(recent review_logs) > %w", err)
	}
	return logs, nil
}
