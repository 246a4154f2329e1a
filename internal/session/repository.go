package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/session/mock_repository.go -package=mock_session

// Repository defines persistence for session descriptors. Methods take a
// queryer/execer so reads and writes composing one logical mutation can
// share a transaction.
type Repository interface {
	Find(ctx context.Context, q sqlx.QueryerContext, id string) (*Descriptor, error)
	FindActive(ctx context.Context, q sqlx.QueryerContext, userID int64, mode, scopeHash string) (*Descriptor, error)
	Create(ctx context.Context, e sqlx.ExecerContext, d *Descriptor) error
	UpdateVersioned(ctx context.Context, e sqlx.ExecerContext, d *Descriptor) error
	CancelActive(ctx context.Context, e sqlx.ExecerContext, userID int64, mode, scopeHash string, now time.Time) (int64, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct{}

// NewDBRepository creates a new DBRepository.
func NewDBRepository() *DBRepository {
	return &DBRepository{}
}

// Find returns the session with the given id, or nil if none exists.
func (r *DBRepository) Find(ctx context.Context, q sqlx.QueryerContext, id string) (*Descriptor, error) {
	var d Descriptor
	err := sqlx.GetContext(ctx, q, &d, "SELECT * FROM study_sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(study_session) > %w", err)
	}
	return &d, nil
}

// FindActive returns the active session for the (user, mode, scope) key,
// or nil if none is active.
func (r *DBRepository) FindActive(ctx context.Context, q sqlx.QueryerContext, userID int64, mode, scopeHash string) (*Descriptor, error) {
	var d Descriptor
	err := sqlx.GetContext(ctx, q, &d,
		"SELECT * FROM study_sessions WHERE user_id = ? AND mode = ? AND scope_hash = ? AND status = ?",
		userID, mode, scopeHash, StatusActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(active study_session) > %w", err)
	}
	return &d, nil
}

// Create inserts a new descriptor with version 1.
func (r *DBRepository) Create(ctx context.Context, e sqlx.ExecerContext, d *Descriptor) error {
	d.Version = 1
	if _, err := e.ExecContext(ctx,
		`INSERT INTO study_sessions
		(id, user_id, mode, policy, scope, scope_hash, processed_item_ids, total_eligible,
		correct_count, incorrect_count, other_count, points, status,
		started_at, last_activity_at, ended_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.Mode, d.Policy, d.Scope, d.ScopeHash, d.ProcessedItemIDs, d.TotalEligible,
		d.CorrectCount, d.IncorrectCount, d.OtherCount, d.Points, d.Status,
		d.StartedAt, d.LastActivityAt, d.EndedAt, d.Version); err != nil {
		return fmt.Errorf("db.ExecContext(insert study_session) > %w", err)
	}
	return nil
}

// UpdateVersioned writes the descriptor only if no concurrent writer
// advanced its version since it was read. The losing call gets
// ErrConflict and may retry from a fresh read.
func (r *DBRepository) UpdateVersioned(ctx context.Context, e sqlx.ExecerContext, d *Descriptor) error {
	result, err := e.ExecContext(ctx,
		`UPDATE study_sessions SET
		processed_item_ids = ?, correct_count = ?, incorrect_count = ?, other_count = ?,
		points = ?, status = ?, last_activity_at = ?, ended_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		d.ProcessedItemIDs, d.CorrectCount, d.IncorrectCount, d.OtherCount,
		d.Points, d.Status, d.LastActivityAt, d.EndedAt,
		d.ID, d.Version)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update study_session) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("study_session %s version %d: %w", d.ID, d.Version, ErrConflict)
	}
	d.Version++
	return nil
}

// CancelActive cancels any active session for the (user, mode, scope) key
// and returns how many rows it cancelled. The unique-active invariant
// makes that count 0 or 1 in practice.
func (r *DBRepository) CancelActive(ctx context.Context, e sqlx.ExecerContext, userID int64, mode, scopeHash string, now time.Time) (int64, error) {
	result, err := e.ExecContext(ctx,
		`UPDATE study_sessions SET status = ?, ended_at = ?, last_activity_at = ?, version = version + 1
		WHERE user_id = ? AND mode = ? AND scope_hash = ? AND status = ?`,
		StatusCancelled, now, now,
		userID, mode, scopeHash, StatusActive)
	if err != nil {
		return 0, fmt.Errorf("db.ExecContext(cancel active study_sessions) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("result.RowsAffected() > %w", err)
	}
	return affected, nil
}
