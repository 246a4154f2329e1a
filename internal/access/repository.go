// Package access resolves which containers a user may study: owned,
// public, granted as editor, or everything for admins.
package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// RoleAdmin is the elevated role that sees every container.
const RoleAdmin = "admin"

// GrantEditor is the contribution grant that makes a container accessible.
const GrantEditor = "editor"

//go:generate mockgen -source=repository.go -destination=../mocks/access/mock_repository.go -package=mock_access

// Repository defines the queries the resolver runs.
type Repository interface {
	UserRole(ctx context.Context, userID int64) (string, error)
	GrantedContainerIDs(ctx context.Context, userID int64) ([]int64, error)
	AllContainerIDs(ctx context.Context) ([]int64, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// UserRole returns the user's role, or an empty string for unknown users.
func (r *DBRepository) UserRole(ctx context.Context, userID int64) (string, error) {
	var role string
	err := r.db.GetContext(ctx, &role, "SELECT role FROM users WHERE id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("db.GetContext(user role) > %w", err)
	}
	return role, nil
}

// GrantedContainerIDs returns containers the user owns, that are public,
// or that carry an editor grant for the user.
func (r *DBRepository) GrantedContainerIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids,
		`SELECT DISTINCT c.id FROM containers c
		LEFT JOIN container_grants g ON g.container_id = c.id AND g.user_id = ? AND g.role = ?
		WHERE c.owner_id = ? OR c.visibility = 'public' OR g.user_id IS NOT NULL
		ORDER BY c.id`,
		userID, GrantEditor, userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(granted containers) > %w", err)
	}
	return ids, nil
}

// AllContainerIDs returns every container id.
func (r *DBRepository) AllContainerIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, "SELECT id FROM containers ORDER BY id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(all containers) > %w", err)
	}
	return ids, nil
}
