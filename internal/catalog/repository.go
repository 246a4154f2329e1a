// Package catalog provides read-only access to learning containers and
// items. Content management owns this data; the scheduler only reads it.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Container groups learning items. Visibility is "public" or "private".
type Container struct {
	ID            int64     `db:"id"`
	OwnerID       int64     `db:"owner_id"`
	Name          string    `db:"name"`
	ContainerType string    `db:"container_type"`
	Visibility    string    `db:"visibility"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Item is an atomic study unit. Immutable from the scheduler's point of view.
type Item struct {
	ID           int64     `db:"id"`
	ContainerID  int64     `db:"container_id"`
	ItemType     string    `db:"item_type"`
	DisplayOrder int       `db:"display_order"`
	Front        string    `db:"front"`
	Back         string    `db:"back"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Repository defines read operations over containers and items.
type Repository interface {
	FindContainer(ctx context.Context, containerID int64) (*Container, error)
	ItemsInContainer(ctx context.Context, containerID int64, itemType string) ([]int64, error)
	FindItem(ctx context.Context, itemID int64) (*Item, error)
	IsArchived(ctx context.Context, userID, containerID int64) (bool, error)
	ArchivedContainerIDs(ctx context.Context, userID int64) ([]int64, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindContainer returns the container, or nil if it does not exist.
func (r *DBRepository) FindContainer(ctx context.Context, containerID int64) (*Container, error) {
	var container Container
	err := r.db.GetContext(ctx, &container,
		"SELECT * FROM containers WHERE id = ?", containerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(container) > %w", err)
	}
	return &container, nil
}

// ItemsInContainer returns item ids in the container-defined display order.
// An empty itemType matches every type.
func (r *DBRepository) ItemsInContainer(ctx context.Context, containerID int64, itemType string) ([]int64, error) {
	query := "SELECT id FROM items WHERE container_id = ? ORDER BY display_order, id"
	args := []any{containerID}
	if itemType != "" {
		query = "SELECT id FROM items WHERE container_id = ? AND item_type = ? ORDER BY display_order, id"
		args = append(args, itemType)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(items in container) > %w", err)
	}
	return ids, nil
}

// FindItem returns item metadata by id, or nil if it does not exist.
func (r *DBRepository) FindItem(ctx context.Context, itemID int64) (*Item, error) {
	var item Item
	err := r.db.GetContext(ctx, &item, "SELECT * FROM items WHERE id = ?", itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(item) > %w", err)
	}
	return &item, nil
}

// IsArchived reports whether the user archived the container.
func (r *DBRepository) IsArchived(ctx context.Context, userID, containerID int64) (bool, error) {
	var archived bool
	err := r.db.GetContext(ctx, &archived,
		"SELECT archived FROM container_user_flags WHERE user_id = ? AND container_id = ?",
		userID, containerID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("db.GetContext(container archive flag) > %w", err)
	}
	return archived, nil
}

// ArchivedContainerIDs returns every container the user archived.
func (r *DBRepository) ArchivedContainerIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids,
		"SELECT container_id FROM container_user_flags WHERE user_id = ? AND archived = TRUE ORDER BY container_id",
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(archived containers) > %w", err)
	}
	return ids, nil
}
