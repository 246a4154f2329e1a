package selector

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hsaito/retentio/internal/memory"
)

//go:generate mockgen -source=selector.go -destination=../mocks/selector/mock_selector.go -package=mock_selector

// ScopeResolver yields the container set a user may study.
type ScopeResolver interface {
	AccessibleContainerIDs(ctx context.Context, userID int64) ([]int64, error)
}

// ArchiveReader yields per-user archive flags.
type ArchiveReader interface {
	ArchivedContainerIDs(ctx context.Context, userID int64) ([]int64, error)
}

// ItemSelector is the read-only candidate query surface. Every method has
// a count-only and a bounded-sample form with identical semantics.
type ItemSelector interface {
	Count(ctx context.Context, userID int64, mode string, policy Policy, scope Scope) (int, error)
	Sample(ctx context.Context, userID int64, mode string, policy Policy, scope Scope, limit int, exclude []int64) ([]int64, error)
}

// Selector implements ItemSelector over MySQL.
type Selector struct {
	db       *sqlx.DB
	resolver ScopeResolver
	archives ArchiveReader
	params   memory.Params
	now      func() time.Time
}

// New creates a Selector.
func New(db *sqlx.DB, resolver ScopeResolver, archives ArchiveReader, params memory.Params) *Selector {
	return &Selector{
		db:       db,
		resolver: resolver,
		archives: archives,
		params:   params,
		now:      time.Now,
	}
}

// Count returns the number of eligible items without materializing them.
func (s *Selector) Count(ctx context.Context, userID int64, mode string, policy Policy, scope Scope) (int, error) {
	containers, err := s.resolveContainers(ctx, userID, scope)
	if err != nil {
		return 0, err
	}
	if len(containers) == 0 {
		return 0, nil
	}

	if policy == PolicyMixed {
		due, err := s.countOne(ctx, userID, mode, PolicyDueOnly, containers)
		if err != nil {
			return 0, err
		}
		fresh, err := s.countOne(ctx, userID, mode, PolicyNewOnly, containers)
		if err != nil {
			return 0, err
		}
		return due + fresh, nil
	}
	return s.countOne(ctx, userID, mode, policy, containers)
}

// Sample returns up to limit eligible item ids in the policy's order,
// skipping the excluded ids. The mixed policy serves due items before new
// ones.
func (s *Selector) Sample(ctx context.Context, userID int64, mode string, policy Policy, scope Scope, limit int, exclude []int64) ([]int64, error) {
	containers, err := s.resolveContainers(ctx, userID, scope)
	if err != nil {
		return nil, err
	}
	if len(containers) == 0 || limit <= 0 {
		return nil, nil
	}

	if policy == PolicyMixed {
		due, err := s.sampleOne(ctx, userID, mode, PolicyDueOnly, containers, limit, exclude)
		if err != nil {
			return nil, err
		}
		if len(due) >= limit {
			return due, nil
		}
		fresh, err := s.sampleOne(ctx, userID, mode, PolicyNewOnly, containers, limit-len(due), append(slices.Clone(exclude), due...))
		if err != nil {
			return nil, err
		}
		return append(due, fresh...), nil
	}
	return s.sampleOne(ctx, userID, mode, policy, containers, limit, exclude)
}

// resolveContainers intersects the requested scope with what the user can
// access and removes archived containers. Inaccessible or unknown ids are
// dropped silently so an invalid scope degrades to "nothing to study".
func (s *Selector) resolveContainers(ctx context.Context, userID int64, scope Scope) ([]int64, error) {
	accessible, err := s.resolver.AccessibleContainerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolver.AccessibleContainerIDs() > %w", err)
	}

	candidates := accessible
	if !scope.All {
		candidates = make([]int64, 0, len(scope.ContainerIDs))
		for _, id := range scope.ContainerIDs {
			if slices.Contains(accessible, id) {
				candidates = append(candidates, id)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	archived, err := s.archives.ArchivedContainerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("archives.ArchivedContainerIDs() > %w", err)
	}
	if len(archived) == 0 {
		return candidates, nil
	}

	filtered := make([]int64, 0, len(candidates))
	for _, id := range candidates {
		if !slices.Contains(archived, id) {
			filtered = append(filtered, id)
		}
	}
	return filtered, nil
}

func (s *Selector) countOne(ctx context.Context, userID int64, mode string, policy Policy, containers []int64) (int, error) {
	query, args, err := s.buildQuery(userID, mode, policy, containers, "COUNT(*)", 0, nil)
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("db.GetContext(count %s) > %w", policy, err)
	}
	return count, nil
}

func (s *Selector) sampleOne(ctx context.Context, userID int64, mode string, policy Policy, containers []int64, limit int, exclude []int64) ([]int64, error) {
	query, args, err := s.buildQuery(userID, mode, policy, containers, "i.id", limit, exclude)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(sample %s) > %w", policy, err)
	}
	return ids, nil
}

// buildQuery assembles one policy query. Count mode and sample mode share
// the same WHERE clause so the two can never disagree on eligibility.
func (s *Selector) buildQuery(userID int64, mode string, policy Policy, containers []int64, selectExpr string, limit int, exclude []int64) (string, []any, error) {
	var (
		join      string
		where     string
		whereArgs []any
		orderBy   string
	)

	switch policy {
	case PolicyNewOnly:
		join = "LEFT JOIN memory_states ms ON ms.item_id = i.id AND ms.user_id = ? AND ms.mode = ?"
		where = "ms.id IS NULL"
		orderBy = "i.display_order, i.id"
	case PolicyDueOnly:
		join = "JOIN memory_states ms ON ms.item_id = i.id AND ms.user_id = ? AND ms.mode = ?"
		where = "ms.due <= ?"
		whereArgs = append(whereArgs, s.now())
		orderBy = "ms.due ASC, i.id"
	case PolicyHardOnly:
		// Mirrors memory.Model.IsStruggling; both read the same Params.
		join = "JOIN memory_states ms ON ms.item_id = i.id AND ms.user_id = ? AND ms.mode = ?"
		where = "ms.state <> 'new' AND (ms.incorrect_streak >= ? OR (ms.lapses >= ? AND ms.stability < ?))"
		whereArgs = append(whereArgs,
			s.params.StrugglingIncorrectStreak, s.params.StrugglingLapses, s.params.StrugglingStabilityBelow)
		orderBy = "ms.due ASC, i.id"
	case PolicyAllReview, PolicyUnlimited:
		join = "JOIN memory_states ms ON ms.item_id = i.id AND ms.user_id = ? AND ms.mode = ?"
		where = "1 = 1"
		orderBy = "i.display_order, i.id"
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}

	query := "SELECT " + selectExpr + " FROM items i " + join +
		" WHERE i.container_id IN (?) AND " + where
	args := append([]any{userID, mode, containers}, whereArgs...)

	if len(exclude) > 0 {
		query += " AND i.id NOT IN (?)"
		args = append(args, exclude)
	}
	if selectExpr != "COUNT(*)" {
		query += " ORDER BY " + orderBy
	}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, fmt.Errorf("sqlx.In() > %w", err)
	}
	return s.db.Rebind(expanded), expandedArgs, nil
}
