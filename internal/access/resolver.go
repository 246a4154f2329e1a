package access

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Resolver computes accessible container sets. Results are memoized for
// the resolver's lifetime, so create one resolver per session or request
// rather than sharing a long-lived instance across grant changes.
type Resolver struct {
	repo Repository

	mu    sync.Mutex
	cache map[int64][]int64
}

// NewResolver creates a Resolver backed by the given repository.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{
		repo:  repo,
		cache: make(map[int64][]int64),
	}
}

// AccessibleContainerIDs returns every container the user may study,
// sorted ascending. Admins see everything.
func (r *Resolver) AccessibleContainerIDs(ctx context.Context, userID int64) ([]int64, error) {
	r.mu.Lock()
	cached, ok := r.cache[userID]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	role, err := r.repo.UserRole(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("repo.UserRole() > %w", err)
	}

	var ids []int64
	if role == RoleAdmin {
		ids, err = r.repo.AllContainerIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("repo.AllContainerIDs() > %w", err)
		}
	} else {
		ids, err = r.repo.GrantedContainerIDs(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("repo.GrantedContainerIDs() > %w", err)
		}
	}

	r.mu.Lock()
	r.cache[userID] = ids
	r.mu.Unlock()
	return ids, nil
}

// CanAccess reports whether the user may study the container. It uses the
// same resolution as AccessibleContainerIDs so selection and mutation
// paths cannot diverge.
func (r *Resolver) CanAccess(ctx context.Context, userID, containerID int64) (bool, error) {
	ids, err := r.AccessibleContainerIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, containerID), nil
}
