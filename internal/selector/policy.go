// Package selector produces ordered candidate item sets for a
// (user, scope, policy) triple, respecting access and archive exclusion.
package selector

import (
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrUnknownPolicy is returned for a policy outside the known set.
var ErrUnknownPolicy = errors.New("unknown selection policy")

// Policy is a selection strategy.
type Policy string

const (
	// PolicyNewOnly selects items without a memory state, in display order.
	PolicyNewOnly Policy = "new_only"
	// PolicyDueOnly selects items whose due time has passed, most overdue
	// first.
	PolicyDueOnly Policy = "due_only"
	// PolicyHardOnly selects items the user is struggling with, derived at
	// query time from the memory-state counters.
	PolicyHardOnly Policy = "hard_only"
	// PolicyMixed unions due and new items; due items are always served
	// before new ones.
	PolicyMixed Policy = "mixed"
	// PolicyAllReview selects every item with a memory state, in display
	// order, for drilling.
	PolicyAllReview Policy = "all_review"
	// PolicyUnlimited behaves like PolicyAllReview but callers loop over
	// the result without a session-completion bound.
	PolicyUnlimited Policy = "unlimited"
)

// ParsePolicy converts the wire representation into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyNewOnly, PolicyDueOnly, PolicyHardOnly, PolicyMixed, PolicyAllReview, PolicyUnlimited:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Scope is the set of containers a selection draws from: a single id, an
// explicit list, or everything the user can access.
type Scope struct {
	All          bool    `json:"all"`
	ContainerIDs []int64 `json:"container_ids,omitempty"`
}

// ScopeAll covers every accessible container.
func ScopeAll() Scope {
	return Scope{All: true}
}

// ScopeContainers covers an explicit id list.
func ScopeContainers(ids ...int64) Scope {
	return Scope{ContainerIDs: ids}
}

// Hash returns a stable digest of the scope, used as part of the
// at-most-one-active session key. Id order does not affect the hash.
func (s Scope) Hash() string {
	if s.All {
		return hashString("all")
	}
	ids := slices.Clone(s.ContainerIDs)
	slices.Sort(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return hashString(strings.Join(parts, ","))
}

// Value serializes the scope as JSON for storage.
func (s Scope) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(scope) > %w", err)
	}
	return b, nil
}

// Scan deserializes a stored JSON scope.
func (s *Scope) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into Scope", src)
	}
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}
