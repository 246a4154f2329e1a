// Package session owns the lifecycle of study sessions: starting them
// against the item selector, serving batches, applying answers to the
// memory model, and supporting cross-device resumption.
package session

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hsaito/retentio/internal/selector"
)

var (
	// ErrNoEligibleItems is returned by Start when the policy matches
	// nothing in scope. A normal terminal signal, not a storage failure.
	ErrNoEligibleItems = errors.New("no eligible items for this policy and scope")
	// ErrItemNotInSession is returned when an answer references an item
	// that was never served in the session.
	ErrItemNotInSession = errors.New("item was not served in this session")
	// ErrConflict is returned when a concurrent mutation won the race.
	// The caller may retry the whole call.
	ErrConflict = errors.New("session was modified concurrently")
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionNotActive is returned when mutating a completed or
	// cancelled session.
	ErrSessionNotActive = errors.New("session is not active")
)

// Status is the lifecycle stage of a session. Completed and cancelled are
// terminal; the descriptor becomes read-only history.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Int64List is an id list stored as a JSON column.
type Int64List []int64

// Value serializes the list as JSON.
func (l Int64List) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(id list) > %w", err)
	}
	return b, nil
}

// Scan deserializes a stored JSON id list.
func (l *Int64List) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into Int64List", src)
	}
}

// Contains reports whether id is in the list.
func (l Int64List) Contains(id int64) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Descriptor is one study session. It is persisted after every mutation
// so a second device can load the active descriptor and continue.
type Descriptor struct {
	ID               string          `db:"id" json:"id"`
	UserID           int64           `db:"user_id" json:"user_id"`
	Mode             string          `db:"mode" json:"mode"`
	Policy           selector.Policy `db:"policy" json:"policy"`
	Scope            selector.Scope  `db:"scope" json:"scope"`
	ScopeHash        string          `db:"scope_hash" json:"scope_hash"`
	ProcessedItemIDs Int64List       `db:"processed_item_ids" json:"processed_item_ids"`
	TotalEligible    int             `db:"total_eligible" json:"total_eligible"`
	CorrectCount     int             `db:"correct_count" json:"correct_count"`
	IncorrectCount   int             `db:"incorrect_count" json:"incorrect_count"`
	OtherCount       int             `db:"other_count" json:"other_count"`
	Points           int             `db:"points" json:"points"`
	Status           Status          `db:"status" json:"status"`
	StartedAt        time.Time       `db:"started_at" json:"started_at"`
	LastActivityAt   time.Time       `db:"last_activity_at" json:"last_activity_at"`
	EndedAt          *time.Time      `db:"ended_at" json:"ended_at,omitempty"`
	Version          int64           `db:"version" json:"-"`
	CreatedAt        time.Time       `db:"created_at" json:"-"`
	UpdatedAt        time.Time       `db:"updated_at" json:"-"`
}

// IsActive reports whether the session can still be mutated.
func (d *Descriptor) IsActive() bool {
	return d.Status == StatusActive
}
