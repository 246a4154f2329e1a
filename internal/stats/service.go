package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hsaito/retentio/internal/memory"
	"github.com/hsaito/retentio/internal/progress"
)

// Overview summarizes one user's scheduling position in a mode.
type Overview struct {
	CountsByState map[memory.State]int `json:"counts_by_state"`
	DueNow        int                  `json:"due_now"`
	TotalReviews  int                  `json:"total_reviews"`
	Accuracy      float64              `json:"accuracy"`
}

// ContainerDue is the due/new workload for one container.
type ContainerDue struct {
	ContainerID int64  `db:"container_id" json:"container_id"`
	Name        string `db:"name" json:"name"`
	DueCount    int    `db:"due_count" json:"due_count"`
	NewCount    int    `db:"new_count" json:"new_count"`
}

// Service runs the reporting queries.
type Service struct {
	db     *sqlx.DB
	ledger progress.ReviewLogRepository
	now    func() time.Time
}

// NewService creates a Service.
func NewService(db *sqlx.DB, ledger progress.ReviewLogRepository) *Service {
	return &Service{db: db, ledger: ledger, now: time.Now}
}

// Overview returns state counts, the current due count, and lifetime
// accuracy for a (user, mode).
func (s *Service) Overview(ctx context.Context, userID int64, mode string) (*Overview, error) {
	var rows []struct {
		State memory.State `db:"state"`
		Count int          `db:"count"`
	}
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT state, COUNT(*) AS count FROM memory_states WHERE user_id = ? AND mode = ? GROUP BY state",
		userID, mode); err != nil {
		return nil, fmt.Errorf("db.SelectContext(state counts) > %w", err)
	}

	overview := &Overview{CountsByState: make(map[memory.State]int, len(rows))}
	for _, row := range rows {
		overview.CountsByState[row.State] = row.Count
	}

	if err := s.db.GetContext(ctx, &overview.DueNow,
		"SELECT COUNT(*) FROM memory_states WHERE user_id = ? AND mode = ? AND due <= ?",
		userID, mode, s.now()); err != nil {
		return nil, fmt.Errorf("db.GetContext(due count) > %w", err)
	}

	var totals struct {
		Correct   int `db:"correct"`
		Incorrect int `db:"incorrect"`
	}
	if err := s.db.GetContext(ctx, &totals,
		`SELECT COALESCE(SUM(times_correct), 0) AS correct, COALESCE(SUM(times_incorrect), 0) AS incorrect
		FROM memory_states WHERE user_id = ? AND mode = ?`,
		userID, mode); err != nil {
		return nil, fmt.Errorf("db.GetContext(accuracy totals) > %w", err)
	}
	overview.TotalReviews = totals.Correct + totals.Incorrect
	overview.Accuracy = accuracy(totals.Correct, overview.TotalReviews)
	return overview, nil
}

// DueByContainer returns the per-container due and unseen counts for the
// given container set, ordered by container id.
func (s *Service) DueByContainer(ctx context.Context, userID int64, mode string, containerIDs []int64) ([]ContainerDue, error) {
	if len(containerIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT c.id AS container_id, c.name AS name,
		COUNT(CASE WHEN ms.due <= ? THEN 1 END) AS due_count,
		COUNT(CASE WHEN ms.id IS NULL THEN 1 END) AS new_count
		FROM containers c
		JOIN items i ON i.container_id = c.id
		LEFT JOIN memory_states ms ON ms.item_id = i.id AND ms.user_id = ? AND ms.mode = ?
		WHERE c.id IN (?)
		GROUP BY c.id, c.name
		ORDER BY c.id`,
		s.now(), userID, mode, containerIDs)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In() > %w", err)
	}

	var result []ContainerDue
	if err := s.db.SelectContext(ctx, &result, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due by container) > %w", err)
	}
	return result, nil
}

// RecentActivity returns the user's last reviews, newest first.
func (s *Service) RecentActivity(ctx context.Context, userID int64, limit int) ([]progress.ReviewLog, error) {
	return s.ledger.FindRecentByUser(ctx, userID, limit)
}

// MonthlyActivity aggregates the user's recent ledger entries into
// monthly buckets, optionally filtered to a year or month.
func (s *Service) MonthlyActivity(ctx context.Context, userID int64, year, month int) (ActivityResult, error) {
	logs, err := s.ledger.FindRecentByUser(ctx, userID, activityWindow)
	if err != nil {
		return ActivityResult{}, err
	}
	return CalculateActivity(logs, year, month), nil
}

// activityWindow bounds how much ledger history one aggregation reads.
const activityWindow = 10000
