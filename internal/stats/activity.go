// Package stats serves read-only reporting over the review ledger and
// memory states. Nothing here mutates scheduling state.
package stats

import (
	"fmt"
	"sort"

	"github.com/hsaito/retentio/internal/progress"
)

// PeriodActivity holds review activity for one month.
type PeriodActivity struct {
	Period       string // "2025-01"
	ReviewsCount int    // graded answers in the period
	UniqueItems  int    // distinct items reviewed in the period
	CorrectCount int
	Accuracy     float64 // percent, 0 when no reviews
}

// AggregateActivity holds totals across all periods with a global unique
// item count.
type AggregateActivity struct {
	ReviewsCount int
	UniqueItems  int // deduplicated across periods
	CorrectCount int
	Accuracy     float64
}

// ActivityResult holds both per-period and aggregate activity.
type ActivityResult struct {
	Periods   []PeriodActivity
	Aggregate AggregateActivity
}

type periodData struct {
	reviews     int
	correct     int
	uniqueItems map[int64]struct{}
}

// CalculateActivity aggregates ledger entries into monthly activity. It
// accepts optional year and month filters (0 means no filter).
func CalculateActivity(logs []progress.ReviewLog, year, month int) ActivityResult {
	stats := make(map[string]*periodData)
	globalUnique := make(map[int64]struct{})
	var totalReviews, totalCorrect int

	for _, log := range logs {
		if log.ReviewedAt.IsZero() {
			continue
		}
		logYear := log.ReviewedAt.Year()
		logMonth := int(log.ReviewedAt.Month())
		if !matchesFilter(logYear, logMonth, year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", logYear, logMonth)
		ensurePeriodExists(stats, period)

		stats[period].reviews++
		stats[period].uniqueItems[log.ItemID] = struct{}{}
		globalUnique[log.ItemID] = struct{}{}
		totalReviews++
		if log.Correct {
			stats[period].correct++
			totalCorrect++
		}
	}

	return buildResult(stats, globalUnique, totalReviews, totalCorrect)
}

func ensurePeriodExists(stats map[string]*periodData, period string) {
	if stats[period] == nil {
		stats[period] = &periodData{
			uniqueItems: make(map[int64]struct{}),
		}
	}
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(stats map[string]*periodData, globalUnique map[int64]struct{}, totalReviews, totalCorrect int) ActivityResult {
	periods := make([]PeriodActivity, 0, len(stats))
	for period, data := range stats {
		periods = append(periods, PeriodActivity{
			Period:       period,
			ReviewsCount: data.reviews,
			UniqueItems:  len(data.uniqueItems),
			CorrectCount: data.correct,
			Accuracy:     accuracy(data.correct, data.reviews),
		})
	}

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return ActivityResult{
		Periods: periods,
		Aggregate: AggregateActivity{
			ReviewsCount: totalReviews,
			UniqueItems:  len(globalUnique),
			CorrectCount: totalCorrect,
			Accuracy:     accuracy(totalCorrect, totalReviews),
		},
	}
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
