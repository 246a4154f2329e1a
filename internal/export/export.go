// Package export writes a user's review history and memory states to
// YAML files for backup or offline analysis.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/hsaito/retentio/internal/progress"
)

// Result tracks counts for each export operation.
type Result struct {
	ReviewLogs   int
	MemoryStates int
}

// Options controls export behavior.
type Options struct {
	// Mode restricts the memory-state export to a single study mode.
	// Empty exports every mode.
	Mode string
}

// Exporter reads a user's learning data from the database and writes it
// through YAML sinks.
type Exporter struct {
	db     *sqlx.DB
	writer io.Writer
}

// NewExporter creates a new Exporter. Progress messages go to writer.
func NewExporter(db *sqlx.DB, writer io.Writer) *Exporter {
	return &Exporter{db: db, writer: writer}
}

// ExportUser writes review_logs.yml and memory_states.yml for one user
// into outputDir. Rows are ordered by id so repeated exports of the same
// data produce identical files.
func (e *Exporter) ExportUser(ctx context.Context, userID int64, outputDir string, opts Options) (*Result, error) {
	var logs []progress.ReviewLog
	if err := e.db.SelectContext(ctx, &logs,
		"SELECT * FROM review_logs WHERE user_id = ? ORDER BY id",
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_logs) > %w", err)
	}

	query := "SELECT * FROM memory_states WHERE user_id = ? ORDER BY id"
	args := []any{userID}
	if opts.Mode != "" {
		query = "SELECT * FROM memory_states WHERE user_id = ? AND mode = ? ORDER BY id"
		args = append(args, opts.Mode)
	}
	var states []progress.MemoryStateRecord
	if err := e.db.SelectContext(ctx, &states, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(memory_states) > %w", err)
	}

	if err := NewYAMLReviewSink(outputDir).WriteAll(logs); err != nil {
		return nil, err
	}
	if err := NewYAMLStateSink(outputDir).WriteAll(states); err != nil {
		return nil, err
	}

	result := &Result{ReviewLogs: len(logs), MemoryStates: len(states)}
	fmt.Fprintf(e.writer, "Exported %d review logs and %d memory states to %s\n",
		result.ReviewLogs, result.MemoryStates, outputDir)
	return result, nil
}
