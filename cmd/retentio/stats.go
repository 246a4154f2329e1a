package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hsaito/retentio/internal/cli"
	"github.com/hsaito/retentio/internal/progress"
	"github.com/hsaito/retentio/internal/stats"
)

func newStatsCommand() *cobra.Command {
	var userID int64
	var mode string
	var year, month int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a learning overview and monthly review activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			svc := stats.NewService(db, progress.NewDBReviewLogRepository(db))
			return cli.RunStatsReport(cmd.Context(), svc, os.Stdout, userID, mode, year, month)
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	cmd.Flags().StringVar(&mode, "mode", "flashcards", "Study mode")
	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
