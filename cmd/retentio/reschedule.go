package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hsaito/retentio/internal/cli"
	"github.com/hsaito/retentio/internal/memory"
	"github.com/hsaito/retentio/internal/progress"
	"github.com/hsaito/retentio/internal/worker"
)

func newRescheduleCommand() *cobra.Command {
	var userID int64
	var mode string

	cmd := &cobra.Command{
		Use:   "reschedule",
		Short: "Recompute due dates after a scheduler parameter change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			model, err := memory.NewModel(cfg.Scheduler.Params)
			if err != nil {
				return err
			}

			runner := worker.NewRunner(
				db,
				progress.NewDBMemoryStateRepository(),
				progress.NewDBReviewLogRepository(db),
				model,
				slog.Default(),
				cfg.Worker.BatchSize,
				cfg.Worker.RetryAttempts,
				cfg.Worker.RetryDelay,
			)
			return cli.RunReschedule(cmd.Context(), runner, os.Stdout, userID, mode)
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	cmd.Flags().StringVar(&mode, "mode", "flashcards", "Study mode")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
