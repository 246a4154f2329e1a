package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hsaito/retentio/internal/access"
	"github.com/hsaito/retentio/internal/bootstrap"
	"github.com/hsaito/retentio/internal/catalog"
	"github.com/hsaito/retentio/internal/config"
	"github.com/hsaito/retentio/internal/database"
	"github.com/hsaito/retentio/internal/memory"
	"github.com/hsaito/retentio/internal/progress"
	"github.com/hsaito/retentio/internal/selector"
	"github.com/hsaito/retentio/internal/server"
	"github.com/hsaito/retentio/internal/session"
	"github.com/hsaito/retentio/internal/stats"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "retentio-server",
		Short:         "Retentio spaced repetition HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("config.Load() > %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	app.AddShutdownHook(func(context.Context) error { return db.Close() })

	model, err := memory.NewModel(cfg.Scheduler.Params)
	if err != nil {
		return fmt.Errorf("memory.NewModel() > %w", err)
	}

	resolver := access.NewResolver(access.NewDBRepository(db))
	containers := catalog.NewDBRepository(db)
	states := progress.NewDBMemoryStateRepository()
	ledger := progress.NewDBReviewLogRepository(db)

	items := selector.New(db, resolver, containers, cfg.Scheduler.Params)
	orchestrator := session.NewOrchestrator(
		db, session.NewDBRepository(), states, ledger, items, model, logger)
	statsSvc := stats.NewService(db, ledger)

	handler, err := server.NewHandler(orchestrator, statsSvc, resolver, cfg.Scheduler.ScaleSet(), logger)
	if err != nil {
		return fmt.Errorf("server.NewHandler() > %w", err)
	}

	mux := http.NewServeMux()
	handler.Routes(mux)

	srv := &http.Server{
		Addr: cfg.Server.Address,
		Handler: server.CORSMiddleware(
			h2c.NewHandler(server.LoggingMiddleware(mux, logger), &http2.Server{}),
			[]string{cfg.Server.CORSOrigin},
		),
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		logger.Info("starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}
