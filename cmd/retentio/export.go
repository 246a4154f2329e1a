package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hsaito/retentio/internal/export"
)

func newExportCommand() *cobra.Command {
	var userID int64
	var mode string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export review history and memory states to YAML files",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			exporter := export.NewExporter(db, os.Stdout)
			_, err = exporter.ExportUser(cmd.Context(), userID, outputDir, export.Options{Mode: mode})
			return err
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	cmd.Flags().StringVar(&mode, "mode", "", "Restrict memory states to one study mode")
	cmd.Flags().StringVar(&outputDir, "output", "export", "Output directory")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
