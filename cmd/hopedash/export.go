package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hopefoundation/hopedash/internal/db"
	"github.com/hopefoundation/hopedash/internal/exitcode"
	"github.com/hopefoundation/hopedash/internal/export"
	"github.com/hopefoundation/hopedash/internal/logging"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Load the cleaned dataset and impact snapshots into Postgres",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&cfg.Force, "force", false, "Re-export even if the file SHA was already loaded")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN, log)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := export.Run(ctx, pool, log, &cfg, time.Now())
	if err != nil {
		var pe *export.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("export failed")
			if pe.Phase == "preflight" {
				os.Exit(exitcode.LoadError)
			}
			os.Exit(exitcode.ExportError)
		}
		log.Error().Err(err).Msg("export failed")
		os.Exit(exitcode.ExportError)
	}

	if summary.AlreadyLoaded {
		fmt.Printf("Already exported: source file %d (%s)\n", summary.SourceFileID, summary.FileSHA256[:12])
		return nil
	}
	fmt.Printf("Export complete: %d records, %d snapshots, batch %s (%.1fs)\n",
		summary.RowsStaged, summary.SnapshotsWritten, summary.BatchID, summary.DurationTotal.Seconds())
	return nil
}
