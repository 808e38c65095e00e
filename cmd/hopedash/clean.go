package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hopefoundation/hopedash/internal/cleaner"
	"github.com/hopefoundation/hopedash/internal/exitcode"
	"github.com/hopefoundation/hopedash/internal/logging"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the newest grant spreadsheet into cleaned_data.csv",
	RunE:  runClean,
}

func init() {
	f := cleanCmd.Flags()
	f.StringVar(&cfg.SourceDir, "source-dir", ".", "Directory searched for the newest .xlsx/.xlsm/.xls/.csv file")
	f.StringVar(&cfg.SourceURL, "source-url", "", "Fetch the spreadsheet from this URL instead of --source-dir")
	f.StringVar(&cfg.OutputDir, "out", ".", "Directory for cleaned_data.csv")
	f.BoolVar(&cfg.WriteParquet, "parquet", false, "Also write cleaned_data.parquet")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	summary, err := cleaner.Run(ctx, log, cleaner.Options{
		SourceDir:        cfg.SourceDir,
		SourceURL:        cfg.SourceURL,
		Fetch:            cfg.SourceOptions(),
		OutputDir:        cfg.OutputDir,
		WriteParquet:     cfg.WriteParquet,
		DateColumns:      cfg.DateColumns,
		BirthDateColumns: cfg.BirthDateColumns,
		YesNoColumns:     cfg.YesNoColumns,
		YesNoDateColumns: cfg.YesNoDateColumns,
	})
	if err != nil {
		if errors.Is(err, cleaner.ErrNoSpreadsheet) {
			log.Error().Err(err).Str("dir", cfg.SourceDir).Msg("no source spreadsheet")
			os.Exit(exitcode.SourceNotFound)
		}
		var pe *cleaner.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("clean failed")
		} else {
			log.Error().Err(err).Msg("clean failed")
		}
		os.Exit(exitcode.CleanError)
	}

	fmt.Printf("Clean complete: %d rows written to %s (%d empty rows dropped, %.1fs)\n",
		summary.RowsWritten, summary.OutputCSV, summary.RowsDroppedEmpty, summary.DurationTotal.Seconds())
	return nil
}
