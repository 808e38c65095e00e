package cleaner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
	"github.com/hopefoundation/hopedash/internal/source"
)

// Output file names written into Options.OutputDir.
const (
	OutputCSV     = "cleaned_data.csv"
	OutputParquet = "cleaned_data.parquet"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Options configures a cleaning run.
type Options struct {
	// SourceDir is searched for the most recently modified spreadsheet.
	// Ignored when SourceURL is set.
	SourceDir string
	SourceURL string
	Fetch     source.Options

	OutputDir    string
	WriteParquet bool

	DateColumns      []string
	BirthDateColumns []string
	YesNoColumns     []string
	YesNoDateColumns []string
}

// Run executes locate → read → transform → write and returns a summary.
func Run(ctx context.Context, log zerolog.Logger, opts Options) (*model.CleanSummary, error) {
	totalStart := time.Now()

	// Phase 1: Locate
	var (
		name string
		data []byte
		err  error
	)
	if opts.SourceURL != "" {
		name = opts.SourceURL
		log.Info().Str("url", name).Msg("fetching source spreadsheet")
		data, err = source.Fetch(ctx, opts.SourceURL, opts.Fetch)
		if err != nil {
			return nil, &PipelineError{Phase: "locate", Err: err}
		}
	} else {
		name, err = Locate(opts.SourceDir)
		if err != nil {
			return nil, &PipelineError{Phase: "locate", Err: err}
		}
		log.Info().Str("file", name).Msg("found source spreadsheet")
		data, err = source.Fetch(ctx, name, opts.Fetch)
		if err != nil {
			return nil, &PipelineError{Phase: "locate", Err: err}
		}
	}

	// Phase 2: Read
	readStart := time.Now()
	rows, err := ReadRows(data, name)
	if err != nil {
		return nil, &PipelineError{Phase: "read", Err: err}
	}
	readDur := time.Since(readStart)

	// Phase 3: Transform
	transformStart := time.Now()
	res, err := Clean(rows, Rules{
		DateColumns:      opts.DateColumns,
		BirthDateColumns: opts.BirthDateColumns,
		YesNoColumns:     opts.YesNoColumns,
		YesNoDateColumns: opts.YesNoDateColumns,
	})
	if err != nil {
		return nil, &PipelineError{Phase: "transform", Err: err}
	}
	log.Info().
		Int64("rows_read", res.RowsRead).
		Int64("rows_dropped_empty", res.RowsDroppedEmpty).
		Int64("dates_nulled", res.DatesNulled).
		Int64("yes_no_defaulted", res.YesNoDefaulted).
		Dur("read_duration", readDur).
		Dur("duration", time.Since(transformStart)).
		Msg("transform complete")

	// Phase 4: Write
	writeStart := time.Now()
	csvPath := filepath.Join(opts.OutputDir, OutputCSV)
	if err := WriteCSV(csvPath, res.Columns, res.Rows); err != nil {
		return nil, &PipelineError{Phase: "write", Err: err}
	}
	var parquetPath string
	if opts.WriteParquet {
		parquetPath = filepath.Join(opts.OutputDir, OutputParquet)
		if err := WriteParquet(parquetPath, res.Columns, res.Rows); err != nil {
			return nil, &PipelineError{Phase: "write", Err: err}
		}
	}

	summary := &model.CleanSummary{
		SourcePath:       name,
		SourceSHA256:     normalize.ContentHash(data),
		OutputCSV:        csvPath,
		OutputParquet:    parquetPath,
		Columns:          res.Columns,
		RowsRead:         res.RowsRead,
		RowsDroppedEmpty: res.RowsDroppedEmpty,
		RowsWritten:      int64(len(res.Rows)),
		DatesNulled:      res.DatesNulled,
		YesNoDefaulted:   res.YesNoDefaulted,
		DurationRead:     readDur,
		DurationWrite:    time.Since(writeStart),
		DurationTotal:    time.Since(totalStart),
	}

	log.Info().
		Str("output", csvPath).
		Int64("rows_written", summary.RowsWritten).
		Int("columns", len(summary.Columns)).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("clean pipeline complete")

	return summary, nil
}

// normalizedSet builds a lookup of sanitized column names.
func normalizedSet(cols []string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[normalize.ColumnName(c)] = true
	}
	return m
}
