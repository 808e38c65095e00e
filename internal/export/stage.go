package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/hopefoundation/hopedash/internal/db"
	"github.com/hopefoundation/hopedash/internal/model"
)

const copyBufferSize = 1024

// StageResult holds metrics from the staging phase.
type StageResult struct {
	RowsRead   int64
	RowsStaged int64
	Duration   time.Duration
}

// Stage converts the preflight table into ExportRows and COPY-loads them
// into grants.records via a channel-backed CopyFromSource.
func Stage(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult, conv Converter) (*StageResult, error) {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan *model.ExportRow, copyBufferSize)
	errCh := make(chan error, 1)

	var rowsRead int64

	// Producer goroutine: record → export row → channel
	go func() {
		defer close(ch)
		for i := 0; i < pf.Table.Len(); i++ {
			rec := pf.Table.Row(i)
			rowsRead++
			row := conv.ToExportRow(&rec, pf.BatchID, pf.SourceFileID, int64(i+1))
			select {
			case ch <- row:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		errCh <- nil
	}()

	// Consumer: COPY from channel into grants.records
	rowsStaged, err := pool.CopyFrom(ctx,
		pgx.Identifier{"grants", "records"},
		model.ExportColumns(),
		db.NewChannelSource(ch),
	)
	// Unblock the producer if COPY stopped early.
	cancel()

	prodErr := <-errCh
	if err != nil {
		return nil, fmt.Errorf("stage copy: %w", err)
	}
	if prodErr != nil {
		return nil, fmt.Errorf("stage producer: %w", prodErr)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_read", rowsRead).
		Int64("rows_staged", rowsStaged).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(rowsStaged)/dur.Seconds()).
		Msg("staging complete")

	return &StageResult{
		RowsRead:   rowsRead,
		RowsStaged: rowsStaged,
		Duration:   dur,
	}, nil
}
