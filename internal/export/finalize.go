package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/hopefoundation/hopedash/internal/sql"
)

// Finalize marks the file loaded, drops rows from earlier batches of the
// same file, and runs ANALYZE.
func Finalize(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult, rows int64) (time.Duration, error) {
	start := time.Now()

	tag, err := pool.Exec(ctx, embedsql.DeleteSupersededBatches, pf.SourceFileID, pf.BatchID)
	if err != nil {
		return 0, fmt.Errorf("delete superseded batches: %w", err)
	}
	log.Info().Int64("rows_deleted", tag.RowsAffected()).Msg("superseded batches removed")

	if _, err := pool.Exec(ctx, embedsql.MarkSourceLoaded, pf.SourceFileID, rows); err != nil {
		return 0, fmt.Errorf("mark source loaded: %w", err)
	}
	log.Info().Int64("source_file_id", pf.SourceFileID).Msg("source file loaded")

	if _, err := pool.Exec(ctx, embedsql.AnalyzeRecords); err != nil {
		return 0, fmt.Errorf("analyze records: %w", err)
	}
	log.Info().Msg("ANALYZE complete")

	return time.Since(start), nil
}
