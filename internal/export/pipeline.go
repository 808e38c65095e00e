package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/hopefoundation/hopedash/internal/aggregate"
	"github.com/hopefoundation/hopedash/internal/config"
	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
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

// Run loads the cleaned dataset into Postgres: preflight → stage →
// snapshot → finalize. now anchors the age derivation and the snapshot
// windows.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config, now time.Time) (*model.ExportSummary, error) {
	totalStart := time.Now()

	anchor, err := cfg.Anchor()
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}
	n := normalize.New(cfg.Lookups)

	// Phase 1: Preflight
	log.Info().Str("source", cfg.DataSource).Msg("starting preflight")
	pf, err := Preflight(ctx, pool, log, cfg.DataSource, cfg.SourceOptions(), cfg.Lookups.Version, cfg.Force)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	if pf.AlreadyLoaded {
		log.Info().
			Int64("source_file_id", pf.SourceFileID).
			Str("sha256", pf.FileSHA256).
			Msg("file already exported, skipping (use --force to re-export)")
		return &model.ExportSummary{
			FilePath:      pf.URI,
			FileSHA256:    pf.FileSHA256,
			SourceFileID:  pf.SourceFileID,
			BatchID:       pf.BatchID.String(),
			AlreadyLoaded: true,
			DurationTotal: time.Since(totalStart),
		}, nil
	}

	// Phase 2: Stage
	log.Info().Msg("starting staging")
	if err := UpdateStatus(ctx, pool, pf.SourceFileID, "staging"); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	conv := Converter{Normalizers: n, RefYear: cfg.RefYear(now)}
	stageResult, err := Stage(ctx, pool, log, pf, conv)
	if err != nil {
		fail(ctx, pool, log, pf)
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	if err := UpdateStatus(ctx, pool, pf.SourceFileID, "staged"); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	// Phase 3: Snapshots
	log.Info().Msg("writing impact snapshots")
	snapshots, err := Snapshot(ctx, pool, log, pf, n, SnapshotWindows(anchor, now))
	if err != nil {
		fail(ctx, pool, log, pf)
		return nil, &PipelineError{Phase: "snapshot", Err: err}
	}

	// Phase 4: Finalize
	log.Info().Msg("finalizing")
	if _, err := Finalize(ctx, pool, log, pf, stageResult.RowsStaged); err != nil {
		fail(ctx, pool, log, pf)
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}

	summary := &model.ExportSummary{
		FilePath:         pf.URI,
		FileSHA256:       pf.FileSHA256,
		SourceFileID:     pf.SourceFileID,
		BatchID:          pf.BatchID.String(),
		RowsStaged:       stageResult.RowsStaged,
		SnapshotsWritten: snapshots,
		DurationStage:    stageResult.Duration,
		DurationTotal:    time.Since(totalStart),
	}

	log.Info().
		Int64("rows_staged", summary.RowsStaged).
		Int("snapshots", summary.SnapshotsWritten).
		Str("batch_id", summary.BatchID).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("export pipeline complete")

	return summary, nil
}

// fail marks the source file failed and removes the partial batch.
func fail(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult) {
	_ = UpdateStatus(ctx, pool, pf.SourceFileID, "failed")
	if err := Cleanup(ctx, pool, log, pf.BatchID); err != nil {
		log.Warn().Err(err).Str("batch_id", pf.BatchID.String()).Msg("batch cleanup failed (non-fatal)")
	}
}

// SnapshotWindows returns the reporting windows stored with every export.
func SnapshotWindows(anchor, now time.Time) []aggregate.Window {
	return []aggregate.Window{
		aggregate.SinceAnchor(anchor),
		aggregate.CalendarYear(now.Year()),
		aggregate.Trailing12Months(now),
	}
}
