package export

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
	"github.com/hopefoundation/hopedash/internal/source"
	embedsql "github.com/hopefoundation/hopedash/internal/sql"
)

// requiredColumns must be present in the cleaned header for an export.
var requiredColumns = []string{"patient_id#", "grant_req_date", "amount"}

// PreflightResult holds all context resolved during the preflight phase.
type PreflightResult struct {
	// URI is the data source as configured, stored as-is.
	URI string
	// FileSHA256 is the hex-encoded SHA-256 digest of the fetched bytes.
	FileSHA256 string
	FileSize   int64
	// SourceFileID is the grants.source_files key, inserted or looked up by sha256.
	SourceFileID int64
	// BatchID tags every row written by this run.
	BatchID uuid.UUID
	Table   *model.Table
	// AlreadyLoaded is true when the sha256 is already loaded and force is off.
	AlreadyLoaded bool
}

// Preflight fetches and decodes the cleaned file, checks its columns, and
// registers it in grants.source_files.
func Preflight(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, uri string, opts source.Options, lookupsVersion string, force bool) (*PreflightResult, error) {
	start := time.Now()

	data, err := source.Fetch(ctx, uri, opts)
	if err != nil {
		return nil, fmt.Errorf("preflight fetch: %w", err)
	}
	sha := normalize.ContentHash(data)

	table, err := source.Decode(data, uri)
	if err != nil {
		return nil, fmt.Errorf("preflight decode: %w", err)
	}
	if err := ValidateColumns(table.Columns()); err != nil {
		return nil, fmt.Errorf("preflight validate: %w", err)
	}

	log.Info().
		Str("file", path.Base(uri)).
		Str("sha256", sha).
		Int("rows", table.Len()).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	id, alreadyLoaded, err := registerSourceFile(ctx, pool, path.Base(uri), sha, int64(len(data)), int64(table.Len()), lookupsVersion, force)
	if err != nil {
		return nil, fmt.Errorf("preflight register file: %w", err)
	}

	return &PreflightResult{
		URI:           uri,
		FileSHA256:    sha,
		FileSize:      int64(len(data)),
		SourceFileID:  id,
		BatchID:       uuid.New(),
		Table:         table,
		AlreadyLoaded: alreadyLoaded,
	}, nil
}

// ValidateColumns reports the required columns missing from cols.
// Aliases count for their canonical column.
func ValidateColumns(cols []string) error {
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		if f, ok := model.FieldByColumn(c); ok {
			have[f.Column] = true
		}
	}
	var missing []string
	for _, c := range requiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %v", missing)
	}
	return nil
}

func registerSourceFile(ctx context.Context, pool *pgxpool.Pool, name, sha string, size, rows int64, lookupsVersion string, force bool) (int64, bool, error) {
	var id int64
	err := pool.QueryRow(ctx, embedsql.RegisterSourceFile, name, sha, size, rows, lookupsVersion).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// Already registered (ON CONFLICT DO NOTHING returned no rows)
		var status string
		if err2 := pool.QueryRow(ctx, embedsql.LookupSourceFile, sha).Scan(&id, &status); err2 != nil {
			return 0, false, fmt.Errorf("lookup existing source file: %w", err2)
		}
		if !force && status == "loaded" {
			return id, true, nil
		}
		// Reset status for re-export
		if err3 := UpdateStatus(ctx, pool, id, "pending"); err3 != nil {
			return 0, false, fmt.Errorf("reset source status: %w", err3)
		}
		return id, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("register source file: %w", err)
	}
	return id, false, nil
}

// UpdateStatus updates the source file status.
func UpdateStatus(ctx context.Context, pool *pgxpool.Pool, sourceFileID int64, status string) error {
	_, err := pool.Exec(ctx, embedsql.UpdateSourceStatus, sourceFileID, status)
	return err
}
