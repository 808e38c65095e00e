package db

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/hopefoundation/hopedash/internal/normalize"
	embedsql "github.com/hopefoundation/hopedash/internal/sql"
)

// MigrationResult reports what ApplyMigrations did.
type MigrationResult struct {
	Applied []string
	Skipped []string
}

// ApplyMigrations runs the embedded SQL migrations in filename order. Each
// file runs in its own transaction together with its grants.schema_migrations
// row; files already recorded with the same checksum are skipped. A recorded
// file whose checksum changed is re-applied, which is safe because every
// statement uses IF NOT EXISTS.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) (*MigrationResult, error) {
	if _, err := pool.Exec(ctx, embedsql.BootstrapMigrations); err != nil {
		return nil, fmt.Errorf("bootstrap migration ledger: %w", err)
	}
	applied, err := appliedMigrations(ctx, pool)
	if err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(embedsql.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	res := &MigrationResult{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		data, err := fs.ReadFile(embedsql.Migrations, "migrations/"+name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		sum := normalize.ContentHash(data)

		prev, seen := applied[name]
		if seen && prev == sum {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		if seen {
			log.Warn().Str("migration", name).Msg("migration changed since it was applied, re-applying")
		}

		log.Info().Str("migration", name).Msg("applying migration")
		if err := applyOne(ctx, pool, name, string(data), sum); err != nil {
			return nil, err
		}
		res.Applied = append(res.Applied, name)
	}

	log.Info().
		Int("applied", len(res.Applied)).
		Int("skipped", len(res.Skipped)).
		Msg("migrations complete")
	return res, nil
}

func applyOne(ctx context.Context, pool *pgxpool.Pool, name, ddl, sum string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("execute migration %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, embedsql.RecordMigration, name, sum); err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

func appliedMigrations(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	rows, err := pool.Query(ctx, embedsql.AppliedMigrations)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, sum string
		if err := rows.Scan(&name, &sum); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		out[name] = sum
	}
	return out, rows.Err()
}
