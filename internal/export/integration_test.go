package export_test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hopefoundation/hopedash/internal/config"
	"github.com/hopefoundation/hopedash/internal/db"
	"github.com/hopefoundation/hopedash/internal/export"
	"github.com/hopefoundation/hopedash/internal/logging"
)

const (
	testPort     = 15433
	testDB       = "hopetest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var testDSN string

const fixtureCSV = `Patient ID#,Request Status,Application Signed?,Pt State,Gender,DOB,Total Household Gross Monthly Income,Household Size,Insurance Type,Grant Req Date,Payment Submitted?,Remaining Balance,App Year,Type of Assistance (CLASS),Amount
1,Approved,Yes,NE,F,1980-05-01,3000,2,Medicaid,2024-01-10,2024-01-20,100,2024,Rent,$200.00
1,Approved,Yes,Nebraska,F,1980-05-01,3000,2,Medicaid,2024-03-01,Yes,0,2024,Utilities,50
2,Pending,No,ia.,m,1999-02-02,1000,0,none,2023-12-31,,25.5,2023,Rent,100
3,Approved,Yes,ZZ,,,,,,not a date,No,,,Gas,
`

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stderr, "SKIP: embedded postgres tests in -short mode")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupDB connects, drops the grants schema and re-applies migrations.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	log := logging.Setup("text")
	pool, err := db.NewPool(ctx, testDSN, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS grants CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	if _, err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func writeFixture(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cleaned_data.csv")
	if err := os.WriteFile(p, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func testConfig(data string) *config.Config {
	cfg := config.New()
	cfg.DataSource = data
	cfg.ReferenceYear = 2024
	return &cfg
}

func queryInt(t *testing.T, pool *pgxpool.Pool, q string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := pool.QueryRow(context.Background(), q, args...).Scan(&n); err != nil {
		t.Fatalf("query %q: %v", q, err)
	}
	return n
}

func TestExportEndToEnd(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logging.Setup("text")
	cfg := testConfig(writeFixture(t))
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	summary, err := export.Run(ctx, pool, log, cfg, now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	t.Run("summary", func(t *testing.T) {
		if summary.AlreadyLoaded {
			t.Error("first run reported AlreadyLoaded")
		}
		if summary.RowsStaged != 4 {
			t.Errorf("RowsStaged = %d, want 4", summary.RowsStaged)
		}
		if summary.SnapshotsWritten != 3 {
			t.Errorf("SnapshotsWritten = %d, want 3", summary.SnapshotsWritten)
		}
	})

	t.Run("records", func(t *testing.T) {
		if n := queryInt(t, pool, "SELECT count(*) FROM grants.records"); n != 4 {
			t.Errorf("records = %d, want 4", n)
		}
		if n := queryInt(t, pool, "SELECT sum(amount_cents)::bigint FROM grants.records"); n != 35000 {
			t.Errorf("sum(amount_cents) = %d, want 35000", n)
		}
		if n := queryInt(t, pool, "SELECT count(*) FROM grants.records WHERE state_code = 'NE'"); n != 2 {
			t.Errorf("NE records = %d, want 2", n)
		}
		if n := queryInt(t, pool, "SELECT count(*) FROM grants.records WHERE grant_req_date IS NULL"); n != 1 {
			t.Errorf("undated records = %d, want 1", n)
		}
		if n := queryInt(t, pool, "SELECT days_to_payment FROM grants.records WHERE source_row_number = 1"); n != 10 {
			t.Errorf("days_to_payment = %d, want 10", n)
		}
	})

	t.Run("snapshots", func(t *testing.T) {
		var records, patients, total int64
		err := pool.QueryRow(ctx,
			"SELECT records, patients, total_amount_cents FROM grants.impact_snapshots WHERE window_kind = 'year'",
		).Scan(&records, &patients, &total)
		if err != nil {
			t.Fatalf("query snapshot: %v", err)
		}
		if records != 2 || patients != 1 || total != 25000 {
			t.Errorf("year snapshot = %d records, %d patients, %d cents; want 2, 1, 25000", records, patients, total)
		}
		if n := queryInt(t, pool, "SELECT records FROM grants.impact_snapshots WHERE window_kind = 'since-anchor'"); n != 3 {
			t.Errorf("since-anchor records = %d, want 3", n)
		}
	})

	t.Run("source_file_loaded", func(t *testing.T) {
		var status string
		var rows int64
		err := pool.QueryRow(ctx,
			"SELECT status, row_count FROM grants.source_files WHERE source_file_id = $1", summary.SourceFileID,
		).Scan(&status, &rows)
		if err != nil {
			t.Fatalf("query source file: %v", err)
		}
		if status != "loaded" || rows != 4 {
			t.Errorf("source file = %s/%d, want loaded/4", status, rows)
		}
	})
}

func TestExportSkipsLoadedFile(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logging.Setup("text")
	cfg := testConfig(writeFixture(t))
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	first, err := export.Run(ctx, pool, log, cfg, now)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := export.Run(ctx, pool, log, cfg, now)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !second.AlreadyLoaded {
		t.Error("second run should report AlreadyLoaded")
	}
	if second.SourceFileID != first.SourceFileID {
		t.Errorf("SourceFileID = %d, want %d", second.SourceFileID, first.SourceFileID)
	}
	if n := queryInt(t, pool, "SELECT count(*) FROM grants.records"); n != 4 {
		t.Errorf("records after skip = %d, want 4", n)
	}
}

func TestExportForceReplacesBatch(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logging.Setup("text")
	cfg := testConfig(writeFixture(t))
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	first, err := export.Run(ctx, pool, log, cfg, now)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	cfg.Force = true
	second, err := export.Run(ctx, pool, log, cfg, now)
	if err != nil {
		t.Fatalf("forced Run: %v", err)
	}
	if second.BatchID == first.BatchID {
		t.Fatal("forced run reused the batch id")
	}
	if n := queryInt(t, pool, "SELECT count(*) FROM grants.records"); n != 4 {
		t.Errorf("records after force = %d, want 4", n)
	}
	if n := queryInt(t, pool, "SELECT count(*) FROM grants.records WHERE batch_id = $1", uuid.MustParse(first.BatchID)); n != 0 {
		t.Errorf("old batch still has %d records", n)
	}
	if n := queryInt(t, pool, "SELECT count(*) FROM grants.impact_snapshots"); n != 3 {
		t.Errorf("snapshots after force = %d, want 3", n)
	}
}

func TestExportMissingColumns(t *testing.T) {
	pool := setupDB(t)
	p := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(p, []byte("gender,dob\nF,1990-01-01\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := export.Run(context.Background(), pool, logging.Setup("text"), testConfig(p), time.Now())
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	var pe *export.PipelineError
	if !errors.As(err, &pe) || pe.Phase != "preflight" {
		t.Errorf("error = %v, want preflight PipelineError", err)
	}
}

func TestMigrationsAreRecorded(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	res, err := db.ApplyMigrations(ctx, pool, logging.Setup("text"))
	if err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}
	if len(res.Applied) != 0 {
		t.Errorf("re-applied %v, want none", res.Applied)
	}
	if len(res.Skipped) != 3 {
		t.Errorf("skipped %d migrations, want 3", len(res.Skipped))
	}
	if n := queryInt(t, pool, "SELECT count(*) FROM grants.schema_migrations"); n != 3 {
		t.Errorf("schema_migrations rows = %d, want 3", n)
	}
}
