package cleaner

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/parquetio"
	"github.com/hopefoundation/hopedash/internal/source"
)

var messySheet = [][]string{
	{" Patient ID# ", "Request Status", "Pt State", "Grant Req Date", "Application Signed?", "Payment Submitted?", "Amount (USD)"},
	{"1", "Pending", "Nebraska", "01/15/2024", "yes", "2024-01-24", "$100"},
	{"", "", "", "", "", "", ""},
	{"2", "Approved", "IA", "not a date", "maybe", "No", "250"},
	{"3", "Approved", "ne", "March 3, 2023", "N/A", "1/10/24", "75.5"},
}

var defaultRules = Rules{
	DateColumns:      []string{"grant_req_date"},
	BirthDateColumns: []string{"dob", "date_of_birth"},
	YesNoColumns:     []string{"application_signed?"},
	YesNoDateColumns: []string{"payment_submitted?"},
}

func writeXLSX(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
}

func runOpts(src, out string) Options {
	return Options{
		SourceDir:        src,
		OutputDir:        out,
		DateColumns:      defaultRules.DateColumns,
		BirthDateColumns: defaultRules.BirthDateColumns,
		YesNoColumns:     defaultRules.YesNoColumns,
		YesNoDateColumns: defaultRules.YesNoDateColumns,
	}
}

func TestClean(t *testing.T) {
	res, err := Clean(messySheet, defaultRules)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	wantCols := []string{"patient_id#", "request_status", "pt_state", "grant_req_date", "application_signed?", "payment_submitted?", "amount_usd"}
	if diff := cmp.Diff(wantCols, res.Columns); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}

	want := [][]string{
		{"1", "Pending", "Nebraska", "2024-01-15", "Yes", "2024-01-24", "$100"},
		{"2", "Approved", "IA", "", "Missing", "No", "250"},
		{"3", "Approved", "ne", "2023-03-03", "N/A", "2024-01-10", "75.5"},
	}
	if diff := cmp.Diff(want, res.Rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}

	if res.RowsRead != 4 || res.RowsDroppedEmpty != 1 {
		t.Errorf("read=%d dropped=%d", res.RowsRead, res.RowsDroppedEmpty)
	}
	if res.DatesNulled != 1 {
		t.Errorf("DatesNulled: got %d, want 1", res.DatesNulled)
	}
	if res.YesNoDefaulted != 1 {
		t.Errorf("YesNoDefaulted: got %d, want 1", res.YesNoDefaulted)
	}
}

func TestCleanIdempotent(t *testing.T) {
	first, err := Clean(messySheet, defaultRules)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Clean(append([][]string{first.Columns}, first.Rows...), defaultRules)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first.Columns, second.Columns); diff != "" {
		t.Errorf("columns changed (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Rows, second.Rows); diff != "" {
		t.Errorf("rows changed (-first +second):\n%s", diff)
	}
	if second.DatesNulled != 0 || second.YesNoDefaulted != 0 {
		t.Errorf("second pass nulled=%d defaulted=%d", second.DatesNulled, second.YesNoDefaulted)
	}
}

func TestCleanShortAndLongRows(t *testing.T) {
	rows := [][]string{
		{"A", "B", ""},
		{"1"},
		{"1", "2", "3", "4"},
	}
	res, err := Clean(rows, Rules{})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"1", ""}, {"1", "2"}}
	if diff := cmp.Diff(want, res.Rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func TestRunXLSX(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeXLSX(t, filepath.Join(src, "UNO Service Learning Data Sheet.xlsx"), messySheet)

	summary, err := Run(context.Background(), zerolog.Nop(), runOpts(src, out))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.RowsWritten != 3 {
		t.Errorf("RowsWritten: got %d, want 3", summary.RowsWritten)
	}
	if summary.SourceSHA256 == "" {
		t.Error("missing source hash")
	}

	data, err := os.ReadFile(filepath.Join(out, OutputCSV))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "patient_id#,request_status,pt_state,grant_req_date,application_signed?,payment_submitted?,amount_usd" {
		t.Errorf("header: %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("lines: got %d, want 4", len(lines))
	}
}

// Date-formatted cells render with two-digit years in the sheet's display
// format, so they must be read as serial day numbers to keep the century.
func TestRunXLSXDateCells(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	f := excelize.NewFile()
	rows := [][]any{
		{"Patient ID#", "DOB", "Grant Req Date", "Payment Submitted?"},
		{"1", time.Date(1950, 6, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
		{"2", time.Date(1920, 3, 4, 0, 0, 0, 0, time.UTC), "1/10/2024", "Yes"},
		{"3", "03/04/20", "2024-01-10", "No"},
		{"4", "1990-06-15", "01/10/24", ""},
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(filepath.Join(src, "dates.xlsx")); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	f.Close()

	summary, err := Run(context.Background(), zerolog.Nop(), runOpts(src, out))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.DatesNulled != 1 {
		t.Errorf("DatesNulled: got %d, want 1", summary.DatesNulled)
	}

	data, err := os.ReadFile(filepath.Join(out, OutputCSV))
	if err != nil {
		t.Fatal(err)
	}
	table, err := source.ReadCSV(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	var dobs, requested, paid []string
	for _, r := range table.Records() {
		dobs = append(dobs, r.DOB)
		requested = append(requested, r.GrantRequestDate)
		paid = append(paid, r.PaymentSubmitted)
	}
	if diff := cmp.Diff([]string{"1950-06-15", "1920-03-04", "", "1990-06-15"}, dobs); diff != "" {
		t.Errorf("dob (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2024-01-10", "2024-01-10", "2024-01-10", "2024-01-10"}, requested); diff != "" {
		t.Errorf("grant_req_date (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2024-01-20", "Yes", "No", "Missing"}, paid); diff != "" {
		t.Errorf("payment_submitted? (-want +got):\n%s", diff)
	}

	groups := derive.AgeGroups(table, 2024)
	if diff := cmp.Diff([]string{"65+", "65+", "Unknown", "18–34"}, groups); diff != "" {
		t.Errorf("age groups (-want +got):\n%s", diff)
	}
}

func TestRunTwiceSameOutput(t *testing.T) {
	src := t.TempDir()
	out1 := t.TempDir()
	out2 := t.TempDir()
	writeXLSX(t, filepath.Join(src, "sheet.xlsx"), messySheet)

	if _, err := Run(context.Background(), zerolog.Nop(), runOpts(src, out1)); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(out1, OutputCSV))
	if err != nil {
		t.Fatal(err)
	}

	// Feed the cleaned output back in as a new source.
	src2 := t.TempDir()
	if err := os.WriteFile(filepath.Join(src2, "again.csv"), first, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Run(context.Background(), zerolog.Nop(), runOpts(src2, out2)); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(out2, OutputCSV))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Errorf("output changed on re-run (-first +second):\n%s", diff)
	}
}

func TestRunWritesParquet(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeXLSX(t, filepath.Join(src, "sheet.xlsx"), messySheet)

	opts := runOpts(src, out)
	opts.WriteParquet = true
	summary, err := Run(context.Background(), zerolog.Nop(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	r, err := parquetio.Open(summary.OutputParquet)
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}
	defer r.Close()
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records: got %d", len(records))
	}
	if records[0].PatientID != "1" || records[0].GrantRequestDate != "2024-01-15" || records[0].PaymentSubmitted != "2024-01-24" {
		t.Errorf("record 0: %+v", records[0])
	}
}

func TestRunFromURL(t *testing.T) {
	fixture := filepath.Join(t.TempDir(), "sheet.xlsx")
	writeXLSX(t, fixture, messySheet)
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	opts := runOpts("", t.TempDir())
	opts.SourceURL = srv.URL + "/raw/main/UNO%20Service%20Learning%20Data%20Sheet.xlsx"
	summary, err := Run(context.Background(), zerolog.Nop(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.RowsWritten != 3 {
		t.Errorf("RowsWritten: got %d", summary.RowsWritten)
	}
}

func TestRunNoSpreadsheet(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Run(context.Background(), zerolog.Nop(), runOpts(dir, t.TempDir()))
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *PipelineError
	if !errors.As(err, &pe) || pe.Phase != "locate" {
		t.Errorf("expected locate PipelineError, got %v", err)
	}
	if !errors.Is(err, ErrNoSpreadsheet) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error chain: %v", err)
	}
}

func TestLocateNewest(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.xlsx")
	newer := filepath.Join(dir, "newer.csv")
	for _, p := range []string{old, newer, filepath.Join(dir, OutputCSV), filepath.Join(dir, "readme.md")} {
		if err := os.WriteFile(p, []byte("a\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	now := time.Now()
	if err := os.Chtimes(old, now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, now, now); err != nil {
		t.Fatal(err)
	}
	// The previous run's output is newest but never chosen.
	if err := os.Chtimes(filepath.Join(dir, OutputCSV), now.Add(time.Hour), now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(dir)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != newer {
		t.Errorf("got %s, want %s", got, newer)
	}

	if _, err := Locate(filepath.Join(dir, "missing")); !errors.Is(err, ErrNoSpreadsheet) {
		t.Errorf("missing dir: got %v", err)
	}
}

func TestReadRowsUnsupported(t *testing.T) {
	if _, err := ReadRows([]byte("x"), "data.ods"); err == nil {
		t.Error("expected error for .ods")
	}
}
