package cleaner

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/parquetio"
)

// WriteCSV writes columns and rows to path via a temp file in the same
// directory, so a reader never sees a half-written file.
func WriteCSV(path string, columns []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cleaned-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// WriteParquet maps the cleaned rows onto Records and writes them with the
// Record schema. Columns with no Record field are not carried over.
func WriteParquet(path string, columns []string, rows [][]string) error {
	fields := make([]*model.Field, len(columns))
	for i, c := range columns {
		if f, ok := model.FieldByColumn(c); ok {
			f := f
			fields[i] = &f
		}
	}
	records := make([]model.Record, len(rows))
	for r, row := range rows {
		for i, v := range row {
			if fields[i] != nil {
				*fields[i].Ptr(&records[r]) = v
			}
		}
	}
	if err := parquetio.WriteFile(path, records); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	return nil
}
