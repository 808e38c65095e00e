package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

// ReadCSV parses a comma-separated file with a header row. Headers are
// sanitized the same way the cleaner writes them and matched against the
// known Record columns; unknown columns are ignored.
func ReadCSV(r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty file: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := normalize.ColumnNames(header)

	fields := make([]*model.Field, len(columns))
	matched := 0
	for i, col := range columns {
		if f, ok := model.FieldByColumn(col); ok {
			f := f
			fields[i] = &f
			matched++
		}
	}
	if matched == 0 {
		return nil, fmt.Errorf("no recognized columns in header %v", columns)
	}

	var records []model.Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		var rec model.Record
		for i, v := range row {
			if i < len(fields) && fields[i] != nil {
				*fields[i].Ptr(&rec) = v
			}
		}
		records = append(records, rec)
	}
	return model.NewTable(columns, records), nil
}
