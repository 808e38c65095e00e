package cleaner

import (
	"fmt"

	"github.com/hopefoundation/hopedash/internal/normalize"
)

// Rules names the columns that get typed treatment. Names are matched
// after header sanitizing; columns absent from the sheet are ignored.
type Rules struct {
	DateColumns      []string
	BirthDateColumns []string
	YesNoColumns     []string
	YesNoDateColumns []string
}

// Result is a cleaned sheet plus counters for the summary.
type Result struct {
	Columns          []string
	Rows             [][]string
	RowsRead         int64
	RowsDroppedEmpty int64
	DatesNulled      int64
	YesNoDefaulted   int64
}

type cellKind int

const (
	plainCell cellKind = iota
	dateCell
	birthDateCell
	yesNoCell
	yesNoDateCell
)

// Clean sanitizes headers, drops entirely empty rows and rewrites the
// designated date and yes/no columns. rows[0] is the header. Clean is
// idempotent: feeding its output back in yields the same columns and rows.
func Clean(rows [][]string, rules Rules) (*Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	columns := normalize.ColumnNames(rows[0])
	for len(columns) > 0 && columns[len(columns)-1] == "" {
		columns = columns[:len(columns)-1]
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("header row is empty")
	}

	dates := normalizedSet(rules.DateColumns)
	birthDates := normalizedSet(rules.BirthDateColumns)
	yesNo := normalizedSet(rules.YesNoColumns)
	yesNoDate := normalizedSet(rules.YesNoDateColumns)
	kinds := make([]cellKind, len(columns))
	for i, c := range columns {
		switch {
		case dates[c]:
			kinds[i] = dateCell
		case birthDates[c]:
			kinds[i] = birthDateCell
		case yesNoDate[c]:
			kinds[i] = yesNoDateCell
		case yesNo[c]:
			kinds[i] = yesNoCell
		}
	}

	res := &Result{Columns: columns}
	for _, raw := range rows[1:] {
		res.RowsRead++
		if emptyRow(raw) {
			res.RowsDroppedEmpty++
			continue
		}
		out := make([]string, len(columns))
		for i := range columns {
			var v string
			if i < len(raw) {
				v = raw[i]
			}
			switch kinds[i] {
			case dateCell:
				t := normalize.ParseDate(v)
				if t == nil && !normalize.IsBlank(v) {
					res.DatesNulled++
				}
				out[i] = normalize.FormatDate(t)
			case birthDateCell:
				t := normalize.ParseBirthDate(v)
				if t == nil && !normalize.IsBlank(v) {
					res.DatesNulled++
				}
				out[i] = normalize.FormatDate(t)
			case yesNoCell:
				ans, ok := normalize.YesNo(v)
				if !ok {
					res.YesNoDefaulted++
				}
				out[i] = ans
			case yesNoDateCell:
				ans, ok := normalize.YesNoOrDate(v)
				if !ok {
					res.YesNoDefaulted++
				}
				out[i] = ans
			default:
				if normalize.IsBlank(v) {
					v = ""
				}
				out[i] = v
			}
		}
		res.Rows = append(res.Rows, out)
	}
	return res, nil
}

func emptyRow(row []string) bool {
	for _, v := range row {
		if !normalize.IsBlank(v) {
			return false
		}
	}
	return true
}
