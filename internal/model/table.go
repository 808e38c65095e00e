package model

// Table is an immutable, in-memory set of grant request records.
// Transform functions take a *Table and return new slices or tables;
// nothing mutates a Table after NewTable returns.
type Table struct {
	records []Record
	columns []string
}

// NewTable copies records and the source header order into a new Table.
func NewTable(columns []string, records []Record) *Table {
	t := &Table{
		records: make([]Record, len(records)),
		columns: make([]string, len(columns)),
	}
	copy(t.records, records)
	copy(t.columns, columns)
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) Record {
	return t.records[i]
}

// Records returns a copy of all rows.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Columns returns the header names as they appeared in the source.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Filter returns a new Table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(Record) bool) *Table {
	out := &Table{columns: t.columns}
	for _, r := range t.records {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}

// Column extracts one raw column, aligned with row indexes.
func (t *Table) Column(get func(Record) string) []string {
	out := make([]string, len(t.records))
	for i, r := range t.records {
		out[i] = get(r)
	}
	return out
}
