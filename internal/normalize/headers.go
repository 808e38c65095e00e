package normalize

import "strings"

var headerReplacer = strings.NewReplacer("(", "", ")", "", " ", "_")

// ColumnName sanitizes a spreadsheet header: trims, lowercases, replaces
// spaces with underscores and strips parentheses. Applying it twice is a no-op.
func ColumnName(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = headerReplacer.Replace(h)
	return h
}

// ColumnNames sanitizes every header in order.
func ColumnNames(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = ColumnName(h)
	}
	return out
}

// IsBlank reports whether v carries no value. Spreadsheet exports spell a
// null cell in several ways.
func IsBlank(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "nat", "null", "<na>":
		return true
	}
	return false
}
