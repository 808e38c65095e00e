package derive

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

// Amounts parses the support amount column.
func Amounts(t *model.Table) []decimal.NullDecimal {
	return parseColumn(t, func(r model.Record) string { return r.Amount })
}

// Balances parses the remaining balance column.
func Balances(t *model.Table) []decimal.NullDecimal {
	return parseColumn(t, func(r model.Record) string { return r.RemainingBalance })
}

func parseColumn(t *model.Table, get func(model.Record) string) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, t.Len())
	for i := range out {
		out[i] = normalize.ParseAmount(get(t.Row(i)))
	}
	return out
}

// States normalizes the state column.
func States(t *model.Table, n *normalize.StateNormalizer) []string {
	return t.Column(func(r model.Record) string { return n.Normalize(r.State) })
}

// Categories applies a category normalizer to one raw column.
func Categories(t *model.Table, n *normalize.CategoryNormalizer, get func(model.Record) string) []string {
	return t.Column(func(r model.Record) string { return n.Normalize(get(r)) })
}

// RequestDates parses the grant request date column; nil entries are unparseable.
func RequestDates(t *model.Table) []*time.Time {
	out := make([]*time.Time, t.Len())
	for i := range out {
		out[i] = normalize.ParseDate(t.Row(i).GrantRequestDate)
	}
	return out
}

// AppYears renders the application year column as labels, Unknown when unparseable.
func AppYears(t *model.Table) []string {
	return t.Column(func(r model.Record) string {
		if y, ok := normalize.ParseYear(r.AppYear); ok {
			return itoa(y)
		}
		return normalize.Unknown
	})
}
