package report

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hopefoundation/hopedash/internal/aggregate"
)

var printer = message.NewPrinter(language.English)

// money renders d as US dollars with grouping, e.g. $1,234.50.
func money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + money(d.Neg())
	}
	return printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func count(n int) string {
	return printer.Sprintf("%d", n)
}

func days(d decimal.Decimal) string {
	return d.StringFixed(1)
}

// chartOf converts a series into bars.
func chartOf(title, yLabel string, s aggregate.Series) *Chart {
	c := &Chart{Title: title, YLabel: yLabel, Bars: make([]Bar, len(s.Groups))}
	for i, g := range s.Groups {
		c.Bars[i] = Bar{Label: g.Key, Value: g.Value.InexactFloat64()}
	}
	return c
}

// seriesTable lays one or more series side by side, keyed by the first.
// The remaining series must already share its key order.
func seriesTable(keyHeader string, cols []string, fmts []func(aggregate.Group) string, series ...aggregate.Series) *Table {
	t := &Table{Columns: append([]string{keyHeader}, cols...)}
	if len(series) == 0 {
		return t
	}
	for i, g := range series[0].Groups {
		row := []string{g.Key}
		for j, s := range series {
			if i < len(s.Groups) {
				row = append(row, fmts[j](s.Groups[i]))
			} else {
				row = append(row, "")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func moneyOf(g aggregate.Group) string { return money(g.Value) }
func countOf(g aggregate.Group) string { return strconv.Itoa(g.Count) }
func daysOf(g aggregate.Group) string  { return days(g.Value) }

// sumValid totals the valid entries of vals.
func sumValid(vals []decimal.NullDecimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range vals {
		if v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return total
}
