package report

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hopefoundation/hopedash/internal/aggregate"
	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/model"
)

// Requests paid later than this many weeks share the last histogram bucket.
const histogramWeeks = 8

// TimeToSupport reports days between a grant request and the recorded
// payment date. Only rows whose payment column holds a date contribute.
func TimeToSupport(t *model.Table, env Env, p Params) (*Page, error) {
	n := env.Normalizers
	assistance := derive.Categories(t, n.Assistance, func(r model.Record) string { return r.AssistanceType })
	options := sortedKeys(toSet(assistance))

	var selected []string
	for _, v := range p.Values("assistance") {
		selected = append(selected, n.Assistance.Normalize(v))
	}
	filtered := t
	if len(selected) > 0 {
		want := toSet(selected)
		filtered = t.Filter(func(r model.Record) bool { return want[n.Assistance.Normalize(r.AssistanceType)] })
	} else {
		selected = options
	}

	samples := derive.PaymentSamples(filtered)
	st := summarizeDays(samples)

	keys := make([]string, len(samples))
	vals := make([]decimal.NullDecimal, len(samples))
	weeks := make([]string, len(samples))
	for i, s := range samples {
		keys[i] = n.Assistance.Normalize(filtered.Row(s.Row).AssistanceType)
		vals[i] = decimal.NewNullDecimal(decimal.NewFromInt(int64(s.Days)))
		weeks[i] = weekLabel(s.Days)
	}
	byType := aggregate.Mean("Mean days by assistance type", keys, vals, nil, aggregate.ByValueDesc)
	hist := aggregate.Count("Requests by weeks to payment", weeks, nil, aggregate.FixedOrder(weekLabels()))

	return &Page{
		Title:    "Time Between Request and Support",
		Subtitle: "Days from grant request to payment (excluding No & Yes)",
		Controls: []Control{
			{Name: "assistance", Label: "Assistance type", Kind: MultiSelectControl, Options: mergeOptions(options, selected), Selected: selected},
		},
		Metrics: []Metric{
			{Label: "Sample size (excluding No & Yes)", Value: count(st.n)},
			{Label: "Mean days", Value: days(st.mean)},
			{Label: "Median days", Value: days(st.median)},
			{Label: "Fastest (days)", Value: count(st.min)},
			{Label: "Slowest (days)", Value: count(st.max)},
		},
		Sections: []Section{
			{
				Title: "Mean days to payment by assistance type",
				Chart: chartOf("Mean days to payment", "Days", byType),
				Table: seriesTable("Assistance Type", []string{"Mean Days", "Samples"},
					[]func(aggregate.Group) string{daysOf, countOf}, byType, byType),
			},
			{
				Title: "Distribution",
				Note:  "Payments made on or before the request date are excluded.",
				Chart: chartOf("Requests by weeks to payment", "Requests", hist),
				Table: seriesTable("Weeks", []string{"Requests"}, []func(aggregate.Group) string{countOf}, hist),
			},
		},
	}, nil
}

type dayStats struct {
	n        int
	mean     decimal.Decimal
	median   decimal.Decimal
	min, max int
}

func summarizeDays(samples []derive.PaymentSample) dayStats {
	if len(samples) == 0 {
		return dayStats{}
	}
	d := make([]int, len(samples))
	total := 0
	for i, s := range samples {
		d[i] = s.Days
		total += s.Days
	}
	sort.Ints(d)

	st := dayStats{
		n:    len(d),
		mean: aggregate.SafeDiv(decimal.NewFromInt(int64(total)), int64(len(d))),
		min:  d[0],
		max:  d[len(d)-1],
	}
	mid := len(d) / 2
	if len(d)%2 == 1 {
		st.median = decimal.NewFromInt(int64(d[mid]))
	} else {
		st.median = decimal.NewFromInt(int64(d[mid-1] + d[mid])).Div(decimal.NewFromInt(2))
	}
	return st
}

func weekLabel(days int) string {
	w := (days-1)/7 + 1
	if w > histogramWeeks {
		return fmt.Sprintf("%d+ weeks", histogramWeeks+1)
	}
	if w == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", w)
}

func weekLabels() []string {
	out := make([]string, 0, histogramWeeks+1)
	for w := 1; w <= histogramWeeks+1; w++ {
		out = append(out, weekLabel((w-1)*7+1))
	}
	return out
}
