package report

import (
	"sort"
	"strconv"

	"github.com/hopefoundation/hopedash/internal/aggregate"
	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/model"
)

// WindowOptions lists the accepted values of the window control.
var WindowOptions = []string{
	string(aggregate.WindowSinceAnchor),
	string(aggregate.WindowCalendarYear),
	string(aggregate.WindowTrailing12),
}

// SelectWindow resolves the window and year controls.
func SelectWindow(env Env, p Params) (aggregate.Window, error) {
	kind := p.Get("window")
	if kind == "" {
		kind = string(aggregate.WindowSinceAnchor)
	}
	switch aggregate.WindowKind(kind) {
	case aggregate.WindowSinceAnchor:
		return aggregate.SinceAnchor(env.Anchor), nil
	case aggregate.WindowTrailing12:
		return aggregate.Trailing12Months(env.Now), nil
	case aggregate.WindowCalendarYear:
		year := env.Now.Year()
		if v := p.Get("year"); v != "" {
			y, err := strconv.Atoi(v)
			if err != nil || y < 1900 || y > 9999 {
				return aggregate.Window{}, invalidParam("year", v)
			}
			year = y
		}
		return aggregate.CalendarYear(year), nil
	}
	return aggregate.Window{}, invalidParam("window", kind)
}

// ImpactSummary is the stakeholder view of one reporting window.
func ImpactSummary(t *model.Table, env Env, p Params) (*Page, error) {
	w, err := SelectWindow(env, p)
	if err != nil {
		return nil, err
	}
	s := aggregate.Summarize(t, env.Normalizers, w)

	controls := []Control{
		{Name: "window", Label: "Timeframe", Kind: SelectControl, Options: WindowOptions, Selected: []string{string(w.Kind)}},
	}
	if w.Kind == aggregate.WindowCalendarYear {
		years := requestYears(t)
		sel := strconv.Itoa(w.Start.Year())
		controls = append(controls, Control{Name: "year", Label: "Year", Kind: SelectControl, Options: mergeOptions(years, []string{sel}), Selected: []string{sel}})
	}

	return &Page{
		Title:    "Yearly Impact Summary for Stakeholders",
		Subtitle: w.Label,
		Controls: controls,
		Metrics: []Metric{
			{Label: "Requests", Value: count(s.Records)},
			{Label: "Patients helped", Value: count(s.Patients)},
			{Label: "Total support", Value: money(s.TotalAmount)},
			{Label: "Average per patient", Value: money(s.AvgPerPatient)},
		},
		Sections: []Section{
			{
				Title: "Requests by assistance type",
				Chart: chartOf("Requests by assistance type", "Requests", s.ByAssistance),
				Table: seriesTable("Assistance Type", []string{"Requests"}, []func(aggregate.Group) string{countOf}, s.ByAssistance),
			},
			{
				Title: "Support by application year",
				Chart: chartOf("Support by application year", "Amount ($)", s.ByAppYear),
				Table: seriesTable("Application Year", []string{"Total Support", "Requests"},
					[]func(aggregate.Group) string{moneyOf, countOf}, s.ByAppYear, s.ByAppYear),
			},
		},
	}, nil
}

// requestYears lists the years with at least one dated request, newest first.
func requestYears(t *model.Table) []string {
	set := make(map[string]bool)
	for _, d := range derive.RequestDates(t) {
		if d != nil {
			set[strconv.Itoa(d.Year())] = true
		}
	}
	years := sortedKeys(set)
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}
