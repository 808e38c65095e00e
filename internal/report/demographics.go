package report

import (
	"strconv"

	"github.com/hopefoundation/hopedash/internal/aggregate"
	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/model"
)

// Demographic categories accepted by the category control.
var DemographicCategories = []string{"state", "gender", "age", "income", "insurance"}

var categoryLabels = map[string]string{
	"state":     "State",
	"gender":    "Gender",
	"age":       "Age Group",
	"income":    "Monthly Income per Person",
	"insurance": "Insurance Type",
}

// Demographics totals support by one demographic category, with request
// counts aligned to the totals.
func Demographics(t *model.Table, env Env, p Params) (*Page, error) {
	category := p.Get("category")
	if category == "" {
		category = "state"
	}
	label, ok := categoryLabels[category]
	if !ok {
		return nil, invalidParam("category", category)
	}

	n := env.Normalizers
	var (
		keys  []string
		keep  []bool
		order = aggregate.ByValueDesc
		note  string
	)
	switch category {
	case "state":
		keys = derive.States(t, n.State)
	case "gender":
		keys = derive.Categories(t, n.Gender, func(r model.Record) string { return r.Gender })
	case "insurance":
		keys = derive.Categories(t, n.Insurance, func(r model.Record) string { return r.InsuranceType })
	case "age":
		keys = derive.AgeGroups(t, env.RefYear)
		order = aggregate.FixedOrder(derive.AgeOrder)
		note = "Age as of " + strconv.Itoa(env.RefYear) + "."
	case "income":
		keys, keep = derive.IncomeGroups(t, env.IncomePolicy)
		order = aggregate.FixedOrder(derive.IncomeOrder)
		if env.IncomePolicy == derive.ExcludeInvalidHousehold {
			note = "Household income divided by household size; rows without a valid household size are excluded."
		} else {
			note = "Household income divided by household size; rows without a usable value are shown as Unknown."
		}
	}

	sums := aggregate.Sum("Total support by "+label, keys, derive.Amounts(t), keep, order)
	counts := aggregate.Reindex(aggregate.Count("Requests by "+label, keys, keep, aggregate.ByKey), sums)

	return &Page{
		Title:    "Support Distribution by Demographics",
		Subtitle: "Total support by " + label,
		Controls: []Control{
			{Name: "category", Label: "Category", Kind: SelectControl, Options: DemographicCategories, Selected: []string{category}},
		},
		Metrics: []Metric{
			{Label: "Total support", Value: money(sums.Total())},
			{Label: "Groups", Value: count(len(sums.Groups))},
		},
		Sections: []Section{
			{
				Title: "Total support by " + label,
				Note:  note,
				Chart: chartOf("Total support by "+label, "Amount ($)", sums),
				Table: seriesTable(label, []string{"Total Support", "Requests"},
					[]func(aggregate.Group) string{moneyOf, countOf}, sums, counts),
			},
		},
	}, nil
}
