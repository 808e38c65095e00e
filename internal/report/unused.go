package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hopefoundation/hopedash/internal/aggregate"
	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

// UnusedGrants shows positive remaining balances and average support.
func UnusedGrants(t *model.Table, env Env, _ Params) (*Page, error) {
	n := env.Normalizers
	balances := derive.Balances(t)
	assistance := derive.Categories(t, n.Assistance, func(r model.Record) string { return r.AssistanceType })
	years := derive.AppYears(t)

	positive := make([]bool, len(balances))
	patients := make(map[string]struct{})
	type unused struct {
		patient, year, assistance string
		balance                   decimal.Decimal
	}
	var list []unused
	for i, b := range balances {
		if !b.Valid || !b.Decimal.IsPositive() {
			continue
		}
		positive[i] = true
		r := t.Row(i)
		if !normalize.IsBlank(r.PatientID) {
			patients[normalize.CanonicalID(r.PatientID)] = struct{}{}
		}
		list = append(list, unused{patient: r.PatientID, year: years[i], assistance: assistance[i], balance: b.Decimal})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if c := list[i].balance.Cmp(list[j].balance); c != 0 {
			return c > 0
		}
		return list[i].patient < list[j].patient
	})

	unusedByType := aggregate.Sum("Unused balance by assistance type", assistance, balances, positive, aggregate.ByValueDesc)
	avgSupport := aggregate.Mean("Average support by assistance type", assistance, derive.Amounts(t), nil, aggregate.ByValueDesc)
	avgBalance := aggregate.Mean("Average remaining balance by application year", years, balances, nil, aggregate.ByKey)

	patientTable := &Table{Columns: []string{"Patient", "Application Year", "Assistance", "Remaining Balance"}}
	for _, u := range list {
		patientTable.Rows = append(patientTable.Rows, []string{u.patient, u.year, u.assistance, money(u.balance)})
	}

	return &Page{
		Title:    "Grant Usage and Assistance Averages",
		Subtitle: "Remaining grant balances and average support",
		Metrics: []Metric{
			{Label: "Patients with unused balance", Value: count(len(patients))},
			{Label: "Total unused", Value: money(unusedByType.Total())},
		},
		Sections: []Section{
			{
				Title: "Unused balance by assistance type",
				Chart: chartOf("Unused balance by assistance type", "Amount ($)", unusedByType),
				Table: seriesTable("Assistance Type", []string{"Unused Balance", "Records"},
					[]func(aggregate.Group) string{moneyOf, countOf}, unusedByType, unusedByType),
			},
			{
				Title: "Patients with unused balance",
				Table: patientTable,
			},
			{
				Title: "Average support by assistance type",
				Chart: chartOf("Average support by assistance type", "Amount ($)", avgSupport),
				Table: seriesTable("Assistance Type", []string{"Average Support", "Requests"},
					[]func(aggregate.Group) string{moneyOf, countOf}, avgSupport, avgSupport),
			},
			{
				Title: "Average remaining balance by application year",
				Chart: chartOf("Average remaining balance by application year", "Amount ($)", avgBalance),
				Table: seriesTable("Application Year", []string{"Average Balance", "Records"},
					[]func(aggregate.Group) string{moneyOf, countOf}, avgBalance, avgBalance),
			},
		},
	}, nil
}
