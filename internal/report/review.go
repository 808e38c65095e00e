package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hopefoundation/hopedash/internal/aggregate"
	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

const defaultReviewStatus = "Pending"

// ReadyForReview lists applications whose request status is selected,
// narrowed by application-signed flag.
func ReadyForReview(t *model.Table, env Env, p Params) (*Page, error) {
	statuses := distinctStatuses(t)
	selStatus := p.Values("status")
	if len(selStatus) == 0 {
		selStatus = []string{defaultReviewStatus}
	}
	for i, s := range selStatus {
		selStatus[i] = normalize.TitleCase(s)
	}

	selSigned := p.Values("signed")
	for i, s := range selSigned {
		ans, ok := normalize.YesNo(s)
		if !ok {
			return nil, invalidParam("signed", s)
		}
		selSigned[i] = ans
	}
	if len(selSigned) == 0 {
		selSigned = append([]string(nil), normalize.YesNoValues...)
	}

	statusSet := toSet(selStatus)
	signedSet := toSet(selSigned)
	matched := t.Filter(func(r model.Record) bool {
		signed, _ := normalize.YesNo(r.ApplicationSigned)
		return statusSet[normalize.TitleCase(r.RequestStatus)] && signedSet[signed]
	})

	type row struct {
		rec  model.Record
		date string
	}
	rows := make([]row, matched.Len())
	amounts := make([]decimal.NullDecimal, matched.Len())
	signedKeys := make([]string, matched.Len())
	for i := range rows {
		r := matched.Row(i)
		rows[i] = row{rec: r, date: normalize.FormatDate(normalize.ParseDate(r.GrantRequestDate))}
		amounts[i] = normalize.ParseAmount(r.Amount)
		signedKeys[i], _ = normalize.YesNo(r.ApplicationSigned)
	}
	// Oldest request first; undated rows last.
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].date, rows[j].date
		if (a == "") != (b == "") {
			return b == ""
		}
		if a != b {
			return a < b
		}
		return rows[i].rec.PatientID < rows[j].rec.PatientID
	})

	n := env.Normalizers
	list := &Table{Columns: []string{"Patient", "Request Date", "State", "Assistance", "Amount", "Signed"}}
	for _, r := range rows {
		amount := ""
		if a := normalize.ParseAmount(r.rec.Amount); a.Valid {
			amount = money(a.Decimal)
		}
		signed, _ := normalize.YesNo(r.rec.ApplicationSigned)
		list.Rows = append(list.Rows, []string{
			r.rec.PatientID,
			r.date,
			n.State.Normalize(r.rec.State),
			n.Assistance.Normalize(r.rec.AssistanceType),
			amount,
			signed,
		})
	}

	bySigned := aggregate.Count("Applications by signed status", signedKeys, nil, aggregate.FixedOrder(normalize.YesNoValues))
	total := sumValid(amounts)

	return &Page{
		Title:    "Applications Ready for Review",
		Subtitle: "Requests awaiting a decision, oldest first",
		Controls: []Control{
			{Name: "status", Label: "Request status", Kind: MultiSelectControl, Options: mergeOptions(statuses, selStatus), Selected: selStatus},
			{Name: "signed", Label: "Application signed?", Kind: MultiSelectControl, Options: normalize.YesNoValues, Selected: selSigned},
		},
		Metrics: []Metric{
			{Label: "Applications", Value: count(matched.Len())},
			{Label: "Amount requested", Value: money(total)},
		},
		Sections: []Section{
			{Title: "Applications", Table: list},
			{
				Title: "By signed status",
				Chart: chartOf("Applications by signed status", "Applications", bySigned),
				Table: seriesTable("Signed", []string{"Applications"}, []func(aggregate.Group) string{countOf}, bySigned),
			},
		},
	}, nil
}

func distinctStatuses(t *model.Table) []string {
	set := make(map[string]bool)
	for i := 0; i < t.Len(); i++ {
		s := t.Row(i).RequestStatus
		if normalize.IsBlank(s) {
			continue
		}
		set[normalize.TitleCase(s)] = true
	}
	return sortedKeys(set)
}

func toSet(vals []string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// mergeOptions returns options plus any selected value not already listed.
func mergeOptions(options, selected []string) []string {
	set := toSet(options)
	out := append([]string(nil), options...)
	for _, s := range selected {
		if !set[s] {
			out = append(out, s)
			set[s] = true
		}
	}
	return out
}
