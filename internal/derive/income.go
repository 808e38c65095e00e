package derive

import (
	"github.com/shopspring/decimal"

	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

// Monthly per-capita income bands, half-open like AgeBands.
var IncomeBands = []Band{
	{Label: "<$500", Max: 500},
	{Label: "$500–999", Max: 1000},
	{Label: "$1000–1499", Max: 1500},
	{Label: "$1500–1999", Max: 2000},
	{Label: "$2000–2999", Max: 3000},
	{Label: "$3000+", Max: -1},
}

// IncomeOrder is the fixed display order for income groups.
var IncomeOrder = append(BandLabels(IncomeBands), normalize.Unknown)

// IncomePolicy selects how rows with an unusable household size are treated.
type IncomePolicy string

const (
	// ExcludeInvalidHousehold drops rows whose household size is not a
	// positive number from income views entirely.
	ExcludeInvalidHousehold IncomePolicy = "exclude"
	// BucketUnknown keeps every row and files a missing per-capita income
	// under Unknown.
	BucketUnknown IncomePolicy = "unknown"
)

// ParseIncomePolicy validates a configured policy name.
func ParseIncomePolicy(s string) (IncomePolicy, bool) {
	switch IncomePolicy(s) {
	case ExcludeInvalidHousehold, BucketUnknown:
		return IncomePolicy(s), true
	}
	return "", false
}

// PerCapitaIncome divides household gross monthly income by household size.
// Invalid is returned when either input is unusable.
func PerCapitaIncome(income, size string) decimal.NullDecimal {
	inc := normalize.ParseAmount(income)
	n := normalize.ParsePositive(size)
	if !inc.Valid || !n.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(inc.Decimal.Div(n.Decimal))
}

// IncomeGroup buckets a per-capita income; invalid values fall into Unknown.
func IncomeGroup(perCapita decimal.NullDecimal) string {
	if !perCapita.Valid {
		return normalize.Unknown
	}
	return bucket(IncomeBands, perCapita.Decimal)
}

// IncomeGroupsExcludingInvalidHousehold derives income groups for rows
// whose household size is a positive number. keep[i] is false for excluded
// rows, whose group is left empty.
func IncomeGroupsExcludingInvalidHousehold(t *model.Table) (groups []string, keep []bool) {
	groups = make([]string, t.Len())
	keep = make([]bool, t.Len())
	for i := range groups {
		r := t.Row(i)
		if !normalize.ParsePositive(r.HouseholdSize).Valid {
			continue
		}
		keep[i] = true
		groups[i] = IncomeGroup(PerCapitaIncome(r.HouseholdIncome, r.HouseholdSize))
	}
	return groups, keep
}

// IncomeGroupsWithUnknown derives an income group for every row, filing
// rows without a usable per-capita income under Unknown.
func IncomeGroupsWithUnknown(t *model.Table) []string {
	groups := make([]string, t.Len())
	for i := range groups {
		r := t.Row(i)
		groups[i] = IncomeGroup(PerCapitaIncome(r.HouseholdIncome, r.HouseholdSize))
	}
	return groups
}

// IncomeGroups applies the chosen policy and returns the group column with
// its keep mask (all true under BucketUnknown).
func IncomeGroups(t *model.Table, policy IncomePolicy) ([]string, []bool) {
	if policy == ExcludeInvalidHousehold {
		return IncomeGroupsExcludingInvalidHousehold(t)
	}
	groups := IncomeGroupsWithUnknown(t)
	keep := make([]bool, len(groups))
	for i := range keep {
		keep[i] = true
	}
	return groups, keep
}
