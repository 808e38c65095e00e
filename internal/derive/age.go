package derive

import (
	"github.com/shopspring/decimal"

	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

// Age bands, lower bound inclusive and upper bound exclusive.
var AgeBands = []Band{
	{Label: "0–17", Max: 18},
	{Label: "18–34", Max: 35},
	{Label: "35–49", Max: 50},
	{Label: "50–64", Max: 65},
	{Label: "65+", Max: -1},
}

// AgeOrder is the fixed display order for age groups.
var AgeOrder = append(BandLabels(AgeBands), normalize.Unknown)

// Age derives an age in whole years from a date of birth relative to
// refYear. Two-digit years are not accepted. It reports false when the date
// is unparseable or its year falls outside [1900, refYear].
func Age(dob string, refYear int) (int, bool) {
	t := normalize.ParseBirthDate(dob)
	if t == nil {
		return 0, false
	}
	y := t.Year()
	if y < 1900 || y > refYear {
		return 0, false
	}
	return refYear - y, true
}

// AgeGroup buckets an age. Negative ages fall into Unknown.
func AgeGroup(age int, known bool) string {
	if !known || age < 0 {
		return normalize.Unknown
	}
	return bucket(AgeBands, decimal.NewFromInt(int64(age)))
}

// AgeGroups derives the age group column for t.
func AgeGroups(t *model.Table, refYear int) []string {
	out := make([]string, t.Len())
	for i := range out {
		age, ok := Age(t.Row(i).DOB, refYear)
		out[i] = AgeGroup(age, ok)
	}
	return out
}
