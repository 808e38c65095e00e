package normalize

import (
	"strings"
	"time"
)

// Closed vocabulary for yes/no columns.
const (
	Yes     = "Yes"
	No      = "No"
	Missing = "Missing"
	NA      = "N/A"
)

// minPaymentDate bounds serial numbers read as payment dates; anything
// earlier is an answer code or a count.
var minPaymentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// YesNoValues lists the vocabulary in display order.
var YesNoValues = []string{Yes, No, Missing, NA}

// YesNo maps a free-text answer onto {Yes, No, Missing, N/A}. The second
// return is false when the value was not recognized and fell back to Missing.
func YesNo(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true", "t", "1", "x":
		return Yes, true
	case "no", "n", "false", "f", "0":
		return No, true
	case "n/a", "na", "n.a.", "not applicable":
		return NA, true
	case "missing":
		return Missing, true
	}
	return Missing, false
}

// YesNoOrDate keeps an embedded calendar date as YYYY-MM-DD and otherwise
// behaves like YesNo. Payment columns record either an answer or the date
// the payment went out.
func YesNoOrDate(v string) (string, bool) {
	if t, ok := ExtractDate(v); ok {
		return t.Format(ISODate), true
	}
	if ans, ok := YesNo(v); ok {
		return ans, true
	}
	// Date-formatted spreadsheet cells arrive as serial day numbers.
	if t, ok := ParseSerialDate(v, minPaymentDate); ok {
		return t.Format(ISODate), true
	}
	// Text dates such as "1/10/24".
	if strings.ContainsAny(v, "/-,") {
		if t := ParseDate(v); t != nil {
			return FormatDate(t), true
		}
	}
	return Missing, false
}
