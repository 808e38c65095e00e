package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

var moneyReplacer = strings.NewReplacer("$", "", ",", "", " ", "")

// ParseAmount coerces a currency-ish string ("$1,250.00", "(40)", "75")
// into a decimal. Invalid is returned for blank or non-numeric input so the
// row can be dropped from an aggregate instead of counted as zero.
func ParseAmount(s string) decimal.NullDecimal {
	if IsBlank(s) {
		return decimal.NullDecimal{}
	}
	s = moneyReplacer.Replace(strings.TrimSpace(s))
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	if neg {
		d = d.Neg()
	}
	return decimal.NewNullDecimal(d)
}

// ParsePositive is ParseAmount restricted to values greater than zero.
func ParsePositive(s string) decimal.NullDecimal {
	d := ParseAmount(s)
	if !d.Valid || !d.Decimal.IsPositive() {
		return decimal.NullDecimal{}
	}
	return d
}

// ParseYear parses an application year such as "2024" or "2024.0".
func ParseYear(s string) (int, bool) {
	d := ParseAmount(s)
	if !d.Valid || !d.Decimal.IsInteger() {
		return 0, false
	}
	y := d.Decimal.IntPart()
	if y < 1900 || y > 9999 {
		return 0, false
	}
	return int(y), true
}
