package derive

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Band is one interval of an ordered banding. A band covers values from the
// previous band's Max (inclusive) up to its own Max (exclusive); Max < 0
// marks the open-ended last band.
type Band struct {
	Label string
	Max   int64
}

// BandLabels returns the labels of bands in order.
func BandLabels(bands []Band) []string {
	out := make([]string, len(bands))
	for i, b := range bands {
		out[i] = b.Label
	}
	return out
}

func bucket(bands []Band, v decimal.Decimal) string {
	for _, b := range bands {
		if b.Max < 0 || v.LessThan(decimal.NewFromInt(b.Max)) {
			return b.Label
		}
	}
	return bands[len(bands)-1].Label
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
