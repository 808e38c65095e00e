package derive

import (
	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

// PaymentSample is one usable days-to-payment observation.
type PaymentSample struct {
	Row  int // index into the source table
	Days int
}

// DaysToPayment returns whole days between the grant request and the date
// recorded in the payment-submitted column. Only values that carry a
// YYYY-MM-DD date count; literal yes/no answers and non-positive
// differences are excluded.
func DaysToPayment(requestDate, paymentSubmitted string) (int, bool) {
	paid, ok := normalize.ExtractDate(paymentSubmitted)
	if !ok {
		return 0, false
	}
	req := normalize.ParseDate(requestDate)
	if req == nil {
		return 0, false
	}
	days := int(paid.Sub(*req).Hours() / 24)
	if days <= 0 {
		return 0, false
	}
	return days, true
}

// PaymentSamples collects every usable observation in t.
func PaymentSamples(t *model.Table) []PaymentSample {
	var out []PaymentSample
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if days, ok := DaysToPayment(r.GrantRequestDate, r.PaymentSubmitted); ok {
			out = append(out, PaymentSample{Row: i, Days: days})
		}
	}
	return out
}
