package aggregate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

// WindowKind names the supported reporting windows.
type WindowKind string

const (
	WindowSinceAnchor  WindowKind = "since-anchor"
	WindowCalendarYear WindowKind = "year"
	WindowTrailing12   WindowKind = "trailing-12"
)

// Window is a half-open [Start, End) range of grant request dates.
type Window struct {
	Kind  WindowKind
	Start time.Time
	End   time.Time
	Label string
}

// OpenEnd is the End of a window with no upper bound. It is still a valid
// SQL DATE so snapshots can store it.
var OpenEnd = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// SinceAnchor covers every request on or after anchor. It has no upper
// bound, so requests dated after today are counted too.
func SinceAnchor(anchor time.Time) Window {
	return Window{
		Kind:  WindowSinceAnchor,
		Start: day(anchor),
		End:   OpenEnd,
		Label: "Since " + anchor.Format("January 2, 2006"),
	}
}

// CalendarYear covers January 1 through December 31 of year.
func CalendarYear(year int) Window {
	return Window{
		Kind:  WindowCalendarYear,
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC),
		Label: fmt.Sprintf("Calendar Year %d", year),
	}
}

// Trailing12Months covers the twelve months ending at now.
func Trailing12Months(now time.Time) Window {
	end := day(now).AddDate(0, 0, 1)
	return Window{
		Kind:  WindowTrailing12,
		Start: day(now).AddDate(-1, 0, 0),
		End:   end,
		Label: "Past 12 Months",
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WindowSummary is the stakeholder view of one window.
type WindowSummary struct {
	Window        Window
	Records       int
	Patients      int
	TotalAmount   decimal.Decimal
	AvgPerPatient decimal.Decimal
	ByAssistance  Series
	ByAppYear     Series
}

// Summarize filters t to requests inside w and computes the impact metrics.
// Rows with an unparseable request date never fall inside a window.
func Summarize(t *model.Table, n *normalize.Normalizers, w Window) WindowSummary {
	in := t.Filter(func(r model.Record) bool {
		d := normalize.ParseDate(r.GrantRequestDate)
		return d != nil && w.Contains(*d)
	})

	patients := make(map[string]struct{})
	for i := 0; i < in.Len(); i++ {
		id := in.Row(i).PatientID
		if normalize.IsBlank(id) {
			continue
		}
		patients[normalize.CanonicalID(id)] = struct{}{}
	}

	amounts := derive.Amounts(in)
	total := decimal.Zero
	for _, a := range amounts {
		if a.Valid {
			total = total.Add(a.Decimal)
		}
	}

	assistance := derive.Categories(in, n.Assistance, func(r model.Record) string { return r.AssistanceType })

	return WindowSummary{
		Window:        w,
		Records:       in.Len(),
		Patients:      len(patients),
		TotalAmount:   total,
		AvgPerPatient: SafeDiv(total, int64(len(patients))),
		ByAssistance:  Count("Requests by assistance type", assistance, nil, ByValueDesc),
		ByAppYear:     Sum("Support by application year", derive.AppYears(in), amounts, nil, ByKey),
	}
}
