package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Date layouts seen in the program's spreadsheet exports.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"1-2-2006",
	"01-02-06",
	"1-2-06",
	"2006/01/02",
	"2006/1/2",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-06",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
}

// ISODate is the layout used for every date the cleaner writes.
const ISODate = "2006-01-02"

var (
	isoDate     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:[ T]\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:?\d{2})?)?$`)
	yearOnly    = regexp.MustCompile(`^\d{4}$`)
	excelSerial = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Bare numbers in this range read as a year; other integers are Excel serials.
const (
	minBareYear = 1900
	maxBareYear = 2100
)

// ParseDate leniently parses s. It accepts the layouts above, a bare
// four-digit year and Excel serial day numbers.
// Returns nil if the input is blank or unparseable.
func ParseDate(s string) *time.Time {
	return parseDate(s, true)
}

// ParseBirthDate is ParseDate without the two-digit-year layouts. A birth
// date written "03/04/20" could be 1920 or 2020, so it is reported as
// unparseable instead of being assigned a century.
func ParseBirthDate(s string) *time.Time {
	return parseDate(s, false)
}

func parseDate(s string, shortYears bool) *time.Time {
	s = strings.TrimSpace(s)
	if IsBlank(s) {
		return nil
	}
	for _, layout := range dateFormats {
		if !shortYears && shortYearLayout(layout) {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			d := truncateDay(t)
			return &d
		}
	}
	if yearOnly.MatchString(s) {
		y, _ := strconv.Atoi(s)
		if y >= minBareYear && y <= maxBareYear {
			t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	if excelSerial.MatchString(s) {
		serial, err := strconv.ParseFloat(s, 64)
		if err == nil && serial >= 1 {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				d := truncateDay(t)
				return &d
			}
		}
	}
	return nil
}

// shortYearLayout reports whether layout writes the year with two digits.
func shortYearLayout(layout string) bool {
	return strings.Contains(layout, "06") && !strings.Contains(layout, "2006")
}

// ParseSerialDate parses an Excel serial day number no earlier than min.
// Small integers are rejected so that counts and codes are not read as
// dates in the first weeks of 1900.
func ParseSerialDate(s string, min time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !excelSerial.MatchString(s) {
		return time.Time{}, false
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil || t.Before(min) {
		return time.Time{}, false
	}
	return truncateDay(t), true
}

// ExtractDate parses a value that is itself a YYYY-MM-DD calendar date,
// optionally followed by a time of day, e.g. "2024-01-10 00:00:00". Text
// around the date, as in "yes 2024-01-10", does not match.
func ExtractDate(s string) (time.Time, bool) {
	m := isoDate.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(ISODate, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as YYYY-MM-DD, or "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(ISODate)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
