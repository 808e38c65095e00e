package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

var (
	// ErrUnknownPage is returned for a slug with no registered page.
	ErrUnknownPage = errors.New("unknown page")
	// ErrInvalidParam is returned when a control value is outside its domain.
	ErrInvalidParam = errors.New("invalid parameter")
)

func invalidParam(name, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, value)
}

// Env holds everything a page needs besides the table and the user's
// control values. Pages never read the clock themselves.
type Env struct {
	RefYear      int
	Now          time.Time
	Anchor       time.Time
	IncomePolicy derive.IncomePolicy
	Normalizers  *normalize.Normalizers
}

// Params carries control values keyed by control name. url.Values converts
// directly.
type Params map[string][]string

// Get returns the first non-empty value for key.
func (p Params) Get(key string) string {
	for _, v := range p[key] {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Values returns every non-empty value for key, with comma-separated
// entries split.
func (p Params) Values(key string) []string {
	var out []string
	for _, v := range p[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ControlKind tells a renderer how to draw a control.
type ControlKind string

const (
	SelectControl      ControlKind = "select"
	MultiSelectControl ControlKind = "multiselect"
)

// Control is one user-selectable input on a page.
type Control struct {
	Name     string      `json:"name"`
	Label    string      `json:"label"`
	Kind     ControlKind `json:"kind"`
	Options  []string    `json:"options"`
	Selected []string    `json:"selected"`
}

// IsSelected reports whether option is currently selected.
func (c Control) IsSelected(option string) bool {
	for _, s := range c.Selected {
		if s == option {
			return true
		}
	}
	return false
}

// Metric is a headline number.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is preformatted tabular output.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Bar is one bar of a bar chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is a renderer-neutral bar chart.
type Chart struct {
	Title  string `json:"title"`
	YLabel string `json:"y_label,omitempty"`
	Bars   []Bar  `json:"bars"`
}

// Section groups a table and/or chart under a heading.
type Section struct {
	Title string `json:"title"`
	Note  string `json:"note,omitempty"`
	Chart *Chart `json:"chart,omitempty"`
	Table *Table `json:"table,omitempty"`
}

// Page is the computed content of one report view.
type Page struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Controls []Control `json:"controls,omitempty"`
	Metrics  []Metric  `json:"metrics,omitempty"`
	Sections []Section `json:"sections"`
}
