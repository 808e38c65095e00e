package termview

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/hopefoundation/hopedash/internal/report"
)

const barWidth = 40

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	headingColor = color.New(color.FgYellow)
	noteColor    = color.New(color.Faint)
)

// Render writes a report page as colored headings and text tables.
func Render(w io.Writer, p *report.Page) error {
	titleColor.Fprintf(w, "\n=== %s ===\n", p.Title)
	if p.Subtitle != "" {
		noteColor.Fprintln(w, p.Subtitle)
	}

	for _, c := range p.Controls {
		fmt.Fprintf(w, "%s: %s\n", c.Label, strings.Join(c.Selected, ", "))
	}

	if len(p.Metrics) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Metric", "Value"})
		for _, m := range p.Metrics {
			table.Append([]string{m.Label, m.Value})
		}
		fmt.Fprintln(w)
		table.Render()
	}

	for _, s := range p.Sections {
		headingColor.Fprintf(w, "\n%s\n", s.Title)
		if s.Note != "" {
			noteColor.Fprintln(w, s.Note)
		}
		if s.Chart != nil && len(s.Chart.Bars) > 0 {
			renderBars(w, s.Chart)
		}
		if s.Table == nil {
			continue
		}
		if len(s.Table.Rows) == 0 {
			fmt.Fprintln(w, "(no matching records)")
			continue
		}
		table := tablewriter.NewWriter(w)
		table.SetHeader(s.Table.Columns)
		table.SetAutoWrapText(false)
		for _, row := range s.Table.Rows {
			table.Append(row)
		}
		table.Render()
	}
	return nil
}

// renderBars draws a horizontal bar per value, scaled to the largest.
func renderBars(w io.Writer, c *report.Chart) {
	peak := 0.0
	labelWidth := 0
	for _, b := range c.Bars {
		peak = math.Max(peak, math.Abs(b.Value))
		labelWidth = max(labelWidth, len([]rune(b.Label)))
	}
	for _, b := range c.Bars {
		n := 0
		if peak > 0 {
			n = int(math.Round(math.Abs(b.Value) / peak * barWidth))
		}
		pad := labelWidth - len([]rune(b.Label))
		fmt.Fprintf(w, "  %s%s │%s\n", b.Label, strings.Repeat(" ", pad), strings.Repeat("█", n))
	}
}
