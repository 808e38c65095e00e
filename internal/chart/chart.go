package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/hopefoundation/hopedash/internal/report"
)

// ErrNoData is returned for a chart with no bars. go-chart cannot draw an
// empty bar chart, so callers render a placeholder instead.
var ErrNoData = errors.New("chart has no data")

const (
	height      = 360
	minWidth    = 480
	barSlot     = 72
	maxLabelLen = 18
)

// RenderSVG draws c as an SVG bar chart onto w.
func RenderSVG(w io.Writer, c *report.Chart) error {
	if c == nil || len(c.Bars) == 0 {
		return ErrNoData
	}

	bars := make([]gochart.Value, len(c.Bars))
	lo, hi := 0.0, 0.0
	for i, b := range c.Bars {
		bars[i] = gochart.Value{Value: b.Value, Label: shorten(b.Label)}
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	// A flat series has a zero-height range, which go-chart rejects.
	if hi == lo {
		hi = lo + 1
	}

	bc := gochart.BarChart{
		Title:      c.Title,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Height:     height,
		Width:      max(minWidth, barSlot*len(bars)),
		BarWidth:   barSlot * 2 / 3,
		Bars:       bars,
		YAxis: gochart.YAxis{
			Name:  c.YLabel,
			Range: &gochart.ContinuousRange{Min: lo, Max: hi * 1.1},
		},
	}
	if err := bc.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("render chart %q: %w", c.Title, err)
	}
	return nil
}

// SVG renders c and returns the markup.
func SVG(c *report.Chart) (string, error) {
	var buf bytes.Buffer
	if err := RenderSVG(&buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelLen {
		return s
	}
	return string(r[:maxLabelLen-1]) + "…"
}
