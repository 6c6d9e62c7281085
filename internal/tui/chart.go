package tui

import (
	"math"
	"strings"

	"roof_vent/internal/render"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline draws the newest width values of a chart on one line.
func sparkline(c *render.LineChart, width int) string {
	values := c.Values
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return render.Placeholder
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v != nil {
			lo, hi = math.Min(lo, *v), math.Max(hi, *v)
		}
	}
	if c.Min != nil {
		lo = *c.Min
	}
	if c.Max != nil {
		hi = *c.Max
	}

	var b strings.Builder
	for _, v := range values {
		if v == nil {
			b.WriteRune(' ')
			continue
		}
		idx := len(sparkRunes) / 2
		if hi > lo {
			frac := (*v - lo) / (hi - lo)
			idx = int(math.Round(frac * float64(len(sparkRunes)-1)))
			idx = max(0, min(len(sparkRunes)-1, idx))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
