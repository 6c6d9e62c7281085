package render

import (
	"fmt"
	"strconv"
	"time"

	"roof_vent/internal/models"
)

// Placeholder is shown for any value the backend did not provide.
const Placeholder = "—"

// DisplayLocation is the zone timestamps are rendered in.
var DisplayLocation = time.Local

// OneDecimal formats a reading for a value field.
func OneDecimal(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.1f", *v)
}

// Raw formats a reading without rounding, as the sensor table does.
func Raw(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Timestamp renders a backend time; unparseable values are shown verbatim.
func Timestamp(ts models.Timestamp) string {
	switch {
	case ts.Parsed():
		return ts.Time.In(DisplayLocation).Format(models.DBTimeLayout)
	case ts.Raw != "":
		return ts.Raw
	default:
		return Placeholder
	}
}

// ChartLabel is the short time label used on chart axes.
func ChartLabel(ts models.Timestamp) string {
	if ts.Parsed() {
		return ts.Time.In(DisplayLocation).Format("15:04:05")
	}
	if ts.Raw != "" {
		return ts.Raw
	}
	return Placeholder
}
