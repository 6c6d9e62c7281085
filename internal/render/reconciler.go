package render

import (
	"strings"

	"roof_vent/internal/models"
)

const (
	noticeText        = "System closed the vent due to hazard (Rain/Smoke/High humidity). See Logs."
	emptyLogText      = "No data."
	emptyReadingsText = "No readings yet. Turn on Demo or Weather Mode."
)

// Mode badge values.
const (
	ModeNone    = ""
	ModeDemo    = "demo"
	ModeWeather = "weather"
)

// Reconciler turns backend data into widget state. Every Apply call overwrites
// the widgets it touches from its argument alone, so applying the same data
// twice yields the same visible state.
type Reconciler struct {
	reg *Registry
}

func NewReconciler(reg *Registry) *Reconciler {
	return &Reconciler{reg: reg}
}

func (r *Reconciler) Registry() *Registry { return r.reg }

// AlertLines is the alert panel content for a snapshot, in display order.
func AlertLines(s models.StatusSnapshot) []string {
	var lines []string
	if s.SmokeActive {
		lines = append(lines, "Smoke detected!")
	}
	if value(s.Temperature) >= models.HighTemperatureThreshold {
		lines = append(lines, "High temperature!")
	}
	if value(s.Humidity) >= models.HumidityHazardThreshold {
		lines = append(lines, "High humidity!")
	}
	return lines
}

// NoticeVisible reports whether the system-closure notice should be shown.
func NoticeVisible(s models.StatusSnapshot) bool {
	return s.Vent == models.VentClose && s.HazardActive()
}

// ApplySnapshot updates every snapshot-derived widget present on the page.
func (r *Reconciler) ApplySnapshot(s models.StatusSnapshot) {
	r.reg.mutate(func(w map[ID]Widget) {
		setText(w, TempValue, OneDecimal(s.Temperature), ToneNone)
		setText(w, HumValue, OneDecimal(s.Humidity), ToneNone)
		if s.UserName != "" {
			setText(w, UserName, s.UserName, ToneNone)
		} else {
			setText(w, UserName, Placeholder, ToneMuted)
		}

		ventTone := ToneDanger
		if s.Vent == models.VentOpen {
			ventTone = ToneSuccess
		}
		setBadge(w, VentBadge, "Vent: "+string(s.Vent), ventTone)
		setBadge(w, RainBadge, "Rain: "+onOff(s.RainActive), flagTone(s.RainActive))
		setBadge(w, SmokeBadge, "Smoke: "+onOff(s.SmokeActive), flagTone(s.SmokeActive))
		setToggle(w, RainToggle, s.RainActive)
		setToggle(w, SmokeToggle, s.SmokeActive)

		lines := AlertLines(s)
		setPanel(w, AlertBox, len(lines) > 0, lines)
		if NoticeVisible(s) {
			setPanel(w, SysNotice, true, []string{noticeText})
		} else {
			setPanel(w, SysNotice, false, nil)
		}
	})
}

// ApplyHistory feeds the temperature/humidity charts, the sensor table and
// the last-update field. points are oldest first.
func (r *Reconciler) ApplyHistory(points []models.HistoryPoint) {
	labels := make([]string, len(points))
	temps := make([]*float64, len(points))
	hums := make([]*float64, len(points))
	for i, p := range points {
		labels[i] = ChartLabel(p.At)
		temps[i] = p.Temperature
		hums[i] = p.Humidity
	}

	rows := make([]Row, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		rows = append(rows, Row{Cells: []string{Timestamp(p.At), Raw(p.Temperature), Raw(p.Humidity)}})
	}
	last := Placeholder
	if len(points) > 0 {
		last = Timestamp(points[len(points)-1].At)
	}

	r.reg.mutate(func(w map[ID]Widget) {
		setChart(w, TempChart, labels, temps)
		setChart(w, HumChart, labels, hums)
		setTable(w, SensorTable, rows, emptyReadingsText)
		setText(w, LastUpdate, last, ToneMuted)
	})
}

// ApplySeries replaces one chart's data with a 0/1 series.
func (r *Reconciler) ApplySeries(id ID, points []models.SeriesPoint) {
	labels := make([]string, len(points))
	values := make([]*float64, len(points))
	for i, p := range points {
		labels[i] = ChartLabel(p.At)
		values[i] = models.Float(float64(p.Value))
	}
	r.reg.mutate(func(w map[ID]Widget) {
		setChart(w, id, labels, values)
	})
}

// ApplyLog renders the control log in backend order.
func (r *Reconciler) ApplyLog(entries []models.LogEntry) {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			Cells:    []string{Timestamp(e.At), e.Actor, e.Command},
			Emphasis: strings.EqualFold(e.Actor, "SYSTEM"),
		})
	}
	r.reg.mutate(func(w map[ID]Widget) {
		setTable(w, LogTable, rows, emptyLogText)
	})
}

// ApplyMode shows which simulation mode owns the timer slot.
func (r *Reconciler) ApplyMode(mode string) {
	text, tone := "Mode: "+Placeholder, ToneSecondary
	switch mode {
	case ModeWeather:
		text, tone = "Mode: Weather", TonePrimary
	case ModeDemo:
		text, tone = "Mode: Demo", TonePrimary
	}
	r.reg.mutate(func(w map[ID]Widget) {
		setBadge(w, ModeBadge, text, tone)
	})
}

// ApplyWeatherMessage sets the weather diagnostic line.
func (r *Reconciler) ApplyWeatherMessage(text string, tone Tone) {
	r.reg.mutate(func(w map[ID]Widget) {
		setText(w, WeatherMsg, text, tone)
	})
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func flagTone(on bool) Tone {
	if on {
		return ToneDanger
	}
	return ToneSecondary
}

func setText(w map[ID]Widget, id ID, text string, tone Tone) {
	if f, ok := w[id].(*TextField); ok {
		f.Text, f.Tone = text, tone
	}
}

func setBadge(w map[ID]Widget, id ID, text string, tone Tone) {
	if b, ok := w[id].(*Badge); ok {
		b.Text, b.Tone = text, tone
	}
}

func setToggle(w map[ID]Widget, id ID, checked bool) {
	if t, ok := w[id].(*Toggle); ok {
		t.Checked = checked
	}
}

func setPanel(w map[ID]Widget, id ID, visible bool, lines []string) {
	if p, ok := w[id].(*Panel); ok {
		p.Visible = visible
		p.Lines = lines
	}
}

func setTable(w map[ID]Widget, id ID, rows []Row, empty string) {
	if t, ok := w[id].(*Table); ok {
		t.Rows = rows
		t.Empty = ""
		if len(rows) == 0 {
			t.Empty = empty
		}
	}
}

func setChart(w map[ID]Widget, id ID, labels []string, values []*float64) {
	if c, ok := w[id].(Chart); ok {
		c.SetData(labels, values)
		c.Update()
	}
}
