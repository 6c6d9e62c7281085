package render

// ID names a widget slot on a page.
type ID string

const (
	TempValue   ID = "tempValue"
	HumValue    ID = "humValue"
	VentBadge   ID = "ventBadge"
	RainBadge   ID = "rainBadge"
	SmokeBadge  ID = "smokeBadge"
	RainToggle  ID = "rainToggle"
	SmokeToggle ID = "smokeToggle"
	UserName    ID = "userName"
	AlertBox    ID = "alertBox"
	SysNotice   ID = "sysNotice"
	TempChart   ID = "tempChart"
	HumChart    ID = "humChart"
	RainChart   ID = "rainChart"
	SmokeChart  ID = "smokeChart"
	LogTable    ID = "logBody"
	SensorTable ID = "sensorBody"
	LastUpdate  ID = "lastUpdate"
	ModeBadge   ID = "modeBadge"
	WeatherMsg  ID = "weatherMsg"
)

// Tone is the visual emphasis of a text or badge.
type Tone string

const (
	ToneNone      Tone = ""
	ToneMuted     Tone = "muted"
	ToneSuccess   Tone = "success"
	ToneDanger    Tone = "danger"
	TonePrimary   Tone = "primary"
	ToneSecondary Tone = "secondary"
)

// Widget is anything the reconciler can update. clone returns a deep copy so
// readers never observe a widget mid-update.
type Widget interface {
	clone() Widget
}

// TextField shows a single formatted value.
type TextField struct {
	Text string
	Tone Tone
}

func (w *TextField) clone() Widget { c := *w; return &c }

// Badge is a short on/off label.
type Badge struct {
	Text string
	Tone Tone
}

func (w *Badge) clone() Widget { c := *w; return &c }

// Toggle mirrors a backend flag so user controls never drift from server state.
type Toggle struct {
	Checked bool
}

func (w *Toggle) clone() Widget { c := *w; return &c }

// Panel is a show/hide block of lines (alert box, system notice).
type Panel struct {
	Visible bool
	Lines   []string
}

func (w *Panel) clone() Widget {
	c := *w
	c.Lines = append([]string(nil), w.Lines...)
	return &c
}

// Row is one table row.
type Row struct {
	Cells    []string
	Emphasis bool
}

// Table holds rows; Empty is shown when there are none.
type Table struct {
	Columns []string
	Rows    []Row
	Empty   string
}

func (w *Table) clone() Widget {
	c := *w
	c.Columns = append([]string(nil), w.Columns...)
	c.Rows = make([]Row, len(w.Rows))
	for i, r := range w.Rows {
		c.Rows[i] = Row{Cells: append([]string(nil), r.Cells...), Emphasis: r.Emphasis}
	}
	return &c
}

// Chart is the opaque line-chart primitive: the reconciler only ever replaces
// its label/value arrays wholesale and asks it to redraw.
type Chart interface {
	Widget
	SetData(labels []string, values []*float64)
	Update()
}

// LineChart is the in-memory Chart used by the terminal page.
type LineChart struct {
	Label   string
	Min     *float64
	Max     *float64
	Labels  []string
	Values  []*float64
	Redraws int
}

// NewLineChart builds an empty chart with optional suggested bounds.
func NewLineChart(label string, min, max *float64) *LineChart {
	return &LineChart{Label: label, Min: min, Max: max}
}

func (c *LineChart) SetData(labels []string, values []*float64) {
	c.Labels = labels
	c.Values = values
}

func (c *LineChart) Update() { c.Redraws++ }

func (c *LineChart) clone() Widget {
	cp := *c
	cp.Labels = append([]string(nil), c.Labels...)
	cp.Values = make([]*float64, len(c.Values))
	for i, v := range c.Values {
		if v != nil {
			f := *v
			cp.Values[i] = &f
		}
	}
	return &cp
}
