package render

import (
	"fmt"
	"sync"

	"roof_vent/internal/models"
)

// Registry is the set of widgets present on the current page. The reconciler
// updates only what is registered, so the same engine serves every page variant.
type Registry struct {
	mu      sync.RWMutex
	widgets map[ID]Widget
}

func NewRegistry() *Registry {
	return &Registry{widgets: make(map[ID]Widget)}
}

// Register adds or replaces a widget.
func (r *Registry) Register(id ID, w Widget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widgets[id] = w
}

// Has reports whether id is present on the page.
func (r *Registry) Has(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.widgets[id]
	return ok
}

// HasAny reports whether at least one of ids is present.
func (r *Registry) HasAny(ids ...ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range ids {
		if _, ok := r.widgets[id]; ok {
			return true
		}
	}
	return false
}

// Get returns a copy of one widget.
func (r *Registry) Get(id ID) (Widget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.widgets[id]
	if !ok {
		return nil, false
	}
	return w.clone(), true
}

// Snapshot returns deep copies of every widget.
func (r *Registry) Snapshot() map[ID]Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[ID]Widget, len(r.widgets))
	for id, w := range r.widgets {
		out[id] = w.clone()
	}
	return out
}

func (r *Registry) mutate(fn func(widgets map[ID]Widget)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.widgets)
}

// Page names.
const (
	PageOverview = "overview"
	PageSensors  = "sensors"
	PageLogs     = "logs"
	PageAll      = "all"
)

var (
	overviewWidgets = []ID{TempValue, HumValue, VentBadge, RainBadge, SmokeBadge, RainToggle, SmokeToggle,
		UserName, AlertBox, SysNotice, TempChart, HumChart, LogTable}
	sensorsWidgets = []ID{TempValue, HumValue, UserName, SensorTable, LastUpdate, RainChart, SmokeChart,
		ModeBadge, WeatherMsg}
	logsWidgets = []ID{UserName, LogTable}
)

// NewPage builds the registry for a named page variant.
func NewPage(name string) (*Registry, error) {
	var ids []ID
	switch name {
	case PageOverview:
		ids = overviewWidgets
	case PageSensors:
		ids = sensorsWidgets
	case PageLogs:
		ids = logsWidgets
	case PageAll, "":
		ids = append(append(append([]ID{}, overviewWidgets...), sensorsWidgets...), logsWidgets...)
	default:
		return nil, fmt.Errorf("unknown page %q", name)
	}
	reg := NewRegistry()
	for _, id := range ids {
		reg.Register(id, newWidget(id))
	}
	return reg, nil
}

func newWidget(id ID) Widget {
	switch id {
	case VentBadge, RainBadge, SmokeBadge, ModeBadge:
		return &Badge{Text: Placeholder, Tone: ToneSecondary}
	case RainToggle, SmokeToggle:
		return &Toggle{}
	case AlertBox, SysNotice:
		return &Panel{}
	case TempChart:
		return NewLineChart("°C", nil, nil)
	case HumChart:
		return NewLineChart("% RH", models.Float(0), models.Float(100))
	case RainChart:
		return NewLineChart("Rain", models.Float(-0.2), models.Float(2.2))
	case SmokeChart:
		return NewLineChart("Smoke", models.Float(-0.2), models.Float(2.2))
	case LogTable:
		return &Table{Columns: []string{"Time", "By", "Command"}}
	case SensorTable:
		return &Table{Columns: []string{"Time", "Temp (°C)", "Humidity (%)"}}
	default:
		return &TextField{Text: Placeholder}
	}
}
