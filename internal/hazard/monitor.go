package hazard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"roof_vent/internal/models"
)

// Source tells which signal raised an alert.
type Source string

const (
	SourceStatus Source = "status"
	SourceLog    Source = "log"
)

// Alert is one hazard notification.
type Alert struct {
	ID      string
	Cause   Cause
	Message string
	Source  Source
	At      time.Time
}

// Message is the notification text for a cause.
func Message(c Cause) string {
	return "Vent closed automatically due to " + c.Describe() + "."
}

// Observation is what one refresh cycle learned. Status is nil and
// LogFetched false when the corresponding request failed. Seq comes from
// Monitor.Begin before the cycle's fetches start; zero means unsequenced.
type Observation struct {
	Seq        uint64
	Status     *models.StatusSnapshot
	Log        []models.LogEntry
	LogFetched bool
}

// Monitor combines both detectors. The status detector is primary; the log
// detector is a fallback that stays silent when it merely corroborates an
// alert raised within the last awaitCycles cycles (the log can lag one poll).
type Monitor struct {
	mu          sync.Mutex
	status      *Detector
	logs        *LogDetector
	now         func() time.Time
	cycle       int
	awaitCycles int
	lastStatus  int
	lastLog     int

	issued    uint64
	evaluated uint64
}

func NewMonitor(now func() time.Time) *Monitor {
	if now == nil {
		now = time.Now
	}
	return &Monitor{
		status:      NewDetector(),
		logs:        NewLogDetector(),
		now:         now,
		awaitCycles: 1,
		lastStatus:  -1,
		lastLog:     -1,
	}
}

// Begin hands out the sequence number for a cycle about to fetch.
func (m *Monitor) Begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
	return m.issued
}

// Evaluate runs one cycle and returns the alerts to emit, at most one per source.
// A sequenced observation older than one already evaluated is dropped: its data
// predates what the detectors remember and would rewind them.
func (m *Monitor) Evaluate(obs Observation) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	if obs.Seq != 0 {
		if obs.Seq <= m.evaluated {
			return nil
		}
		m.evaluated = obs.Seq
	}
	m.cycle++

	var alerts []Alert
	if obs.Status != nil {
		if cause, ok := m.status.Observe(*obs.Status); ok {
			if m.recent(m.lastLog) {
				m.lastLog = -1
			} else {
				m.lastStatus = m.cycle
				alerts = append(alerts, m.alert(cause, SourceStatus))
			}
		}
	}
	if obs.LogFetched {
		if cause, ok := m.logs.Observe(obs.Log); ok {
			if m.recent(m.lastStatus) {
				m.lastStatus = -1
			} else {
				m.lastLog = m.cycle
				alerts = append(alerts, m.alert(cause, SourceLog))
			}
		}
	}
	return alerts
}

func (m *Monitor) recent(cycle int) bool {
	return cycle >= 0 && m.cycle-cycle <= m.awaitCycles
}

func (m *Monitor) alert(cause Cause, src Source) Alert {
	return Alert{
		ID:      uuid.NewString(),
		Cause:   cause,
		Message: Message(cause),
		Source:  src,
		At:      m.now(),
	}
}
