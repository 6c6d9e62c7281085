package hazard

import (
	"regexp"
	"strings"

	"roof_vent/internal/models"
)

// Cause is why the vent was closed automatically.
type Cause string

const (
	CauseSmoke    Cause = "smoke"
	CauseRain     Cause = "rain"
	CauseHumidity Cause = "humidity"
)

// Describe is the human wording used in notifications.
func (c Cause) Describe() string {
	if c == CauseHumidity {
		return "high humidity"
	}
	return string(c)
}

// CauseOf picks the highest-priority active hazard: smoke, then rain, then humidity.
func CauseOf(s models.StatusSnapshot) (Cause, bool) {
	switch {
	case s.SmokeActive:
		return CauseSmoke, true
	case s.RainActive:
		return CauseRain, true
	case s.HumidityHazard():
		return CauseHumidity, true
	}
	return "", false
}

// Detector fires once per hazard-correlated OPEN -> CLOSE transition.
// prev is the only state it keeps and it is updated on every observation,
// so repeated polls of the same closed state can never fire twice.
type Detector struct {
	prev models.VentState
}

func NewDetector() *Detector {
	return &Detector{prev: models.VentUnknown}
}

// Observe feeds one snapshot and reports the cause when an alert is due.
func (d *Detector) Observe(s models.StatusSnapshot) (Cause, bool) {
	prev := d.prev
	d.prev = s.Vent
	if prev != models.VentOpen || s.Vent != models.VentClose {
		return "", false
	}
	return CauseOf(s)
}

// Previous is the remembered vent state.
func (d *Detector) Previous() models.VentState { return d.prev }

var causeTag = regexp.MustCompile(`(?i)\bcause=(smoke|rain|humidity)\b`)

// CloseCommand is the control-log command written for an automatic closure.
func CloseCommand(c Cause) string {
	return string(models.VentClose) + " cause=" + string(c)
}

// CauseFromCommand extracts the cause tag of an automatic closure log entry.
func CauseFromCommand(command string) (Cause, bool) {
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(command)), "CLOSE") {
		return "", false
	}
	m := causeTag.FindStringSubmatch(command)
	if m == nil {
		return "", false
	}
	return Cause(strings.ToLower(m[1])), true
}

// LogDetector derives the same signal from the newest control-log entry.
// The first observation only seeds it, so history present at startup never alerts.
type LogDetector struct {
	seeded  bool
	lastKey string
}

func NewLogDetector() *LogDetector { return &LogDetector{} }

// Observe takes entries newest first.
func (d *LogDetector) Observe(entries []models.LogEntry) (Cause, bool) {
	key := ""
	var latest models.LogEntry
	if len(entries) > 0 {
		latest = entries[0]
		key = latest.At.Key() + "|" + latest.Actor + "|" + latest.Command
	}
	if !d.seeded {
		d.seeded = true
		d.lastKey = key
		return "", false
	}
	if key == "" || key == d.lastKey {
		return "", false
	}
	d.lastKey = key
	if !strings.EqualFold(latest.Actor, "SYSTEM") {
		return "", false
	}
	return CauseFromCommand(latest.Command)
}
