package models

// StatusSnapshot is the authoritative state returned by one status poll.
// A snapshot is never mutated after it has been built.
type StatusSnapshot struct {
	Temperature   *float64  `json:"temperature"`
	Humidity      *float64  `json:"humidity"`
	ReadingAt     Timestamp `json:"reading_at"`
	Vent          VentState `json:"vent"`
	VentUpdatedAt Timestamp `json:"vent_updated_at"`
	RainActive    bool      `json:"rain_active"`
	SmokeActive   bool      `json:"smoke_active"`
	UserName      string    `json:"user_name,omitempty"`
}

// HumidityHazard reports whether humidity is known and at or above the hazard threshold.
func (s StatusSnapshot) HumidityHazard() bool {
	return s.Humidity != nil && *s.Humidity >= HumidityHazardThreshold
}

// HazardActive is true when any closure-worthy condition is present.
func (s StatusSnapshot) HazardActive() bool {
	return s.SmokeActive || s.RainActive || s.HumidityHazard()
}

// HistoryPoint is one temperature/humidity reading.
type HistoryPoint struct {
	At          Timestamp `json:"ts"`
	Temperature *float64  `json:"temp"`
	Humidity    *float64  `json:"hum"`
}

// SeriesPoint is one sample of a binary hazard series (0 or 1).
type SeriesPoint struct {
	At    Timestamp `json:"ts"`
	Value int       `json:"val"`
}

// LogEntry is one row of the backend control log.
type LogEntry struct {
	At      Timestamp `json:"ts"`
	Actor   string    `json:"by_user"`
	Command string    `json:"command"`
}

// Float returns a pointer to v. Handy for building snapshots and readings.
func Float(v float64) *float64 { return &v }
