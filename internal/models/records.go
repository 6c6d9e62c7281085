package models

import "time"

// Rows persisted by the ventd backend. Timestamps are stored as
// DBTimeLayout text in UTC and emitted verbatim.

// Reading is one temperature/humidity sample.
type Reading struct {
	ID          int64    `json:"-" db:"id"`
	TS          string   `json:"ts" db:"ts"`
	Temperature *float64 `json:"temp" db:"temp"`
	Humidity    *float64 `json:"hum" db:"hum"`
}

// DeviceState is the single row holding the vent position and hazard flags.
type DeviceState struct {
	Vent      VentState `db:"vent_state"`
	Rain      bool      `db:"rain"`
	Smoke     bool      `db:"smoke"`
	UpdatedAt string    `db:"updated_at"`
}

// ControlRecord is one control_log row.
type ControlRecord struct {
	ID      int64  `json:"-" db:"id"`
	TS      string `json:"ts" db:"ts"`
	ByUser  string `json:"by_user" db:"by_user"`
	Command string `json:"command" db:"command"`
}

// HazardSample is one rain/smoke flag change.
type HazardSample struct {
	ID    int64  `json:"-" db:"id"`
	TS    string `json:"ts" db:"ts"`
	Value int    `json:"val" db:"val"`
}

// FormatDBTime renders t the way the backend stores it.
func FormatDBTime(t time.Time) string {
	return t.UTC().Format(DBTimeLayout)
}
