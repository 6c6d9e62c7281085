package models

import (
	"fmt"
	"strings"
	"time"
)

// DBTimeLayout is the fixed "YYYY-MM-DD HH:MM:SS" layout used by the backend.
const DBTimeLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	DBTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// ParseError reports a field that could not be interpreted.
// It degrades rendering; it never aborts a refresh cycle.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: malformed value %q", e.Field, e.Value)
}

// Timestamp keeps the raw backend value next to its parsed form so that
// unparseable values can still be displayed verbatim.
type Timestamp struct {
	Raw  string    `json:"raw"`
	Time time.Time `json:"time"`
}

// ParseTimestamp accepts ISO-8601 or "YYYY-MM-DD HH:MM:SS" values.
// On failure it returns a Timestamp that only carries Raw, plus a *ParseError.
func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Timestamp{Raw: raw, Time: t.UTC()}, nil
		}
	}
	return Timestamp{Raw: raw}, &ParseError{Field: "timestamp", Value: raw}
}

// NewTimestamp builds a Timestamp from an already parsed time.
func NewTimestamp(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{Raw: t.Format(DBTimeLayout), Time: t}
}

// IsZero reports whether the backend sent no value at all.
func (t Timestamp) IsZero() bool { return t.Raw == "" && t.Time.IsZero() }

// Parsed reports whether Time holds a real value.
func (t Timestamp) Parsed() bool { return !t.Time.IsZero() }

// Key is a stable identity for comparisons across polls.
func (t Timestamp) Key() string {
	if t.Parsed() {
		return t.Time.Format(time.RFC3339Nano)
	}
	return t.Raw
}
