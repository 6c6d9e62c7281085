package client

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"roof_vent/internal/models"
)

// record is one decoded JSON object before normalization. Different backend
// revisions spell the same field differently (rain vs rain_active), so every
// lookup goes through first() with all known aliases.
type record map[string]any

func (r record) first(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r record) str(keys ...string) string {
	v, ok := r.first(keys...)
	if !ok {
		return ""
	}
	return coerceString(v)
}

func (r record) flag(keys ...string) bool {
	v, ok := r.first(keys...)
	return ok && coerceBool(v)
}

func (r record) number(field string, keys ...string) (*float64, error) {
	v, ok := r.first(keys...)
	if !ok {
		return nil, nil
	}
	f, err := coerceFloat(v)
	if err != nil {
		return nil, &models.ParseError{Field: field, Value: coerceString(v)}
	}
	return f, nil
}

func (r record) timestamp(keys ...string) (models.Timestamp, error) {
	return models.ParseTimestamp(r.str(keys...))
}

// coerceBool accepts true/false, 0/1 and their string spellings.
func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "on", "yes":
			return true
		}
	}
	return false
}

func coerceFloat(v any) (*float64, error) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("non-finite number")
		}
		return &t, nil
	case int:
		f := float64(t)
		return &f, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("not a number")
		}
		return &f, nil
	}
	return nil, fmt.Errorf("unexpected type %T", v)
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func collect(errs []error, err error) []error {
	if err != nil {
		errs = append(errs, err)
	}
	return errs
}

func normalizeStatus(r record) (models.StatusSnapshot, []error) {
	var errs []error
	temp, err := r.number("temperature", "temp", "temperature")
	errs = collect(errs, err)
	hum, err := r.number("humidity", "hum", "humidity")
	errs = collect(errs, err)
	readingAt, err := r.timestamp("ts", "reading_at")
	errs = collect(errs, err)
	ventAt, err := r.timestamp("vent_updated", "vent_updated_at")
	errs = collect(errs, err)

	return models.StatusSnapshot{
		Temperature:   temp,
		Humidity:      hum,
		ReadingAt:     readingAt,
		Vent:          models.ParseVentState(r.str("vent", "vent_state")),
		VentUpdatedAt: ventAt,
		RainActive:    r.flag("rain", "rain_active"),
		SmokeActive:   r.flag("smoke", "smoke_active"),
		UserName:      r.str("user", "user_name", "username"),
	}, errs
}

func normalizeHistory(rows []record) ([]models.HistoryPoint, []error) {
	var errs []error
	out := make([]models.HistoryPoint, 0, len(rows))
	for _, r := range rows {
		at, err := r.timestamp("ts", "timestamp")
		errs = collect(errs, err)
		temp, err := r.number("temperature", "temp", "temperature")
		errs = collect(errs, err)
		hum, err := r.number("humidity", "hum", "humidity")
		errs = collect(errs, err)
		out = append(out, models.HistoryPoint{At: at, Temperature: temp, Humidity: hum})
	}
	return out, errs
}

func normalizeSeries(kind models.SeriesKind, rows []record) ([]models.SeriesPoint, []error) {
	var errs []error
	out := make([]models.SeriesPoint, 0, len(rows))
	for _, r := range rows {
		at, err := r.timestamp("ts", "timestamp")
		errs = collect(errs, err)
		v := 0
		if r.flag("val", "value", string(kind), string(kind)+"_active") {
			v = 1
		}
		out = append(out, models.SeriesPoint{At: at, Value: v})
	}
	return out, errs
}

func normalizeLog(rows []record) ([]models.LogEntry, []error) {
	var errs []error
	out := make([]models.LogEntry, 0, len(rows))
	for _, r := range rows {
		at, err := r.timestamp("ts", "timestamp")
		errs = collect(errs, err)
		out = append(out, models.LogEntry{
			At:      at,
			Actor:   r.str("by_user", "actor", "user"),
			Command: r.str("command", "cmd"),
		})
	}
	return out, errs
}
