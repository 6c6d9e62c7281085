package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"roof_vent/internal/models"
	"roof_vent/internal/service"
	"roof_vent/internal/weather"
)

func TestHistoryEndpoints(t *testing.T) {
	sensors := &mockSensors{
		readings: []models.Reading{{ID: 1, TS: "2025-03-01 10:00:00", Temperature: models.Float(21), Humidity: models.Float(50)}},
		samples:  []models.HazardSample{{ID: 1, TS: "2025-03-01 10:00:00", Value: 1}},
		records:  []models.ControlRecord{{ID: 1, TS: "2025-03-01 10:00:00", ByUser: "SYSTEM", Command: "CLOSE cause=rain"}},
	}
	s := authedService()
	s.Sensors = sensors

	tests := []struct {
		path      string
		wantBody  string
		wantLimit int
		wantKind  models.HazardKind
	}{
		{"/api/v1/history?limit=3", `[{"ts":"2025-03-01 10:00:00","temp":21,"hum":50}]`, 3, ""},
		{"/api/v1/history", `[{"ts":"2025-03-01 10:00:00","temp":21,"hum":50}]`, 0, ""},
		{"/api/v1/rain-history", `[{"ts":"2025-03-01 10:00:00","val":1}]`, 0, models.HazardRain},
		{"/api/v1/smoke-history?limit=7", `[{"ts":"2025-03-01 10:00:00","val":1}]`, 7, models.HazardSmoke},
		{"/api/v1/control-log?limit=2", `[{"ts":"2025-03-01 10:00:00","by_user":"SYSTEM","command":"CLOSE cause=rain"}]`, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			sensors.lastKind = ""
			w := doJSON(t, s, http.MethodGet, tt.path, "")
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if w.Body.String() != tt.wantBody {
				t.Fatalf("body: got %s, want %s", w.Body.String(), tt.wantBody)
			}
			if sensors.lastLimit != tt.wantLimit || sensors.lastKind != tt.wantKind {
				t.Fatalf("service got limit=%d kind=%q", sensors.lastLimit, sensors.lastKind)
			}
		})
	}
}

func TestHistory_EmptyAndInvalid(t *testing.T) {
	s := authedService()
	s.Sensors = &mockSensors{}

	if w := doJSON(t, s, http.MethodGet, "/api/v1/control-log", ""); w.Body.String() != `[]` {
		t.Fatalf("empty list must encode as [], got %s", w.Body.String())
	}
	for _, q := range []string{"abc", "0", "-4"} {
		w := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/v1/history?limit=%s", q), "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("limit=%s: expected 400, got %d", q, w.Code)
		}
	}

	s.Sensors = &mockSensors{err: errors.New("db locked")}
	if w := doJSON(t, s, http.MethodGet, "/api/v1/rain-history", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestPostSensor(t *testing.T) {
	sensors := &mockSensors{}
	s := authedService()
	s.Sensors = sensors

	w := doJSON(t, s, http.MethodPost, "/api/v1/sensor", `{"temp":22.4,"hum":51}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if sensors.lastTemp == nil || *sensors.lastTemp != 22.4 || sensors.lastHum == nil || *sensors.lastHum != 51 {
		t.Fatalf("unexpected reading temp=%v hum=%v", sensors.lastTemp, sensors.lastHum)
	}

	sensors.recordErr = service.ErrEmptyReading
	if w := doJSON(t, s, http.MethodPost, "/api/v1/sensor", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty reading, got %d", w.Code)
	}
}

func TestPullWeather(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{"success", nil, http.StatusOK, true},
		{"no key", weather.ErrNoKey, http.StatusBadRequest, false},
		{"no city", weather.ErrNoCity, http.StatusBadRequest, false},
		{"provider down", errors.New("weather provider returned 401"), http.StatusBadGateway, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wx := &mockWeather{obs: weather.Observation{City: "Sydney", Temperature: 24.3, Humidity: 61}, err: tt.err}
			s := authedService()
			s.Weather = wx

			w := doJSON(t, s, http.MethodPost, "/api/v1/pull-weather", `{"key":"k1","city":"Sydney,AU"}`)
			if w.Code != tt.wantCode {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if wx.lastKey != "k1" || wx.lastCity != "Sydney,AU" {
				t.Fatalf("service got key=%q city=%q", wx.lastKey, wx.lastCity)
			}
			var out map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out["ok"] != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", out["ok"], tt.wantOK)
			}
			if tt.wantOK && (out["city"] != "Sydney" || out["temp"] != 24.3 || out["hum"] != 61.0) {
				t.Fatalf("unexpected body %v", out)
			}
		})
	}
}
