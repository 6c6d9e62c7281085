package service

import (
	"context"
	"errors"
	"time"

	"roof_vent/internal/models"
	"roof_vent/internal/weather"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type ventWrite struct {
	vent    models.VentState
	actor   string
	command string
}

// memState is an in-memory StateRepo.
type memState struct {
	st      models.DeviceState
	loadErr error
	setErr  error
	vents   []ventWrite
	flags   []models.HazardKind
}

func (m *memState) Load(context.Context) (models.DeviceState, error) {
	return m.st, m.loadErr
}

func (m *memState) SetVent(_ context.Context, vent models.VentState, actor, command string, at time.Time) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.st.Vent = vent
	m.st.UpdatedAt = models.FormatDBTime(at)
	m.vents = append(m.vents, ventWrite{vent, actor, command})
	return nil
}

func (m *memState) SetFlag(_ context.Context, kind models.HazardKind, on bool, at time.Time) error {
	switch kind {
	case models.HazardRain:
		m.st.Rain = on
	case models.HazardSmoke:
		m.st.Smoke = on
	default:
		return errors.New("unknown hazard")
	}
	m.st.UpdatedAt = models.FormatDBTime(at)
	m.flags = append(m.flags, kind)
	return nil
}

type memReadings struct {
	rows   []models.Reading
	limits []int
}

func (m *memReadings) Append(_ context.Context, at time.Time, temp, hum *float64) error {
	m.rows = append(m.rows, models.Reading{ID: int64(len(m.rows) + 1), TS: models.FormatDBTime(at), Temperature: temp, Humidity: hum})
	return nil
}

func (m *memReadings) Latest(context.Context) (*models.Reading, error) {
	if len(m.rows) == 0 {
		return nil, nil
	}
	r := m.rows[len(m.rows)-1]
	return &r, nil
}

func (m *memReadings) List(_ context.Context, limit int) ([]models.Reading, error) {
	m.limits = append(m.limits, limit)
	return m.rows, nil
}

type memHazardLog struct{ limits []int }

func (m *memHazardLog) List(_ context.Context, _ models.HazardKind, limit int) ([]models.HazardSample, error) {
	m.limits = append(m.limits, limit)
	return nil, nil
}

type memControlLog struct{ limits []int }

func (m *memControlLog) List(_ context.Context, limit int) ([]models.ControlRecord, error) {
	m.limits = append(m.limits, limit)
	return nil, nil
}

type stubProvider struct {
	obs     weather.Observation
	err     error
	gotKey  string
	gotCity string
}

func (p *stubProvider) Current(_ context.Context, key, city string) (weather.Observation, error) {
	p.gotKey, p.gotCity = key, city
	if key == "" {
		return weather.Observation{}, weather.ErrNoKey
	}
	return p.obs, p.err
}
