package service

import (
	"context"
	"time"

	"roof_vent/internal/models"
	"roof_vent/internal/repository"
	"roof_vent/internal/weather"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500

	// SystemActor is the control_log actor for automatic closures.
	SystemActor = "SYSTEM"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (Identity, error)
}

// Status exposes the composed device status.
type Status interface {
	GetStatus(ctx context.Context) (StatusView, error)
}

// Vent changes the actuator and the simulated hazard flags.
type Vent interface {
	Command(ctx context.Context, actor string, state models.VentState) error
	SetHazard(ctx context.Context, kind models.HazardKind, on bool) error
}

// Sensors records readings and serves the bounded histories.
type Sensors interface {
	Record(ctx context.Context, temp, hum *float64) error
	History(ctx context.Context, limit int) ([]models.Reading, error)
	HazardHistory(ctx context.Context, kind models.HazardKind, limit int) ([]models.HazardSample, error)
	ControlLog(ctx context.Context, limit int) ([]models.ControlRecord, error)
}

// Weather pulls current conditions and records them as a reading.
type Weather interface {
	Pull(ctx context.Context, key, city string) (weather.Observation, error)
}

type Service struct {
	Authorization
	Status
	Vent
	Sensors
	Weather
}

// Options carries the settings the services read from config.
type Options struct {
	SigningKey    string
	TokenTTL      time.Duration
	WeatherAPIKey string
	Now           func() time.Time
}

func NewService(repos *repository.Repository, provider weather.Provider, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	vent := NewVentService(repos.State, now)
	sensors := NewSensorService(repos.Readings, repos.HazardLog, repos.ControlLog, vent, now)
	return &Service{
		Authorization: NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL),
		Status:        NewStatusService(repos.State, repos.Readings),
		Vent:          vent,
		Sensors:       sensors,
		Weather:       NewWeatherService(provider, sensors, opts.WeatherAPIKey),
	}
}

// ClampLimit maps limit onto [1, MaxLimit]; non-positive means DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
