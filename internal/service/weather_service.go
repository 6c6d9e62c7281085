package service

import (
	"context"
	"fmt"
	"strings"

	"roof_vent/internal/weather"
)

type recorder interface {
	Record(ctx context.Context, temp, hum *float64) error
}

// WeatherService pulls current conditions and stores them as a reading.
type WeatherService struct {
	provider   weather.Provider
	sensors    recorder
	defaultKey string
}

func NewWeatherService(provider weather.Provider, sensors recorder, defaultKey string) *WeatherService {
	return &WeatherService{provider: provider, sensors: sensors, defaultKey: defaultKey}
}

// Pull uses key when given, otherwise the server's configured key.
func (s *WeatherService) Pull(ctx context.Context, key, city string) (weather.Observation, error) {
	if strings.TrimSpace(key) == "" {
		key = s.defaultKey
	}
	obs, err := s.provider.Current(ctx, key, city)
	if err != nil {
		return weather.Observation{}, err
	}
	temp, hum := obs.Temperature, obs.Humidity
	if err := s.sensors.Record(ctx, &temp, &hum); err != nil {
		return weather.Observation{}, fmt.Errorf("record weather reading: %w", err)
	}
	return obs, nil
}
