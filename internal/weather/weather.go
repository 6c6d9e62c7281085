// Package weather fetches current conditions from OpenWeatherMap for the
// ventd weather-pull endpoint.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNoKey  = errors.New("weather api key is not configured")
	ErrNoCity = errors.New("city is empty")
)

// Observation is the subset of the current-weather response ventd stores.
type Observation struct {
	City        string
	Temperature float64
	Humidity    float64
}

// Provider resolves current conditions for a city.
type Provider interface {
	Current(ctx context.Context, key, city string) (Observation, error)
}

// OpenWeather calls the current-weather endpoint with metric units.
type OpenWeather struct {
	baseURL string
	http    *http.Client
}

var _ Provider = (*OpenWeather)(nil)

func NewOpenWeather(baseURL string, timeout time.Duration) *OpenWeather {
	hc := &http.Client{}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return &OpenWeather{baseURL: baseURL, http: hc}
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
}

func (o *OpenWeather) Current(ctx context.Context, key, city string) (Observation, error) {
	key, city = strings.TrimSpace(key), strings.TrimSpace(city)
	if key == "" {
		return Observation{}, ErrNoKey
	}
	if city == "" {
		return Observation{}, ErrNoCity
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", key)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Observation{}, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := o.http.Do(req)
	if err != nil {
		return Observation{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Observation{}, fmt.Errorf("weather provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cr currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Observation{}, fmt.Errorf("decode weather response: %w", err)
	}
	name := cr.Name
	if name == "" {
		name = city
	}
	return Observation{City: name, Temperature: cr.Main.Temp, Humidity: cr.Main.Humidity}, nil
}
