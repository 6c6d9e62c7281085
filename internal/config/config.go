// Package config loads configs/config.yml through viper and exposes typed accessors.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load registers defaults, reads configs/config.yml when present and enables
// environment overrides (dashboard.base_url -> DASHBOARD_BASE_URL).
func Load() error {
	setDefaults()

	viper.AddConfigPath("configs") // configs/config.yml
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil // defaults + env are enough
		}
		return err
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("db.path", "ventd.db")
	viper.SetDefault("auth.signing_key", "change-me")
	viper.SetDefault("auth.token_ttl", 12*time.Hour)
	viper.SetDefault("auth.admin_username", "admin")
	viper.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5/weather")
	viper.SetDefault("weather.timeout", 10*time.Second)

	viper.SetDefault("dashboard.base_url", "http://localhost:8080")
	viper.SetDefault("dashboard.page", "all")
	viper.SetDefault("dashboard.poll_interval", 5*time.Second)
	viper.SetDefault("dashboard.mode_interval", 5*time.Second)
	viper.SetDefault("dashboard.history_limit", 50)
	viper.SetDefault("dashboard.city", "Sydney,AU")
	viper.SetDefault("dashboard.prefs_path", "ventdash.yml")
	viper.SetDefault("dashboard.log_file", "ventdash.log")
	viper.SetDefault("dashboard.request_timeout", 0)

	viper.SetDefault("mqtt.topic", "roofvent/dashboard/alerts")
	viper.SetDefault("mqtt.client_id", "ventdash")

	viper.SetDefault("log.level", "info")
}

// Backend settings.

func Port() string                  { return viper.GetString("port") }
func DBPath() string                { return viper.GetString("db.path") }
func SigningKey() string            { return viper.GetString("auth.signing_key") }
func TokenTTL() time.Duration       { return viper.GetDuration("auth.token_ttl") }
func AdminUsername() string         { return viper.GetString("auth.admin_username") }
func AdminPassword() string         { return viper.GetString("auth.admin_password") }
func WeatherAPIKey() string         { return viper.GetString("weather.api_key") }
func WeatherBaseURL() string        { return viper.GetString("weather.base_url") }
func WeatherTimeout() time.Duration { return viper.GetDuration("weather.timeout") }

// Dashboard settings.

func DashboardBaseURL() string      { return viper.GetString("dashboard.base_url") }
func DashboardUsername() string     { return viper.GetString("dashboard.username") }
func DashboardPassword() string     { return viper.GetString("dashboard.password") }
func DashboardPage() string         { return viper.GetString("dashboard.page") }
func PollInterval() time.Duration   { return viper.GetDuration("dashboard.poll_interval") }
func ModeInterval() time.Duration   { return viper.GetDuration("dashboard.mode_interval") }
func HistoryLimit() int             { return viper.GetInt("dashboard.history_limit") }
func City() string                  { return viper.GetString("dashboard.city") }
func PrefsPath() string             { return viper.GetString("dashboard.prefs_path") }
func DashboardLogFile() string      { return viper.GetString("dashboard.log_file") }
func RequestTimeout() time.Duration { return viper.GetDuration("dashboard.request_timeout") }
func DashboardWeatherKey() string   { return viper.GetString("dashboard.weather_key") }

// MQTT alert forwarding. An empty broker disables it.

func MQTTBroker() string   { return viper.GetString("mqtt.broker") }
func MQTTTopic() string    { return viper.GetString("mqtt.topic") }
func MQTTClientID() string { return viper.GetString("mqtt.client_id") }

func LogLevel() string { return viper.GetString("log.level") }
