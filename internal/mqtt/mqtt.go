// Package mqtt forwards hazard alerts to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"time"

	"roof_vent/internal/hazard"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "roofvent/dashboard/alerts"

// Publisher publishes alerts.
type Publisher interface {
	// PublishAlert sends one alert. Failures must not stop the dashboard.
	PublishAlert(alert hazard.Alert) error

	// Close disconnects from the broker.
	Close() error
}

// Payload is the message body.
type Payload struct {
	Alert AlertPayload `json:"alert"`
}

// AlertPayload carries the alert details.
type AlertPayload struct {
	Timestamp string `json:"timestamp"`
	Cause     string `json:"cause"`
	Message   string `json:"message"`
	Source    string `json:"source"`
}

// FormatPayload builds the JSON payload for an alert.
func FormatPayload(alert hazard.Alert) ([]byte, error) {
	return json.Marshal(Payload{
		Alert: AlertPayload{
			Timestamp: alert.At.UTC().Format(time.RFC3339),
			Cause:     string(alert.Cause),
			Message:   alert.Message,
			Source:    string(alert.Source),
		},
	})
}

// Nop drops every alert. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishAlert(hazard.Alert) error { return nil }
func (Nop) Close() error                    { return nil }
