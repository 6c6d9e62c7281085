package mqtt

import (
	"sync"

	"roof_vent/internal/hazard"
)

// FakePublisher records published alerts for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	// Alerts contains every alert that was published.
	Alerts []hazard.Alert

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// PublishError, if set, is returned by PublishAlert.
	PublishError error

	Closed bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) PublishAlert(alert hazard.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(alert)
	if err != nil {
		return err
	}
	f.Alerts = append(f.Alerts, alert)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Published returns a copy of the recorded alerts.
func (f *FakePublisher) Published() []hazard.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]hazard.Alert(nil), f.Alerts...)
}
