package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"roof_vent/internal/client"
	"roof_vent/internal/clock"
	"roof_vent/internal/logger"
	"roof_vent/internal/render"
)

// Interval bounds for both simulation modes.
const (
	MinInterval     = 2 * time.Second
	MaxInterval     = 30 * time.Second
	DefaultInterval = 5 * time.Second
)

// DefaultCity is pulled when no city is given.
const DefaultCity = "Sydney,AU"

const weatherFailedText = "Weather fetch failed (key activation, city, or network)."

// Mode is the owner of the single timer slot.
type Mode int

const (
	Idle Mode = iota
	Simulated
	WeatherPull
)

func (m Mode) String() string {
	switch m {
	case Simulated:
		return "simulated"
	case WeatherPull:
		return "weather"
	default:
		return "idle"
	}
}

// State describes the active mode.
type State struct {
	Mode     Mode
	Interval time.Duration
	City     string
	// Implicit is true when the weather pull relies on the server-side key.
	Implicit bool

	key string
}

// Refresher runs a full reconciliation pass.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// KeyStore holds the locally remembered weather credential.
type KeyStore interface {
	WeatherKey() string
}

// ClampInterval forces d into [MinInterval, MaxInterval]; d <= 0 means default.
func ClampInterval(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultInterval
	case d < MinInterval:
		return MinInterval
	case d > MaxInterval:
		return MaxInterval
	}
	return d
}

// ResolveCredential picks the explicit key, then the remembered one. An empty
// result means the backend should use its own configured key.
func ResolveCredential(explicit, remembered string) (key string, implicit bool) {
	if k := strings.TrimSpace(explicit); k != "" {
		return k, false
	}
	if k := strings.TrimSpace(remembered); k != "" {
		return k, false
	}
	return "", true
}

// Scheduler owns exactly one repeating timer. Every Start tears the previous
// timer down before installing the next, so Simulated and WeatherPull are
// mutually exclusive by construction.
type Scheduler struct {
	mu        sync.Mutex
	clock     clock.Clock
	cmd       client.Commander
	refresher Refresher
	rec       *render.Reconciler
	keys      KeyStore
	log       *logger.Logger
	walk      *RandomWalk

	interval time.Duration
	state    State
	ticker   clock.Ticker
	stop     chan struct{}
	gen      uint64
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithRandomWalk replaces the reading generator.
func WithRandomWalk(w *RandomWalk) Option {
	return func(s *Scheduler) { s.walk = w }
}

func New(c clock.Clock, cmd client.Commander, refresher Refresher, rec *render.Reconciler, keys KeyStore, log *logger.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	s := &Scheduler{
		clock:     c,
		cmd:       cmd,
		refresher: refresher,
		rec:       rec,
		keys:      keys,
		log:       log,
		interval:  DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.walk == nil {
		s.walk = NewRandomWalk(nil)
	}
	return s
}

// State returns the active mode.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Interval is the tick interval the next Start will use.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// StartSimulated submits a synthetic reading every interval.
func (s *Scheduler) StartSimulated(ctx context.Context, interval time.Duration) {
	prev := s.install(ctx, State{Mode: Simulated, Interval: s.pickInterval(interval)}, s.simulatedTick)
	s.rec.ApplyMode(render.ModeDemo)
	if prev == WeatherPull {
		s.rec.ApplyWeatherMessage("", render.ToneNone)
	}
}

// StartWeather pulls current weather for city every interval.
func (s *Scheduler) StartWeather(ctx context.Context, interval time.Duration, explicitKey, city string) {
	remembered := ""
	if s.keys != nil {
		remembered = s.keys.WeatherKey()
	}
	key, implicit := ResolveCredential(explicitKey, remembered)
	city = strings.TrimSpace(city)
	if city == "" {
		city = DefaultCity
	}

	st := State{Mode: WeatherPull, Interval: s.pickInterval(interval), City: city, Implicit: implicit, key: key}
	s.install(ctx, st, func(ctx context.Context, gen uint64) { s.weatherTick(ctx, gen, key, city) })

	s.rec.ApplyMode(render.ModeWeather)
	if implicit {
		s.rec.ApplyWeatherMessage("Weather Mode running (using system key)…", render.ToneMuted)
	} else {
		s.rec.ApplyWeatherMessage("Weather Mode running…", render.ToneMuted)
	}
}

// Stop cancels whatever mode is active.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	prev := s.state.Mode
	s.teardownLocked()
	s.mu.Unlock()

	s.rec.ApplyMode(render.ModeNone)
	if prev == WeatherPull {
		s.rec.ApplyWeatherMessage("", render.ToneNone)
	}
}

// StopMode stops m only if it currently owns the timer slot.
func (s *Scheduler) StopMode(m Mode) {
	if s.State().Mode == m {
		s.Stop()
	}
}

// SetInterval clamps and stores d, restarting the active mode with it.
func (s *Scheduler) SetInterval(ctx context.Context, d time.Duration) time.Duration {
	d = ClampInterval(d)
	s.mu.Lock()
	s.interval = d
	st := s.state
	s.mu.Unlock()

	switch st.Mode {
	case Simulated:
		s.StartSimulated(ctx, d)
	case WeatherPull:
		s.StartWeather(ctx, d, st.key, st.City)
	}
	return d
}

// ActiveTimers reports how many repeating timers are installed (0 or 1).
func (s *Scheduler) ActiveTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker == nil {
		return 0
	}
	return 1
}

func (s *Scheduler) pickInterval(d time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d <= 0 {
		d = s.interval
	}
	d = ClampInterval(d)
	s.interval = d
	return d
}

// install replaces the active mode with st and returns the mode it replaced.
func (s *Scheduler) install(ctx context.Context, st State, tick func(context.Context, uint64)) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.Mode
	s.teardownLocked()
	s.gen++
	t := s.clock.NewTicker(st.Interval)
	stop := make(chan struct{})
	s.ticker, s.stop, s.state = t, stop, st
	s.log.Infow("mode_started", "mode", st.Mode.String(), "interval", st.Interval.String())

	go s.loop(ctx, t, stop, s.gen, tick)
	return prev
}

func (s *Scheduler) teardownLocked() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.log.Infow("mode_stopped", "mode", s.state.Mode.String())
	s.ticker, s.stop = nil, nil
	s.state = State{Mode: Idle}
	s.gen++
}

func (s *Scheduler) loop(ctx context.Context, t clock.Ticker, stop <-chan struct{}, gen uint64, tick func(context.Context, uint64)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-t.C():
			select {
			case <-stop:
				return
			default:
			}
			tick(ctx, gen)
		}
	}
}

// current reports whether gen still owns the timer slot. Ticks that finish
// after a mode switch must not touch mode-specific widgets.
func (s *Scheduler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

func (s *Scheduler) simulatedTick(ctx context.Context, gen uint64) {
	temp, hum := s.walk.Next()
	payload := map[string]float64{"temp": temp, "hum": hum}
	if _, err := s.cmd.PostCommand(ctx, client.CommandSensor, payload); err != nil {
		s.log.Warnw("sensor_submit_failed", "err", err)
	}
	if err := s.refresher.Refresh(ctx); err != nil {
		s.log.Debugw("refresh_after_tick_failed", "err", err)
	}
}

func (s *Scheduler) weatherTick(ctx context.Context, gen uint64, key, city string) {
	payload := map[string]string{"city": city}
	if key != "" {
		payload["key"] = key
	}

	ack, err := s.cmd.PostCommand(ctx, client.CommandPullWeather, payload)
	if err == nil && !ack.OK() {
		err = fmt.Errorf("pull-weather not acknowledged")
	}
	if err != nil {
		s.log.Warnw("weather_pull_failed", "city", city, "err", err)
		if s.current(gen) {
			s.rec.ApplyWeatherMessage(weatherFailedText, render.ToneDanger)
		}
		return
	}

	if err := s.refresher.Refresh(ctx); err != nil {
		s.log.Debugw("refresh_after_tick_failed", "err", err)
	}
	if s.current(gen) {
		s.rec.ApplyWeatherMessage(WeatherSummary(ack, city), render.ToneSuccess)
	}
}

// WeatherSummary formats a pull-weather acknowledgement as "<city>: <t>°C, <h>%".
func WeatherSummary(ack client.Ack, fallbackCity string) string {
	city := ack.String("city")
	if city == "" {
		city = fallbackCity
	}
	temp, hum := render.Placeholder, render.Placeholder
	if v := ack.Float("temp"); v != nil {
		temp = fmt.Sprintf("%.1f", *v)
	}
	if v := ack.Float("hum"); v != nil {
		hum = fmt.Sprintf("%.0f", *v)
	}
	return fmt.Sprintf("%s: %s°C, %s%%", city, temp, hum)
}
