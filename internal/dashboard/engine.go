// Package dashboard wires fetching, reconciliation and hazard alerting into
// one refresh pass and runs it on a poll loop.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"roof_vent/internal/client"
	"roof_vent/internal/clock"
	"roof_vent/internal/hazard"
	"roof_vent/internal/logger"
	"roof_vent/internal/models"
	"roof_vent/internal/mqtt"
	"roof_vent/internal/notify"
	"roof_vent/internal/render"
	"roof_vent/internal/scheduler"
)

// Notifier shows transient messages.
type Notifier interface {
	Notify(msg string, sev notify.Severity, d time.Duration)
}

// Engine performs full reconciliation passes. Concurrent Refresh calls are
// allowed: every pass applies its own data wholesale, so the last one to
// finish wins.
type Engine struct {
	api       client.Fetcher
	rec       *render.Reconciler
	monitor   *hazard.Monitor
	notifier  Notifier
	publisher mqtt.Publisher
	clock     clock.Clock
	log       *logger.Logger
	limit     int

	mu       sync.Mutex
	lastOK   time.Time
	failures int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPublisher forwards hazard alerts to MQTT.
func WithPublisher(p mqtt.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithHistoryLimit bounds history, series and log fetches.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) { e.limit = n }
}

func NewEngine(api client.Fetcher, rec *render.Reconciler, notifier Notifier, log *logger.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	e := &Engine{
		api:       api,
		rec:       rec,
		notifier:  notifier,
		publisher: mqtt.Nop{},
		clock:     clock.Real{},
		log:       log,
		limit:     client.DefaultLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.monitor = hazard.NewMonitor(e.clock.Now)
	return e
}

// Reconciler exposes the reconciler for mode and weather widgets.
func (e *Engine) Reconciler() *render.Reconciler { return e.rec }

type pass struct {
	status     models.StatusSnapshot
	statusErr  error
	history    []models.HistoryPoint
	historyErr error
	rain       []models.SeriesPoint
	rainErr    error
	smoke      []models.SeriesPoint
	smokeErr   error
	logs       []models.LogEntry
	logErr     error
}

// Refresh fetches everything the page shows in parallel, applies whatever
// arrived and evaluates the hazard detectors. A failed fetch only skips its
// own widgets; the error is returned for logging and never stops polling.
func (e *Engine) Refresh(ctx context.Context) error {
	reg := e.rec.Registry()
	wantHistory := reg.HasAny(render.TempChart, render.HumChart, render.SensorTable, render.LastUpdate)
	wantRain := reg.Has(render.RainChart)
	wantSmoke := reg.Has(render.SmokeChart)

	seq := e.monitor.Begin()

	var p pass
	var g errgroup.Group
	g.Go(func() error {
		p.status, p.statusErr = e.api.FetchStatus(ctx)
		return p.statusErr
	})
	g.Go(func() error {
		p.logs, p.logErr = e.api.FetchLog(ctx, e.limit)
		return p.logErr
	})
	if wantHistory {
		g.Go(func() error {
			p.history, p.historyErr = e.api.FetchHistory(ctx, e.limit)
			return p.historyErr
		})
	}
	if wantRain {
		g.Go(func() error {
			p.rain, p.rainErr = e.api.FetchSeries(ctx, models.HazardRain, e.limit)
			return p.rainErr
		})
	}
	if wantSmoke {
		g.Go(func() error {
			p.smoke, p.smokeErr = e.api.FetchSeries(ctx, models.HazardSmoke, e.limit)
			return p.smokeErr
		})
	}
	_ = g.Wait()

	obs := hazard.Observation{Seq: seq}
	if p.statusErr == nil {
		e.rec.ApplySnapshot(p.status)
		obs.Status = &p.status
	}
	if wantHistory && p.historyErr == nil {
		e.rec.ApplyHistory(p.history)
	}
	if wantRain && p.rainErr == nil {
		e.rec.ApplySeries(render.RainChart, p.rain)
	}
	if wantSmoke && p.smokeErr == nil {
		e.rec.ApplySeries(render.SmokeChart, p.smoke)
	}
	if p.logErr == nil {
		e.rec.ApplyLog(p.logs)
		obs.Log, obs.LogFetched = p.logs, true
	}

	for _, a := range e.monitor.Evaluate(obs) {
		e.emit(ctx, a)
	}

	err := errors.Join(
		wrap("status", p.statusErr),
		wrap("history", p.historyErr),
		wrap("rain-history", p.rainErr),
		wrap("smoke-history", p.smokeErr),
		wrap("control-log", p.logErr),
	)
	e.record(err)
	return err
}

func (e *Engine) emit(ctx context.Context, a hazard.Alert) {
	e.log.Infow("hazard_alert", "id", a.ID, "cause", string(a.Cause), "source", string(a.Source))
	if e.notifier != nil {
		e.notifier.Notify(a.Message, notify.Hazard, notify.DefaultDuration)
	}
	if err := e.publisher.PublishAlert(a); err != nil {
		e.log.Warnw("alert_publish_failed", "id", a.ID, "err", err)
	}
}

func (e *Engine) record(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.failures++
		if client.IsUnauthorized(err) {
			e.log.Warnw("refresh_unauthorized", "err", err)
		} else {
			e.log.Warnw("refresh_failed", "failures", e.failures, "err", err)
		}
		return
	}
	e.failures = 0
	e.lastOK = e.clock.Now()
}

// Health reports when the last fully successful pass finished and how many
// passes have failed since.
func (e *Engine) Health() (lastOK time.Time, failures int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastOK, e.failures
}

// Run refreshes immediately and then every interval until ctx is canceled.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	interval = scheduler.ClampInterval(interval)
	_ = e.Refresh(ctx)

	t := e.clock.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			_ = e.Refresh(ctx)
		}
	}
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}
