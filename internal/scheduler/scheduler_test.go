package scheduler

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roof_vent/internal/client"
	"roof_vent/internal/clock"
	"roof_vent/internal/models"
	"roof_vent/internal/render"
)

type postedCommand struct {
	kind    client.CommandKind
	payload any
}

type fakeCommander struct {
	mu    sync.Mutex
	calls []postedCommand
	ack   client.Ack
	err   error
}

func (f *fakeCommander) PostCommand(_ context.Context, kind client.CommandKind, payload any) (client.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, postedCommand{kind: kind, payload: payload})
	return f.ack, f.err
}

func (f *fakeCommander) posted() []postedCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]postedCommand(nil), f.calls...)
}

type countingRefresher struct {
	mu sync.Mutex
	n  int
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	return nil
}

func (r *countingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

type staticKeys string

func (k staticKeys) WeatherKey() string { return string(k) }

type fixture struct {
	clock     *clock.Fake
	cmd       *fakeCommander
	refresher *countingRefresher
	rec       *render.Reconciler
	sched     *Scheduler
}

func newFixture(t *testing.T, keys KeyStore) *fixture {
	t.Helper()
	reg, err := render.NewPage(render.PageAll)
	require.NoError(t, err)
	f := &fixture{
		clock:     clock.NewFake(time.Unix(0, 0)),
		cmd:       &fakeCommander{ack: client.Ack{"ok": true}},
		refresher: &countingRefresher{},
		rec:       render.NewReconciler(reg),
	}
	walk := NewRandomWalk(rand.New(rand.NewPCG(1, 2)))
	f.sched = New(f.clock, f.cmd, f.refresher, f.rec, keys, nil, WithRandomWalk(walk))
	return f
}

func widgetText(t *testing.T, rec *render.Reconciler, id render.ID) string {
	t.Helper()
	w, ok := rec.Registry().Get(id)
	require.True(t, ok)
	switch v := w.(type) {
	case *render.TextField:
		return v.Text
	case *render.Badge:
		return v.Text
	}
	t.Fatalf("widget %s has no text", id)
	return ""
}

func TestClampInterval(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{time.Second, 2 * time.Second},
		{100 * time.Second, 30 * time.Second},
		{0, DefaultInterval},
		{10 * time.Second, 10 * time.Second},
		{2 * time.Second, 2 * time.Second},
		{30 * time.Second, 30 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampInterval(tt.in), "in=%s", tt.in)
	}
}

func TestResolveCredential(t *testing.T) {
	key, implicit := ResolveCredential(" typed ", "saved")
	assert.Equal(t, "typed", key)
	assert.False(t, implicit)

	key, implicit = ResolveCredential("", "saved")
	assert.Equal(t, "saved", key)
	assert.False(t, implicit)

	key, implicit = ResolveCredential("  ", "")
	assert.Empty(t, key)
	assert.True(t, implicit)
}

func TestStartWeatherReplacesSimulated(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.sched.StartSimulated(ctx, time.Second)
	assert.Equal(t, Simulated, f.sched.State().Mode)
	assert.Equal(t, MinInterval, f.sched.State().Interval)

	f.sched.StartWeather(ctx, 100*time.Second, "", "")
	assert.Equal(t, WeatherPull, f.sched.State().Mode)
	assert.Equal(t, MaxInterval, f.sched.State().Interval)
	assert.Equal(t, DefaultCity, f.sched.State().City)
	assert.Len(t, f.clock.ActiveTickers(), 1)
	assert.Equal(t, 1, f.sched.ActiveTimers())
	assert.Equal(t, "Mode: Weather", widgetText(t, f.rec, render.ModeBadge))

	assert.Equal(t, "Weather Mode running (using system key)…", widgetText(t, f.rec, render.WeatherMsg))

	f.sched.StartSimulated(ctx, 0)
	assert.Len(t, f.clock.ActiveTickers(), 1)
	assert.Equal(t, "Mode: Demo", widgetText(t, f.rec, render.ModeBadge))
	assert.Empty(t, widgetText(t, f.rec, render.WeatherMsg))
}

func TestSimulatedTickSubmitsReading(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.sched.StartSimulated(ctx, 3*time.Second)
	f.clock.Advance(3 * time.Second)

	require.Eventually(t, func() bool { return f.refresher.count() == 1 }, time.Second, 5*time.Millisecond)
	calls := f.cmd.posted()
	require.Len(t, calls, 1)
	assert.Equal(t, client.CommandSensor, calls[0].kind)
	reading := calls[0].payload.(map[string]float64)
	assert.InDelta(t, TempCenter, reading["temp"], TempSpan)
	assert.InDelta(t, HumCenter, reading["hum"], HumSpan)
}

func TestSimulatedTickRefreshesEvenWhenSubmitFails(t *testing.T) {
	f := newFixture(t, nil)
	f.cmd.err = errors.New("backend down")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.sched.StartSimulated(ctx, 2*time.Second)
	f.clock.Advance(2 * time.Second)

	require.Eventually(t, func() bool { return f.refresher.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestWeatherTickSuccess(t *testing.T) {
	f := newFixture(t, staticKeys("remembered"))
	f.cmd.ack = client.Ack{"ok": true, "city": "Sydney", "temp": 21.34, "hum": 60.2}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.sched.StartWeather(ctx, 5*time.Second, "", "Sydney,AU")
	assert.Equal(t, "Weather Mode running…", widgetText(t, f.rec, render.WeatherMsg))

	f.clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool {
		return widgetText(t, f.rec, render.WeatherMsg) == "Sydney: 21.3°C, 60%"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.refresher.count())

	calls := f.cmd.posted()
	require.Len(t, calls, 1)
	assert.Equal(t, client.CommandPullWeather, calls[0].kind)
	assert.Equal(t, map[string]string{"city": "Sydney,AU", "key": "remembered"}, calls[0].payload)
}

func TestWeatherTickImplicitKey(t *testing.T) {
	f := newFixture(t, staticKeys(""))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.sched.StartWeather(ctx, 0, "", "Oslo,NO")
	assert.True(t, f.sched.State().Implicit)
	assert.Equal(t, "Weather Mode running (using system key)…", widgetText(t, f.rec, render.WeatherMsg))

	f.clock.Advance(DefaultInterval)
	require.Eventually(t, func() bool { return len(f.cmd.posted()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, map[string]string{"city": "Oslo,NO"}, f.cmd.posted()[0].payload)
}

func TestWeatherFailureKeepsWidgets(t *testing.T) {
	f := newFixture(t, nil)
	f.cmd.err = errors.New("502")
	f.rec.ApplySnapshot(models.StatusSnapshot{Temperature: models.Float(19.5), Vent: models.VentOpen})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.sched.StartWeather(ctx, 2*time.Second, "typed", "")
	f.clock.Advance(2 * time.Second)

	require.Eventually(t, func() bool {
		return widgetText(t, f.rec, render.WeatherMsg) == weatherFailedText
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "19.5", widgetText(t, f.rec, render.TempValue))
	assert.Equal(t, 0, f.refresher.count())
}

func TestStopClearsSlot(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.sched.StartWeather(ctx, 0, "k", "")
	f.sched.StopMode(Simulated)
	assert.Equal(t, WeatherPull, f.sched.State().Mode, "stopping an inactive mode is a no-op")

	f.sched.StopMode(WeatherPull)
	assert.Equal(t, Idle, f.sched.State().Mode)
	assert.Empty(t, f.clock.ActiveTickers())
	assert.Equal(t, 0, f.sched.ActiveTimers())
	assert.Equal(t, "", widgetText(t, f.rec, render.WeatherMsg))
	assert.Equal(t, "Mode: "+render.Placeholder, widgetText(t, f.rec, render.ModeBadge))

	f.clock.Advance(time.Minute)
	assert.Empty(t, f.cmd.posted())
}

func TestSetIntervalRestartsActiveMode(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Equal(t, MinInterval, f.sched.SetInterval(ctx, time.Millisecond))
	assert.Equal(t, Idle, f.sched.State().Mode)

	f.sched.StartSimulated(ctx, 0)
	assert.Equal(t, MinInterval, f.sched.State().Interval)

	assert.Equal(t, 7*time.Second, f.sched.SetInterval(ctx, 7*time.Second))
	active := f.clock.ActiveTickers()
	require.Len(t, active, 1)
	assert.Equal(t, 7*time.Second, active[0].Interval)
}

func TestRandomWalkStaysInBounds(t *testing.T) {
	w := NewRandomWalk(rand.New(rand.NewPCG(7, 11)))
	for i := 0; i < 1000; i++ {
		temp, hum := w.Next()
		require.GreaterOrEqual(t, temp, TempCenter-TempSpan)
		require.LessOrEqual(t, temp, TempCenter+TempSpan)
		require.GreaterOrEqual(t, hum, HumCenter-HumSpan)
		require.LessOrEqual(t, hum, HumCenter+HumSpan)
	}
}

func TestWeatherSummary(t *testing.T) {
	assert.Equal(t, "Paris: 12.0°C, 81%", WeatherSummary(client.Ack{"city": "Paris", "temp": 12, "hum": 80.6}, "x"))
	assert.Equal(t, "x: —°C, —%", WeatherSummary(client.Ack{}, "x"))
}
