package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"roof_vent/internal/client"
	"roof_vent/internal/clock"
	"roof_vent/internal/control"
	"roof_vent/internal/dashboard"
	"roof_vent/internal/models"
	"roof_vent/internal/notify"
	"roof_vent/internal/prefs"
	"roof_vent/internal/render"
	"roof_vent/internal/scheduler"
)

type stubAPI struct {
	status models.StatusSnapshot
	posted []client.CommandKind
}

func (s *stubAPI) FetchStatus(context.Context) (models.StatusSnapshot, error) { return s.status, nil }
func (s *stubAPI) FetchHistory(context.Context, int) ([]models.HistoryPoint, error) {
	return nil, nil
}
func (s *stubAPI) FetchSeries(context.Context, models.SeriesKind, int) ([]models.SeriesPoint, error) {
	return nil, nil
}
func (s *stubAPI) FetchLog(context.Context, int) ([]models.LogEntry, error) { return nil, nil }
func (s *stubAPI) PostCommand(_ context.Context, kind client.CommandKind, _ any) (client.Ack, error) {
	s.posted = append(s.posted, kind)
	return client.Ack{"ok": true}, nil
}

func newTestModel(t *testing.T, page string, api *stubAPI) (Model, *prefs.Store) {
	t.Helper()
	reg, err := render.NewPage(page)
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	rec := render.NewReconciler(reg)
	engine := dashboard.NewEngine(api, rec, nil, nil)
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.yml"))
	if err != nil {
		t.Fatalf("prefs.Open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	sched := scheduler.New(clock.NewFake(time.Unix(0, 0)), api, engine, rec, store, nil)

	m := NewModel(Deps{
		Ctx:        ctx,
		Engine:     engine,
		Dispatcher: control.NewDispatcher(api, engine, nil),
		Scheduler:  sched,
		Prefs:      store,
		WeatherKey: "typed-key",
		Page:       page,
	})
	return m, store
}

func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return next.(Model), cmd
}

func TestViewShowsReconciledState(t *testing.T) {
	api := &stubAPI{status: models.StatusSnapshot{
		Temperature: models.Float(36),
		Humidity:    models.Float(40),
		Vent:        models.VentOpen,
		SmokeActive: true,
		UserName:    "admin",
	}}
	m, _ := newTestModel(t, render.PageAll, api)
	if err := m.deps.Engine.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	view := m.View()
	for _, want := range []string{"Vent: OPEN", "Smoke: ON", "36.0", "Smoke detected!", "High temperature!", "admin", "No data."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLogsPageOmitsSensorWidgets(t *testing.T) {
	m, _ := newTestModel(t, render.PageLogs, &stubAPI{})
	view := m.View()
	if strings.Contains(view, "Temp ") || strings.Contains(view, "Sensor readings") {
		t.Errorf("logs page rendered sensor widgets:\n%s", view)
	}
	if !strings.Contains(view, "Control log") {
		t.Errorf("logs page missing control log")
	}

	if _, cmd := press(m, "r"); cmd != nil {
		t.Errorf("rain toggle should be a no-op without the toggle widget")
	}
}

func TestThemeKeyCyclesAndPersists(t *testing.T) {
	m, store := newTestModel(t, render.PageOverview, &stubAPI{})
	if m.Theme() != prefs.DefaultTheme {
		t.Fatalf("theme = %q", m.Theme())
	}
	m, _ = press(m, "t")
	if m.Theme() != "teal" {
		t.Errorf("theme = %q, want teal", m.Theme())
	}
	if store.Theme() != "teal" {
		t.Errorf("stored theme = %q, want teal", store.Theme())
	}
}

func TestSaveKeyRemembersCredential(t *testing.T) {
	m, store := newTestModel(t, render.PageSensors, &stubAPI{})
	press(m, "k")
	if store.WeatherKey() != "typed-key" {
		t.Errorf("stored key = %q", store.WeatherKey())
	}
	w, _ := m.deps.Engine.Reconciler().Registry().Get(render.WeatherMsg)
	if got := w.(*render.TextField).Text; got != "Key saved." {
		t.Errorf("weather msg = %q", got)
	}
}

func TestDemoKeyTogglesSimulatedMode(t *testing.T) {
	m, _ := newTestModel(t, render.PageSensors, &stubAPI{})
	m, _ = press(m, "d")
	if got := m.deps.Scheduler.State().Mode; got != scheduler.Simulated {
		t.Fatalf("mode = %v, want simulated", got)
	}
	m, _ = press(m, "w")
	if got := m.deps.Scheduler.State().Mode; got != scheduler.WeatherPull {
		t.Fatalf("mode = %v, want weather", got)
	}
	if m.deps.Scheduler.ActiveTimers() != 1 {
		t.Errorf("expected exactly one active timer")
	}
	press(m, "w")
	if got := m.deps.Scheduler.State().Mode; got != scheduler.Idle {
		t.Errorf("mode = %v, want idle", got)
	}
}

func TestVentKeyDispatchesCommand(t *testing.T) {
	api := &stubAPI{}
	m, _ := newTestModel(t, render.PageOverview, api)
	_, cmd := press(m, "o")
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if done, ok := msg.(actionDoneMsg); !ok || done.err != nil {
		t.Fatalf("unexpected msg %#v", msg)
	}
	if len(api.posted) != 1 || api.posted[0] != client.CommandVent {
		t.Errorf("posted = %v", api.posted)
	}
}

func TestToastShowAndHide(t *testing.T) {
	m, _ := newTestModel(t, render.PageLogs, &stubAPI{})
	next, _ := m.Update(toastMsg{toast: notify.Toast{ID: 3, Message: "Vent closed automatically due to rain.", Severity: notify.Hazard}})
	m = next.(Model)
	if !strings.Contains(m.View(), "due to rain") {
		t.Fatal("toast not rendered")
	}

	next, _ = m.Update(hideToastMsg{id: 2})
	m = next.(Model)
	if m.toast == nil {
		t.Fatal("stale hide removed newer toast")
	}
	next, _ = m.Update(hideToastMsg{id: 3})
	m = next.(Model)
	if m.toast != nil {
		t.Fatal("toast not hidden")
	}
}

func TestSparkline(t *testing.T) {
	c := render.NewLineChart("x", models.Float(0), models.Float(100))
	c.SetData([]string{"a", "b", "c", "d"}, []*float64{models.Float(0), models.Float(50), nil, models.Float(100)})
	if got := sparkline(c, 10); got != "▁▅ █" {
		t.Errorf("sparkline = %q", got)
	}
	if got := sparkline(c, 2); got != " █" {
		t.Errorf("truncated sparkline = %q", got)
	}
	if got := sparkline(render.NewLineChart("y", nil, nil), 10); got != render.Placeholder {
		t.Errorf("empty sparkline = %q", got)
	}
}

func TestInitResumesWeatherWithSavedKey(t *testing.T) {
	tests := []struct {
		name  string
		page  string
		saved string
		want  scheduler.Mode
	}{
		{"saved key on sensors page", render.PageSensors, "saved-key", scheduler.WeatherPull},
		{"no saved key", render.PageSensors, "", scheduler.Idle},
		{"page without weather control", render.PageLogs, "saved-key", scheduler.Idle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := newTestModel(t, tt.page, &stubAPI{})
			if tt.saved != "" {
				if err := store.SetWeatherKey(tt.saved); err != nil {
					t.Fatalf("SetWeatherKey: %v", err)
				}
			}
			if cmd := m.Init(); cmd == nil {
				t.Fatal("Init returned no command")
			}
			if got := m.deps.Scheduler.State().Mode; got != tt.want {
				t.Errorf("mode = %v, want %v", got, tt.want)
			}
			if tt.want == scheduler.WeatherPull && m.deps.Scheduler.ActiveTimers() != 1 {
				t.Errorf("expected exactly one active timer")
			}
		})
	}
}
