// Package tui is the terminal page: it renders the widget registry and maps
// key presses onto control, mode and preference actions.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"roof_vent/internal/control"
	"roof_vent/internal/dashboard"
	"roof_vent/internal/logger"
	"roof_vent/internal/models"
	"roof_vent/internal/notify"
	"roof_vent/internal/prefs"
	"roof_vent/internal/render"
	"roof_vent/internal/scheduler"
)

const redrawEvery = 500 * time.Millisecond

// Deps are the collaborators the page drives.
type Deps struct {
	Ctx        context.Context
	Engine     *dashboard.Engine
	Dispatcher *control.Dispatcher
	Scheduler  *scheduler.Scheduler
	Notifier   dashboard.Notifier
	Prefs      *prefs.Store
	Log        *logger.Logger
	// WeatherKey is the explicitly supplied credential, if any.
	WeatherKey string
	City       string
	Page       string
}

type redrawMsg time.Time

type actionDoneMsg struct {
	what string
	err  error
}

type loggedOutMsg struct{}

// Model is the bubbletea model of the dashboard.
type Model struct {
	deps   Deps
	keys   KeyMap
	help   help.Model
	theme  string
	styles styles
	width  int
	toast  *notify.Toast
	status string
}

func NewModel(d Deps) Model {
	if d.Ctx == nil {
		d.Ctx = context.Background()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	theme := prefs.DefaultTheme
	if d.Prefs != nil {
		theme = d.Prefs.Theme()
	}
	return Model{
		deps:   d,
		keys:   DefaultKeyMap,
		help:   help.New(),
		theme:  theme,
		styles: newStyles(theme),
		width:  100,
	}
}

func (m Model) Init() tea.Cmd {
	m.resumeWeather()
	return tea.Batch(redrawCmd(), m.run("refresh", m.deps.Engine.Refresh))
}

// resumeWeather starts Weather Mode on load when a key was saved earlier and
// the page has a weather control.
func (m Model) resumeWeather() {
	d := m.deps
	if d.Prefs == nil || d.Scheduler == nil || d.Prefs.WeatherKey() == "" {
		return
	}
	if !d.Engine.Reconciler().Registry().HasAny(render.WeatherMsg, render.ModeBadge) {
		return
	}
	d.Scheduler.StartWeather(d.Ctx, 0, d.WeatherKey, d.City)
}

func redrawCmd() tea.Cmd {
	return tea.Tick(redrawEvery, func(t time.Time) tea.Msg { return redrawMsg(t) })
}

// run executes fn off the event loop and reports back with actionDoneMsg.
func (m Model) run(what string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.deps.Ctx
	return func() tea.Msg {
		return actionDoneMsg{what: what, err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case redrawMsg:
		return m, redrawCmd()

	case toastMsg:
		t := msg.toast
		m.toast = &t
		return m, nil

	case hideToastMsg:
		if m.toast != nil && m.toast.ID == msg.id {
			m.toast = nil
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.what + " failed"
			m.deps.Log.Debugw("action_failed", "action", msg.what, "err", msg.err)
			if m.deps.Notifier != nil && msg.what != "refresh" {
				m.deps.Notifier.Notify(m.status, notify.Warn, 0)
			}
		} else {
			m.status = ""
		}
		return m, nil

	case loggedOutMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.deps
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m, m.run("open", func(ctx context.Context) error {
			return d.Dispatcher.SendVentCommand(ctx, models.VentOpen)
		})

	case key.Matches(msg, m.keys.Close):
		return m, m.run("close", func(ctx context.Context) error {
			return d.Dispatcher.SendVentCommand(ctx, models.VentClose)
		})

	case key.Matches(msg, m.keys.Rain):
		return m, m.toggleHazard(models.HazardRain, render.RainToggle)

	case key.Matches(msg, m.keys.Smoke):
		return m, m.toggleHazard(models.HazardSmoke, render.SmokeToggle)

	case key.Matches(msg, m.keys.Demo):
		if d.Scheduler.State().Mode == scheduler.Simulated {
			d.Scheduler.StopMode(scheduler.Simulated)
		} else {
			d.Scheduler.StartSimulated(d.Ctx, 0)
		}
		return m, nil

	case key.Matches(msg, m.keys.Weather):
		if d.Scheduler.State().Mode == scheduler.WeatherPull {
			d.Scheduler.StopMode(scheduler.WeatherPull)
		} else {
			d.Scheduler.StartWeather(d.Ctx, 0, d.WeatherKey, d.City)
		}
		return m, nil

	case key.Matches(msg, m.keys.Faster):
		d.Scheduler.SetInterval(d.Ctx, d.Scheduler.Interval()-time.Second)
		return m, nil

	case key.Matches(msg, m.keys.Slower):
		d.Scheduler.SetInterval(d.Ctx, d.Scheduler.Interval()+time.Second)
		return m, nil

	case key.Matches(msg, m.keys.SaveKey):
		if d.Prefs == nil || d.WeatherKey == "" {
			return m, nil
		}
		if err := d.Prefs.SetWeatherKey(d.WeatherKey); err != nil {
			d.Log.Warnw("save_weather_key_failed", "err", err)
			m.status = "saving key failed"
			return m, nil
		}
		d.Engine.Reconciler().ApplyWeatherMessage("Key saved.", render.ToneSuccess)
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.theme = prefs.NextTheme(m.theme)
		m.styles = newStyles(m.theme)
		if d.Prefs != nil {
			if err := d.Prefs.SetTheme(m.theme); err != nil {
				d.Log.Warnw("save_theme_failed", "err", err)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.run("refresh", d.Engine.Refresh)

	case key.Matches(msg, m.keys.Logout):
		ctx := d.Ctx
		return m, func() tea.Msg {
			d.Scheduler.Stop()
			if err := d.Dispatcher.Logout(ctx); err != nil {
				return actionDoneMsg{what: "logout", err: err}
			}
			return loggedOutMsg{}
		}
	}
	return m, nil
}

// toggleHazard flips the flag shown by the page's toggle. Pages without the
// toggle have no control for it.
func (m Model) toggleHazard(kind models.HazardKind, id render.ID) tea.Cmd {
	w, ok := m.deps.Engine.Reconciler().Registry().Get(id)
	if !ok {
		return nil
	}
	on := !w.(*render.Toggle).Checked
	d := m.deps
	return m.run("set-"+string(kind), func(ctx context.Context) error {
		return d.Dispatcher.SetSimulatedHazard(ctx, kind, on)
	})
}

// Theme is the active theme name.
func (m Model) Theme() string { return m.theme }
