package main

import (
	"context"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"roof_vent/internal/client"
	"roof_vent/internal/clock"
	"roof_vent/internal/config"
	"roof_vent/internal/control"
	"roof_vent/internal/dashboard"
	"roof_vent/internal/logger"
	"roof_vent/internal/mqtt"
	"roof_vent/internal/notify"
	"roof_vent/internal/prefs"
	"roof_vent/internal/render"
	"roof_vent/internal/scheduler"
	"roof_vent/internal/tui"
)

func main() {
	pflag.String("page", "", "page variant: overview, sensors, logs or all")
	pflag.String("city", "", "city for weather mode")
	pflag.String("weather-key", "", "explicit OpenWeatherMap key")
	pflag.Parse()

	boot := logger.Get(logger.InfoLevel)
	if err := config.Load(); err != nil {
		boot.Fatalw("error reading config", "err", err)
	}
	bindFlag(boot, "dashboard.page", "page")
	bindFlag(boot, "dashboard.city", "city")
	bindFlag(boot, "dashboard.weather_key", "weather-key")
	page := config.DashboardPage()

	// the terminal belongs to the UI, so logs go to a file
	log, closeLog, err := logger.NewFile(config.LogLevel(), config.DashboardLogFile())
	if err != nil {
		boot.Fatalw("failed to open log file", "err", err)
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	api := client.New(config.DashboardBaseURL(), config.RequestTimeout(), log.Named("client"))
	if err := api.Login(ctx, config.DashboardUsername(), config.DashboardPassword()); err != nil {
		boot.Fatalw("sign-in failed", "base_url", config.DashboardBaseURL(), "err", err)
	}

	store, err := prefs.Open(config.PrefsPath())
	if err != nil {
		boot.Fatalw("failed to open prefs", "err", err)
	}

	reg, err := render.NewPage(page)
	if err != nil {
		boot.Fatalw("invalid page", "err", err)
	}
	rec := render.NewReconciler(reg)

	publisher := mqtt.NewBuffered(newPublisher(log), mqtt.DefaultQueueSize, log.Named("mqtt"))
	defer func() { _ = publisher.Close() }()

	surface := &tui.LateSurface{}
	notifier := notify.New(clock.Real{}, surface, notify.TTYBeeper{}, log.Named("notify"))

	engine := dashboard.NewEngine(api, rec, notifier, log.Named("dashboard"),
		dashboard.WithPublisher(publisher),
		dashboard.WithHistoryLimit(config.HistoryLimit()),
	)
	dispatcher := control.NewDispatcher(api, engine, log.Named("control"))
	sched := scheduler.New(clock.Real{}, api, engine, rec, store, log.Named("scheduler"))
	sched.SetInterval(ctx, config.ModeInterval())

	model := tui.NewModel(tui.Deps{
		Ctx:        ctx,
		Engine:     engine,
		Dispatcher: dispatcher,
		Scheduler:  sched,
		Notifier:   notifier,
		Prefs:      store,
		Log:        log.Named("tui"),
		WeatherKey: config.DashboardWeatherKey(),
		City:       config.City(),
		Page:       page,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	surface.Attach(program)

	go engine.Run(ctx, config.PollInterval())

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		log.Errorw("ui stopped", "err", err)
	}
	sched.Stop()
	log.Infow("dashboard stopped")
}

func newPublisher(log *logger.Logger) mqtt.Publisher {
	broker := config.MQTTBroker()
	if broker == "" {
		return mqtt.Nop{}
	}
	p, err := mqtt.NewRealPublisher(broker, config.MQTTTopic(), config.MQTTClientID())
	if err != nil {
		log.Warnw("mqtt unavailable, alerts stay local", "broker", broker, "err", err)
		return mqtt.Nop{}
	}
	return p
}

// bindFlag lets an explicitly set flag override the config file and env.
func bindFlag(log *logger.Logger, key, name string) {
	if err := viper.BindPFlag(key, pflag.Lookup(name)); err != nil {
		log.Fatalw("bind flag", "flag", name, "err", err)
	}
}
