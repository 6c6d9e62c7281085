package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"roof_vent/internal/config"
	"roof_vent/internal/handlers"
	"roof_vent/internal/logger"
	"roof_vent/internal/repository"
	"roof_vent/internal/repository/db"
	"roof_vent/internal/server"
	"roof_vent/internal/service"
	"roof_vent/internal/weather"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.Load(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(config.LogLevel())

	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	provider := weather.NewOpenWeather(config.WeatherBaseURL(), config.WeatherTimeout())
	services := service.NewService(repos, provider, service.Options{
		SigningKey:    config.SigningKey(),
		TokenTTL:      config.TokenTTL(),
		WeatherAPIKey: config.WeatherAPIKey(),
	})
	seedAdmin(services, log)
	apiHandler := handlers.NewHandler(services, log)

	srv := &server.Server{}
	runHTTPServer(srv, config.Port(), apiHandler, log)

	waitForShutdown(srv, log)
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sqlx.DB, error) {
	dbPath := config.DBPath()
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "ventd.db")
		dbPath = "ventd.db"
	}
	return db.InitDB(dbPath)
}

// seedAdmin creates the configured dashboard account unless it already exists.
func seedAdmin(services *service.Service, log *logger.Logger) {
	user, pass := config.AdminUsername(), config.AdminPassword()
	if user == "" || pass == "" {
		return
	}
	if _, err := services.GenerateToken(user, pass); err == nil {
		return
	}
	if id, err := services.SignUp(user, pass); err != nil {
		log.Infow("admin user not seeded", "username", user, "err", err)
	} else {
		log.Infow("admin user seeded", "username", user, "id", id)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("ventd listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
