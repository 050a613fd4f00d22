package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"device_control/internal/clock"
	"device_control/internal/gpio"
	"device_control/internal/handlers"
	"device_control/internal/logger"
	"device_control/internal/repository"
	"device_control/internal/repository/db"
	"device_control/internal/server"
	"device_control/internal/service"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// The control loop runs once per second, matching the device's tick rate.
const schedulerTick = 1 * time.Second

const defaultQuota = 4 << 20 // 4 MB, the flash partition the device exposes

func main() {
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	database, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	fs := afero.NewOsFs()
	dataDir := viper.GetString("data.dir")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := fs.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalw("failed to create data dir", "dir", dataDir, "err", err)
	}

	quota := viper.GetInt64("data.quota")
	if quota <= 0 {
		quota = defaultQuota
	}

	repos, err := repository.NewRepository(database, fs, dataDir, quota)
	if err != nil {
		log.Fatalw("failed to init storage", "err", err)
	}

	if err := seedAdmin(repos); err != nil {
		log.Fatalw("failed to seed admin user", "err", err)
	}

	deviceID, err := service.ResolveDeviceID(fs, dataDir, viper.GetString("device.id"))
	if err != nil {
		log.Fatalw("failed to resolve device id", "err", err)
	}
	log.Infow("device identity", "device_id", deviceID)

	clk := clock.NewBoot()
	pins := gpio.NewSimPins()
	services := service.NewService(repos, clk, pins, log, deviceID, viper.GetString("auth.signing_key"))
	apiHandler := handlers.NewHandler(services, clk, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The scheduler tick loop runs for the lifetime of the process,
	// independent of any request.
	go services.Scheduler.Run(ctx, schedulerTick)

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return db.InitDB(dbPath)
}

// seedAdmin makes sure the configured admin credentials exist in the user
// store, replacing a stale hash if the config changed.
func seedAdmin(repos *repository.Repository) error {
	username := viper.GetString("admin.username")
	password := viper.GetString("admin.password")
	if username == "" || password == "" {
		return nil
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	return repos.Auth.Upsert(username, hash)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks on termination signals and then stops the tick
// loop and the server, letting in-flight requests finish.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
