package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/driveport/driveport/internal/admin"
	"github.com/driveport/driveport/internal/api"
	"github.com/driveport/driveport/internal/booking"
	"github.com/driveport/driveport/internal/common/config"
	"github.com/driveport/driveport/internal/common/db"
	"github.com/driveport/driveport/internal/common/logger"
	"github.com/driveport/driveport/internal/common/middleware"
	"github.com/driveport/driveport/internal/common/server"
	"github.com/driveport/driveport/internal/common/tracing"
	"github.com/driveport/driveport/internal/location"
	"github.com/driveport/driveport/internal/reservation"
	"github.com/driveport/driveport/internal/vehicle"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "configs/server.json", "path to the JSON config file")
	consulKey := flag.String("consul-key", "", "load config from Consul KV under this key instead of the file")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *consulKey != "" {
		base := config.GetConfig()
		cfg, err = config.LoadConfigFromConsulKV(base.Consul.Host, base.Consul.Port, *consulKey)
	} else {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		logrus.Fatalf("failed to init logger: %v", err)
	}

	// Tracing is optional infrastructure.
	if _, closer, err := tracing.InitTracer(cfg.Server.Name, cfg.Jaeger.Endpoint, cfg.Jaeger.Sampler); err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	gormDB, err := db.NewMySQL(
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Database,
		cfg.Database.MaxIdle, cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&location.Location{},
		&vehicle.Vehicle{},
		&vehicle.VehicleLocation{},
		&reservation.Reservation{},
		&admin.Admin{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	vehicleRepo := vehicle.NewRepo(gormDB)
	locationRepo := location.NewRepo(gormDB)
	reservationRepo := reservation.NewRepo(gormDB)
	adminRepo := admin.NewRepo(gormDB)

	adminSvc := admin.NewService(adminRepo, cfg.Auth)
	if err := adminSvc.EnsureDefault(context.Background(),
		envOr("ADMIN_EMAIL", "admin@driveport.local"),
		envOr("ADMIN_PASSWORD", "change-me"),
		"Administrator",
	); err != nil {
		log.Warnf("failed to seed default admin: %v", err)
	}

	storeTimeout := time.Duration(cfg.Store.TimeoutSeconds) * time.Second
	breaker := middleware.NewCircuitBreaker("reservation-store", 5, 30*time.Second)
	availability := booking.NewAvailability(reservationRepo, vehicleRepo, log,
		booking.WithStoreTimeout(storeTimeout),
		booking.WithBreaker(breaker),
	)
	admission := booking.NewAdmission(availability, reservationRepo, vehicleRepo, log)

	surface := api.New(api.Deps{
		Config:       cfg,
		Log:          log,
		Vehicles:     vehicle.NewService(vehicleRepo),
		Locations:    location.NewService(locationRepo),
		Admins:       adminSvc,
		Availability: availability,
		Admission:    admission,
		Reservations: reservationRepo,
	})

	if err := server.RunHTTPServer(cfg, log, surface.Router()); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
