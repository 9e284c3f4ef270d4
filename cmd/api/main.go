package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fleetline/logistics-platform/internal/api"
	"github.com/fleetline/logistics-platform/internal/core/service"
	"github.com/fleetline/logistics-platform/internal/eventbus"
	mongodb "github.com/fleetline/logistics-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/fleetline/logistics-platform/internal/infrastructure/db/redis"
	"github.com/fleetline/logistics-platform/internal/infrastructure/queue"
	"github.com/fleetline/logistics-platform/internal/jobs"
	"github.com/fleetline/logistics-platform/internal/pkg/config"
	"github.com/fleetline/logistics-platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, database, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	shipmentRepo := mongodb.NewShipmentRepository(database)
	vehicleRepo := mongodb.NewVehicleRepository(database)
	userRepo := mongodb.NewUserRepository(database)
	jobStore := redisdb.NewJobStore(redisClient)

	if err := shipmentRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("shipment index creation failed")
	}
	if err := vehicleRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("vehicle index creation failed")
	}

	// --- Core services ---
	bus := eventbus.New(0, log)
	defer bus.Close()

	locks := service.NewLockRegistry()
	shipmentService := service.NewShipmentService(shipmentRepo, vehicleRepo, userRepo, bus, locks, log)
	simulationService := service.NewSimulationService(shipmentRepo, vehicleRepo, bus, locks, log)
	fleetService := service.NewFleetService(vehicleRepo, bus, locks, log)

	dispatcher := queue.NewDispatcher(cfg.Queue.Workers, log)
	jobService := service.NewJobService(jobStore, dispatcher, shipmentService, bus, log)
	if cfg.Queue.Workers > 0 {
		dispatcher.Start(ctx, jobService)
	} else {
		log.Warn().Msg("async dispatch disabled, shipment creation runs synchronously")
	}

	// --- Background simulation ---
	if cfg.Sim.TickInterval > 0 {
		simJob := jobs.NewSimulationJob(simulationService, cfg.Sim.TickInterval, log)
		if err := simJob.Start(); err != nil {
			log.Fatal().Err(err).Msg("simulation job start failed")
		}
		defer simJob.Stop()
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		DB:                 database,
		Redis:              redisClient,
		Shipments:          shipmentService,
		Jobs:               jobService,
		Fleet:              fleetService,
		Sim:                simulationService,
		Stream:             bus,
		StreamPingInterval: cfg.Sim.StreamPingInterval,
		Logger:             log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
