// Telemetry Core - IoT Device Monitoring Service
//
// This is the main entry point for the telemetry daemon. It consumes device
// telemetry from RabbitMQ, persists readings to MongoDB, mirrors them to
// InfluxDB, fans them out live over WebSocket and serves the monitoring REST
// API with temperature predictions blended against Open-Meteo forecasts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/telemetry-core/internal/analytics"
	"github.com/nerrad567/telemetry-core/internal/api"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/config"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/logging"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/mongodb"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/rabbitmq"
	"github.com/nerrad567/telemetry-core/internal/telemetry"
	"github.com/nerrad567/telemetry-core/internal/weather"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Telemetry Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to MongoDB (system of record for readings)
	mongoClient, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connecting to MongoDB: %w", err)
	}
	defer func() {
		log.Info("closing MongoDB connection")
		if closeErr := mongoClient.Close(context.Background()); closeErr != nil {
			log.Error("error closing MongoDB", "error", closeErr)
		}
	}()
	log.Info("MongoDB connected", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)

	store := telemetry.NewStore(mongoClient, log)

	// Prediction engine
	engine := analytics.NewEngine(analytics.NewForecaster(cfg.Forecast.Method))
	log.Info("prediction engine ready", "method", engine.Method())

	// Open-Meteo client
	weatherClient := weather.NewClient(cfg.Weather, log)

	// Connect to InfluxDB mirror (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			// The mirror is best-effort; Mongo keeps the data either way
			log.Warn("InfluxDB mirror unavailable, continuing without it", "error", err)
			influxClient = nil
		} else {
			defer func() {
				log.Info("closing InfluxDB connection")
				if closeErr := influxClient.Close(); closeErr != nil {
					log.Error("error closing InfluxDB", "error", closeErr)
				}
			}()
			log.Info("InfluxDB connected",
				"url", cfg.InfluxDB.URL,
				"org", cfg.InfluxDB.Org,
				"bucket", cfg.InfluxDB.Bucket,
			)
			influxClient.SetOnError(func(err error) {
				log.Error("InfluxDB write error", "error", err)
			})
		}
	} else {
		log.Info("InfluxDB mirror disabled")
	}

	// WebSocket hub, shared between the API server and the consumer
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	// HTTP API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		WeatherCfg:  cfg.Weather,
		Logger:      log,
		Store:       store,
		Engine:      engine,
		Weather:     weatherClient,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Connect to RabbitMQ and start consuming. Startup is fail-fast:
	// exhausting the connect retries aborts the whole service.
	rabbitClient, err := rabbitmq.Connect(ctx, cfg.RabbitMQ, log)
	if err != nil {
		return fmt.Errorf("connecting to RabbitMQ: %w", err)
	}
	defer func() {
		log.Info("closing RabbitMQ connection")
		rabbitClient.Close()
	}()
	log.Info("RabbitMQ connected", "exchange", cfg.RabbitMQ.Exchange, "queue", cfg.RabbitMQ.Queue)

	var mirror rabbitmq.Mirror
	if influxClient != nil {
		mirror = influxClient
	}
	consumer := rabbitmq.NewConsumer(rabbitClient, store, hub, mirror, log)
	go consumer.Run(ctx)

	// Verify infrastructure is healthy before declaring readiness
	if err := healthCheck(ctx, mongoClient, server, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. RabbitMQ
	// 2. API server
	// 3. InfluxDB (if enabled)
	// 4. MongoDB

	log.Info("Telemetry Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses TELEMETRY_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("TELEMETRY_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - mongoClient: MongoDB client to check
//   - server: API server to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, mongoClient *mongodb.Client, server *api.Server, influxClient *influxdb.Client) error {
	if err := mongoClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mongodb: %w", err)
	}
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
