package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"osrorders/cmd"
	"osrorders/internal/adapters/out/postgres/catalogrepo"
	"osrorders/internal/adapters/out/postgres/historyrepo"
	"osrorders/internal/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error composing application: %v", err)
	}

	metrics.Register()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&historyrepo.RecordDTO{}, &catalogrepo.ProductDTO{}); err != nil {
		return nil, err
	}
	return db, nil
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envVariable("HTTP_PORT", "8080"),
		DBHost:     envVariable("DB_HOST", "localhost"),
		DBPort:     envVariable("DB_PORT", "5432"),
		DBUser:     envVariable("DB_USER", "postgres"),
		DBPassword: envVariable("DB_PASSWORD", ""),
		DBName:     envVariable("DB_NAME", "osrorders"),
		DBSslMode:  envVariable("DB_SSLMODE", "disable"),

		OsrBaseURL:     envVariable("OSR_BASE_URL", "http://localhost:9000"),
		OsrID:          envVariable("OSR_ID", "1"),
		OsrCallTimeout: envDuration("OSR_CALL_TIMEOUT", 10*time.Second),

		OperatorName:  envVariable("OPERATOR_NAME", "src"),
		CapacitySpecs: parseCapacitySpecs(envVariable("CAPACITY_SPECS", "")),

		MaxSendAttempts: envInt("MAX_SEND_ATTEMPTS", 3),
		BackoffBase:     envDuration("BACKOFF_BASE", 500*time.Millisecond),
		BackoffCap:      envDuration("BACKOFF_CAP", 5*time.Second),

		RetentionAge:    envDuration("RETENTION_AGE", 30*24*time.Hour),
		CleanupSchedule: envVariable("CLEANUP_SCHEDULE", "0 3 * * *"),
		RefreshSchedule: envVariable("REFRESH_SCHEDULE", "*/5 * * * *"),
	}
}

func envVariable(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %v", key, err)
	}
	return value
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid integer in %s: %v", key, err)
	}
	return value
}

// parseCapacitySpecs reads a comma separated list of compartment capacities,
// e.g. "full:12,half:24,quarter:48".
func parseCapacitySpecs(raw string) map[string]int {
	if raw == "" {
		return nil
	}

	specs := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		compartment, quantity, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found {
			log.Fatalf("Invalid capacity spec entry: %q", pair)
		}
		maxQty, err := strconv.Atoi(quantity)
		if err != nil {
			log.Fatalf("Invalid capacity in spec entry %q: %v", pair, err)
		}
		specs[compartment] = maxQty
	}
	return specs
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	server, err := app.CreateHTTPServer()
	if err != nil {
		log.Fatalf("Error creating HTTP server: %v", err)
	}

	e := echo.New()
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
