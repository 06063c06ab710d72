package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/jharkhand/internal/catalog"
	"github.com/UnknownOlympus/jharkhand/internal/config"
	"github.com/UnknownOlympus/jharkhand/internal/favorites"
	"github.com/UnknownOlympus/jharkhand/internal/mapping"
	"github.com/UnknownOlympus/jharkhand/internal/metrics"
	"github.com/UnknownOlympus/jharkhand/internal/repository"
	"github.com/UnknownOlympus/jharkhand/internal/server"
	"github.com/UnknownOlympus/jharkhand/internal/service"
	"github.com/UnknownOlympus/jharkhand/internal/sos"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const (
	favoritesRedis  = "redis"
	shutdownTimeout = 10 * time.Second
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)
	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// The bundled dataset is served until a database sync replaces the places.
	bundled, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load bundled catalog: %v", err)
	}
	if err = bundled.Validate(); err != nil {
		logger.WarnContext(ctx, "Bundled catalog has invalid places", "error", err)
	}
	store := catalog.NewStore(bundled)
	appMetrics.CatalogPlaces.Set(float64(len(bundled.AllPlaces())))

	favStore, rdb := setupFavorites(ctx, logger, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	provider := setupProvider(ctx, logger, cfg, appMetrics)

	fuelSearch := sos.NewRouteSampler(provider, sos.Options{
		Divisions:    cfg.Fuel.Divisions,
		MaxSamples:   cfg.Fuel.MaxSamples,
		RadiusMeters: cfg.Fuel.RadiusMeters,
		Category:     mapping.CategoryFuel,
	}, logger, appMetrics)

	var dtb *pgxpool.Pool
	if cfg.Database.Enabled() {
		dtb = startDatabaseJobs(ctx, logger, cfg, store, provider, appMetrics)
		defer dtb.Close()
	} else {
		logger.InfoContext(ctx, "Database is not configured, serving the bundled catalog only")
	}

	srv := server.New(server.Config{
		Log:              logger,
		Catalog:          store,
		Favorites:        favStore,
		Provider:         provider,
		ProviderType:     mapping.ProviderType(cfg.Provider.Type),
		APIKey:           cfg.Provider.APIKey,
		FuelSearch:       fuelSearch,
		CarouselInterval: cfg.CarouselInterval,
		Metrics:          appMetrics,
	})

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, dtb, rdb, cfg.HealthPort)

	go srv.RunHighlights(ctx)

	api := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.InfoContext(ctx, "Starting API server", "port", cfg.HTTPPort)
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "API server failed", "error", err)
			stop()
		}
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = api.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Failed to shut down API server", "error", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// setupFavorites returns the favorites store selected by configuration. The redis client
// is returned for health checks and is nil for the memory store.
func setupFavorites(ctx context.Context, logger *slog.Logger, cfg *config.Config) (favorites.Store, *redis.Client) {
	if cfg.Favorites.Backend != favoritesRedis {
		logger.InfoContext(ctx, "Favorites are kept in memory")
		return favorites.NewMemoryStore(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	logger.InfoContext(ctx, "Favorites are kept in Redis", "addr", cfg.Redis.Addr)

	return favorites.NewRedisStore(rdb, cfg.Favorites.TTL), rdb
}

// setupProvider creates the mapping provider using the factory pattern. Without a Google
// key the site keeps working and the map features answer with fallback links.
func setupProvider(ctx context.Context, logger *slog.Logger, cfg *config.Config, m *metrics.Metrics) mapping.Provider {
	providerType := mapping.ProviderType(cfg.Provider.Type)

	provider, err := mapping.NewProvider(mapping.ProviderConfig{
		Type:      providerType,
		APIKey:    cfg.Provider.APIKey,
		RateLimit: cfg.Provider.RateLimit,
		Logger:    logger,
	})
	switch {
	case errors.Is(err, mapping.ErrMissingAPIKey):
		logger.WarnContext(ctx, "Mapping provider has no credentials, map features are unavailable",
			"type", providerType)
		provider = mapping.Unavailable{Reason: err.Error()}
	case err != nil:
		log.Fatalf("Failed to create mapping provider: %v", err)
	default:
		logger.InfoContext(ctx, "Mapping provider initialized", "type", providerType)
	}

	return mapping.NewInstrumented(provider, string(providerType), m)
}

// startDatabaseJobs connects to Postgres, seeds the places table and starts the catalog
// sync and the coordinate backfill in the background.
func startDatabaseJobs(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	store *catalog.Store,
	provider mapping.Provider,
	m *metrics.Metrics,
) *pgxpool.Pool {
	// Initialize the database connection.
	dtb, err := repository.NewDatabase(
		ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	// Create a new repository instance using the database connection.
	repo := repository.NewRepository(dtb, logger)

	syncService := service.NewSyncService(logger, repo, store, m, cfg.SyncSchedule)
	if err = syncService.Seed(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to seed places table", "error", err)
	}

	geoService := service.NewGeocodingService(
		logger,
		repo,
		provider,
		m,
		cfg.Geocoding.Workers,
		cfg.Geocoding.Interval,
		cfg.Geocoding.AddressSuffix,
	)

	go func() {
		if err := syncService.Run(ctx); err != nil {
			logger.ErrorContext(ctx, "Catalog sync stopped", "error", err)
		}
	}()
	go geoService.Run(ctx)

	return dtb
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - dtb: A pgxpool connector for database methods (ping), nil when no database is configured.
// - rdb: The redis client of the favorites store, nil for the memory store.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	rdb *redis.Client,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if dtb != nil {
			if err := dtb.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				status, body = http.StatusServiceUnavailable, "Redis ping failed"
			}
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
