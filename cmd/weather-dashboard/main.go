package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/cache"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/logging"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	os.Exit(run())
}

// run wires and serves the application. It returns the process exit code so
// deferred cleanup runs before exiting.
func run() int {
	envErr := godotenv.Load()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Printf("failed to build logger: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Info("no .env file loaded", zap.Error(envErr))
	}
	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY is empty; upstream calls will fail")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	owm, err := providers.NewOpenWeatherClient(httpClient, providers.OpenWeatherConfig{
		APIKey:       cfg.OpenWeatherAPIKey,
		APIURL:       cfg.OpenWeatherAPIURL,
		GeocodingURL: cfg.OpenWeatherGeocodingURL,
		Backoff: providers.BackoffConfig{
			MaxRetries:      cfg.UpstreamMaxRetries,
			InitialInterval: cfg.UpstreamRetryWait,
			MaxInterval:     cfg.UpstreamRetryMaxWait,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to build openweathermap client", zap.Error(err))
		return 1
	}

	var geocoder weather.Geocoder = owm
	if cfg.Geocoder == config.GeocoderGoogle {
		geocoder = providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey, cfg.HTTPTimeout, logger)
	}

	// Core service over a process-wide cache.
	service := weather.NewService(cache.NewMemoryStore(), geocoder, owm, weather.Options{
		GeocodingTTL:  cfg.GeocodingCacheTTL,
		WeatherTTL:    cfg.WeatherCacheTTL,
		CacheNotFound: cfg.CacheNotFound,
	}, logger)

	// Optional cache warmer for frequently requested cities.
	sched := scheduler.New(cfg.WarmCities, cfg.WarmInterval, service, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", zap.Error(err))
		return 1
	}
	defer sched.Stop()

	app := httpapi.NewApp(service, httpapi.AppOptions{
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     2*cfg.HTTPTimeout + 5*time.Second,
	}, logger)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.String("geocoder", cfg.Geocoder))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		logger.Error("fiber server stopped", zap.Error(err))
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
		return 1
	}
	return 0
}
