package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "OPENWEATHER_API_KEY", "OPENWEATHER_API_URL", "OPENWEATHER_GEOCODING_URL",
		"GEOCODER", "GOOGLE_GEOCODER_API_KEY", "HTTP_TIMEOUT", "UPSTREAM_MAX_RETRIES",
		"UPSTREAM_RETRY_WAIT", "UPSTREAM_RETRY_MAX_WAIT", "GEOCODING_CACHE_TTL", "WEATHER_CACHE_TTL",
		"CACHE_NOT_FOUND", "CORS_ALLOW_ORIGINS", "WARM_CITIES", "WARM_INTERVAL",
		"LOG_LEVEL", "LOG_FORMAT", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenWeatherAPIURL != "https://api.openweathermap.org/data/2.5" {
		t.Errorf("unexpected api url %q", cfg.OpenWeatherAPIURL)
	}
	if cfg.OpenWeatherGeocodingURL != "https://api.openweathermap.org/geo/1.0" {
		t.Errorf("unexpected geocoding url %q", cfg.OpenWeatherGeocodingURL)
	}
	if cfg.GeocodingCacheTTL != time.Hour || cfg.WeatherCacheTTL != 5*time.Minute {
		t.Errorf("unexpected ttls %v / %v", cfg.GeocodingCacheTTL, cfg.WeatherCacheTTL)
	}
	if !cfg.CacheNotFound {
		t.Error("expected not-found results to be cached by default")
	}
	if cfg.UpstreamMaxRetries != 0 {
		t.Errorf("expected no retries by default, got %d", cfg.UpstreamMaxRetries)
	}
	if cfg.Geocoder != GeocoderOpenWeather || cfg.Port != "8080" || cfg.CORSAllowOrigins != "*" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.WarmCities) != 0 {
		t.Errorf("expected no warm cities, got %v", cfg.WarmCities)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("WEATHER_CACHE_TTL", "90s")
	t.Setenv("CACHE_NOT_FOUND", "false")
	t.Setenv("UPSTREAM_MAX_RETRIES", "2")
	t.Setenv("WARM_CITIES", "Nairobi, Paris ,,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenWeatherAPIKey != "secret" || cfg.WeatherCacheTTL != 90*time.Second || cfg.CacheNotFound || cfg.UpstreamMaxRetries != 2 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if want := []string{"Nairobi", "Paris"}; !reflect.DeepEqual(cfg.WarmCities, want) {
		t.Errorf("expected %v, got %v", want, cfg.WarmCities)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"WEATHER_CACHE_TTL":    "five minutes",
		"GEOCODER":             "bing",
		"UPSTREAM_MAX_RETRIES": "-1",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", k, v)
			}
		})
	}
}

func TestLoadGoogleGeocoderNeedsKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEOCODER", "google")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without GOOGLE_GEOCODER_API_KEY")
	}

	t.Setenv("GOOGLE_GEOCODER_API_KEY", "g-key")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Geocoder != GeocoderGoogle {
		t.Fatalf("expected google geocoder, got %q", cfg.Geocoder)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "warm_cities:\n  - Nairobi\n  - \" Lisbon \"\nwarm_interval: 10m\ncors_allow_origins: http://localhost:3000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"Nairobi", "Lisbon"}; !reflect.DeepEqual(cfg.WarmCities, want) {
		t.Errorf("expected %v, got %v", want, cfg.WarmCities)
	}
	if cfg.WarmInterval != 10*time.Minute {
		t.Errorf("expected 10m warm interval, got %v", cfg.WarmInterval)
	}
	if cfg.CORSAllowOrigins != "http://localhost:3000" {
		t.Errorf("unexpected cors origins %q", cfg.CORSAllowOrigins)
	}

	// Environment wins over the file.
	t.Setenv("WARM_CITIES", "Tokyo")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"Tokyo"}; !reflect.DeepEqual(cfg.WarmCities, want) {
		t.Errorf("expected %v, got %v", want, cfg.WarmCities)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
