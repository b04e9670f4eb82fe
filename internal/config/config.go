package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	GeocoderOpenWeather = "openweather"
	GeocoderGoogle      = "google"
)

type AppConfig struct {
	OpenWeatherAPIKey       string
	OpenWeatherAPIURL       string
	OpenWeatherGeocodingURL string

	// Geocoder selects the city lookup backend: "openweather" or "google".
	Geocoder             string
	GoogleGeocoderAPIKey string

	// Outbound HTTP.
	HTTPTimeout          time.Duration
	UpstreamMaxRetries   int // 0 = fail on the first error
	UpstreamRetryWait    time.Duration
	UpstreamRetryMaxWait time.Duration

	// Cache TTLs.
	GeocodingCacheTTL time.Duration
	WeatherCacheTTL   time.Duration
	CacheNotFound     bool

	CORSAllowOrigins string

	// Cities kept warm in the cache by the scheduler (empty = scheduler off).
	WarmCities   []string
	WarmInterval time.Duration

	LogLevel  string
	LogFormat string

	Port string
}

// fileConfig is the optional YAML file named by CONFIG_FILE.
// Environment variables take precedence over it.
type fileConfig struct {
	WarmCities       []string `yaml:"warm_cities"`
	WarmInterval     string   `yaml:"warm_interval"`
	CORSAllowOrigins string   `yaml:"cors_allow_origins"`
}

// Load reads configuration from the environment (and CONFIG_FILE, if set)
// with sensible defaults.
func Load() (*AppConfig, error) {
	var file fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		f, err := readFile(path)
		if err != nil {
			return nil, err
		}
		file = f
	}

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherAPIURL = getenvDefault("OPENWEATHER_API_URL", "https://api.openweathermap.org/data/2.5")
	cfg.OpenWeatherGeocodingURL = getenvDefault("OPENWEATHER_GEOCODING_URL", "https://api.openweathermap.org/geo/1.0")

	cfg.Geocoder = strings.ToLower(getenvDefault("GEOCODER", GeocoderOpenWeather))
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	switch cfg.Geocoder {
	case GeocoderOpenWeather:
	case GeocoderGoogle:
		if cfg.GoogleGeocoderAPIKey == "" {
			return nil, fmt.Errorf("GEOCODER=google requires GOOGLE_GEOCODER_API_KEY")
		}
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q: want %q or %q", cfg.Geocoder, GeocoderOpenWeather, GeocoderGoogle)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.UpstreamMaxRetries = getenvInt("UPSTREAM_MAX_RETRIES", 0)
	if cfg.UpstreamMaxRetries < 0 {
		return nil, fmt.Errorf("invalid UPSTREAM_MAX_RETRIES: must not be negative")
	}
	if cfg.UpstreamRetryWait, err = getenvDuration("UPSTREAM_RETRY_WAIT", "500ms"); err != nil {
		return nil, err
	}
	if cfg.UpstreamRetryMaxWait, err = getenvDuration("UPSTREAM_RETRY_MAX_WAIT", "5s"); err != nil {
		return nil, err
	}

	if cfg.GeocodingCacheTTL, err = getenvDuration("GEOCODING_CACHE_TTL", "1h"); err != nil {
		return nil, err
	}
	if cfg.WeatherCacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", "5m"); err != nil {
		return nil, err
	}
	cfg.CacheNotFound = getenvBool("CACHE_NOT_FOUND", true)

	cfg.CORSAllowOrigins = getenvDefault("CORS_ALLOW_ORIGINS", firstNonEmpty(file.CORSAllowOrigins, "*"))

	cfg.WarmCities = file.WarmCities
	if v := os.Getenv("WARM_CITIES"); v != "" {
		cfg.WarmCities = splitList(v)
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", firstNonEmpty(file.WarmInterval, "5m")); err != nil {
		return nil, err
	}

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var f fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read CONFIG_FILE: %w", err)
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}
	f.WarmCities = cleanList(f.WarmCities)
	return f, nil
}

func splitList(s string) []string {
	return cleanList(strings.Split(s, ","))
}

func cleanList(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
