package weather

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-dashboard/internal/cache"
)

const (
	DefaultGeocodingTTL = time.Hour
	DefaultWeatherTTL   = 5 * time.Minute
)

// Options tunes how long lookups stay cached.
type Options struct {
	GeocodingTTL time.Duration
	WeatherTTL   time.Duration

	// CacheNotFound keeps an empty geocoding result for GeocodingTTL,
	// so an unknown city is not looked up again until it expires.
	CacheNotFound bool
}

// DefaultOptions returns the stock TTLs with not-found results cached.
func DefaultOptions() Options {
	return Options{
		GeocodingTTL:  DefaultGeocodingTTL,
		WeatherTTL:    DefaultWeatherTTL,
		CacheNotFound: true,
	}
}

// Service resolves cities and fetches weather through the cache.
// It holds no state of its own.
type Service struct {
	cache    cache.Cache
	geocoder Geocoder
	provider Provider
	opts     Options
	log      *zap.Logger
}

// NewService creates a new Service.
func NewService(c cache.Cache, geocoder Geocoder, provider Provider, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cache:    c,
		geocoder: geocoder,
		provider: provider,
		opts:     opts,
		log:      logger,
	}
}

// geocodeResult is what the cache keeps for a city; Found is false for unknown cities.
type geocodeResult struct {
	Coordinates Coordinates
	Found       bool
}

// GetCoordinates resolves city to coordinates, returning ErrCityNotFound when
// the geocoder has no match.
func (s *Service) GetCoordinates(ctx context.Context, city string) (Coordinates, error) {
	key := CoordinatesKey(city)

	res, err := cache.Remember(ctx, s.cache, key, s.opts.GeocodingTTL, func(ctx context.Context) (geocodeResult, error) {
		s.log.Debug("cache miss", zap.String("key", key))

		matches, err := s.geocoder.Geocode(ctx, city)
		if err != nil {
			return geocodeResult{}, err
		}
		if len(matches) == 0 {
			if !s.opts.CacheNotFound {
				return geocodeResult{}, ErrCityNotFound
			}
			return geocodeResult{}, nil
		}
		return geocodeResult{Coordinates: matches[0], Found: true}, nil
	})
	if err != nil {
		return Coordinates{}, err
	}
	if !res.Found {
		return Coordinates{}, ErrCityNotFound
	}
	return res.Coordinates, nil
}

// GetCurrentWeather returns current conditions at lat/lon. Empty units means metric.
func (s *Service) GetCurrentWeather(ctx context.Context, lat, lon float64, units Units) (CurrentWeather, error) {
	units = units.OrDefault()
	key := CurrentWeatherKey(lat, lon, units)

	return cache.Remember(ctx, s.cache, key, s.opts.WeatherTTL, func(ctx context.Context) (CurrentWeather, error) {
		s.log.Debug("cache miss", zap.String("key", key))
		return s.provider.CurrentWeather(ctx, Coordinates{Lat: lat, Lon: lon}, units)
	})
}

// GetForecast returns the 3-hour interval forecast at lat/lon. Empty units means metric.
func (s *Service) GetForecast(ctx context.Context, lat, lon float64, units Units) (Forecast, error) {
	units = units.OrDefault()
	key := ForecastKey(lat, lon, units)

	return cache.Remember(ctx, s.cache, key, s.opts.WeatherTTL, func(ctx context.Context) (Forecast, error) {
		s.log.Debug("cache miss", zap.String("key", key))
		return s.provider.Forecast(ctx, Coordinates{Lat: lat, Lon: lon}, units)
	})
}

// Lookup runs the whole chain for a city: coordinates first, then current
// weather and forecast concurrently, then formatting.
func (s *Service) Lookup(ctx context.Context, city string, units Units) (FormattedWeather, error) {
	coords, err := s.GetCoordinates(ctx, city)
	if err != nil {
		return FormattedWeather{}, err
	}

	var (
		current  CurrentWeather
		forecast Forecast
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.GetCurrentWeather(gctx, coords.Lat, coords.Lon, units)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = s.GetForecast(gctx, coords.Lat, coords.Lon, units)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("weather lookup failed", zap.String("city", city), zap.Error(err))
		return FormattedWeather{}, err
	}

	return FormatWeatherData(current, forecast), nil
}

// CachedEntries reports how many entries the underlying cache holds.
func (s *Service) CachedEntries() int {
	return s.cache.Len()
}

// CoordinatesKey is the cache key of a geocoding lookup.
func CoordinatesKey(city string) string {
	return "geocoding_" + city
}

// CurrentWeatherKey is the cache key of a current weather lookup.
func CurrentWeatherKey(lat, lon float64, units Units) string {
	return "current_weather_" + positionKey(lat, lon, units)
}

// ForecastKey is the cache key of a forecast lookup.
func ForecastKey(lat, lon float64, units Units) string {
	return "forecast_" + positionKey(lat, lon, units)
}

func positionKey(lat, lon float64, units Units) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "_" +
		strconv.FormatFloat(lon, 'f', -1, 64) + "_" +
		string(units.OrDefault())
}
