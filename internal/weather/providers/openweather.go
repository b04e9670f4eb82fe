package providers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	DefaultOpenWeatherAPIURL       = "https://api.openweathermap.org/data/2.5"
	DefaultOpenWeatherGeocodingURL = "https://api.openweathermap.org/geo/1.0"
)

// OpenWeatherConfig configures OpenWeatherClient.
type OpenWeatherConfig struct {
	APIKey       string
	APIURL       string // base of /weather and /forecast
	GeocodingURL string // base of /direct
	Backoff      BackoffConfig
}

// OpenWeatherClient talks to OpenWeatherMap. It implements both
// weather.Geocoder and weather.Provider.
type OpenWeatherClient struct {
	name         string
	apiKey       string
	apiURL       string
	geocodingURL string
	http         *resty.Client
	log          *zap.Logger

	// one breaker per endpoint so a failing /forecast leaves /weather usable
	circuits map[string]*gobreaker.CircuitBreaker
}

const (
	endpointGeocoding = "geocoding"
	endpointWeather   = "weather"
	endpointForecast  = "forecast"
)

func NewOpenWeatherClient(httpClient *http.Client, cfg OpenWeatherConfig, logger *zap.Logger) (*OpenWeatherClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("provider", "openweathermap"))

	rc, err := newRestyClient(httpClient, cfg.Backoff, logger)
	if err != nil {
		return nil, err
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultOpenWeatherAPIURL
	}
	geocodingURL := cfg.GeocodingURL
	if geocodingURL == "" {
		geocodingURL = DefaultOpenWeatherGeocodingURL
	}

	return &OpenWeatherClient{
		name:         "openweathermap",
		apiKey:       cfg.APIKey,
		apiURL:       strings.TrimRight(apiURL, "/"),
		geocodingURL: strings.TrimRight(geocodingURL, "/"),
		http:         rc,
		log:          logger,
		circuits: map[string]*gobreaker.CircuitBreaker{
			endpointGeocoding: newCircuitBreaker("openweathermap/"+endpointGeocoding, logger),
			endpointWeather:   newCircuitBreaker("openweathermap/"+endpointWeather, logger),
			endpointForecast:  newCircuitBreaker("openweathermap/"+endpointForecast, logger),
		},
	}, nil
}

// Geocode asks the direct geocoding endpoint for at most one match.
func (c *OpenWeatherClient) Geocode(ctx context.Context, city string) ([]weather.Coordinates, error) {
	if c.apiKey == "" {
		return nil, &weather.UpstreamError{Provider: c.name, Endpoint: endpointGeocoding, Err: errNoAPIKey}
	}

	var payload []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
	}

	params := map[string]string{
		"q":     city,
		"limit": "1",
		"appid": c.apiKey,
	}
	if err := c.get(ctx, endpointGeocoding, c.geocodingURL+"/direct", params, &payload); err != nil {
		return nil, err
	}

	matches := make([]weather.Coordinates, 0, len(payload))
	for _, p := range payload {
		matches = append(matches, weather.Coordinates{Lat: p.Lat, Lon: p.Lon})
	}
	c.log.Debug("geocoded city", zap.String("city", city), zap.Int("matches", len(matches)))
	return matches, nil
}

// CurrentWeather fetches /weather for the given position.
func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, at weather.Coordinates, units weather.Units) (weather.CurrentWeather, error) {
	if c.apiKey == "" {
		return weather.CurrentWeather{}, &weather.UpstreamError{Provider: c.name, Endpoint: endpointWeather, Err: errNoAPIKey}
	}

	var payload weather.CurrentWeather
	if err := c.get(ctx, endpointWeather, c.apiURL+"/weather", c.positionParams(at, units), &payload); err != nil {
		return weather.CurrentWeather{}, err
	}
	return payload, nil
}

// Forecast fetches the 3-hour interval /forecast for the given position.
func (c *OpenWeatherClient) Forecast(ctx context.Context, at weather.Coordinates, units weather.Units) (weather.Forecast, error) {
	if c.apiKey == "" {
		return weather.Forecast{}, &weather.UpstreamError{Provider: c.name, Endpoint: endpointForecast, Err: errNoAPIKey}
	}

	var payload weather.Forecast
	if err := c.get(ctx, endpointForecast, c.apiURL+"/forecast", c.positionParams(at, units), &payload); err != nil {
		return weather.Forecast{}, err
	}
	return payload, nil
}

func (c *OpenWeatherClient) get(ctx context.Context, endpoint, url string, params map[string]string, out any) error {
	return getJSON(ctx, c.http, c.circuits[endpoint], c.name, endpoint, url, params, out)
}

func (c *OpenWeatherClient) positionParams(at weather.Coordinates, units weather.Units) map[string]string {
	return map[string]string{
		"lat":   strconv.FormatFloat(at.Lat, 'f', -1, 64),
		"lon":   strconv.FormatFloat(at.Lon, 'f', -1, 64),
		"units": string(units.OrDefault()),
		"appid": c.apiKey,
	}
}
