package weather

import (
	"context"
)

// Geocoder resolves a city name to at most one matching position.
// An empty result means the city is unknown.
type Geocoder interface {
	Geocode(ctx context.Context, city string) ([]Coordinates, error)
}

// Provider abstracts a weather data source (e.g. OpenWeatherMap).
type Provider interface {
	CurrentWeather(ctx context.Context, at Coordinates, units Units) (CurrentWeather, error)
	Forecast(ctx context.Context, at Coordinates, units Units) (Forecast, error)
}
