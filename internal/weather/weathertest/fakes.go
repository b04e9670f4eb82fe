// Package weathertest provides in-memory Geocoder and Provider fakes that
// count their calls.
package weathertest

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Geocoder answers from a fixed city table.
type Geocoder struct {
	mu      sync.Mutex
	Matches map[string][]weather.Coordinates
	Err     error
	calls   int
}

func (g *Geocoder) Geocode(_ context.Context, city string) ([]weather.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.Err != nil {
		return nil, g.Err
	}
	return g.Matches[city], nil
}

func (g *Geocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Provider returns canned payloads.
type Provider struct {
	mu             sync.Mutex
	CurrentResult  weather.CurrentWeather
	ForecastResult weather.Forecast
	CurrentErr     error
	ForecastErr    error

	currentCalls  int
	forecastCalls int
	lastUnits     weather.Units
}

func (p *Provider) CurrentWeather(_ context.Context, _ weather.Coordinates, units weather.Units) (weather.CurrentWeather, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentCalls++
	p.lastUnits = units
	if p.CurrentErr != nil {
		return weather.CurrentWeather{}, p.CurrentErr
	}
	return p.CurrentResult, nil
}

func (p *Provider) Forecast(_ context.Context, _ weather.Coordinates, units weather.Units) (weather.Forecast, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forecastCalls++
	p.lastUnits = units
	if p.ForecastErr != nil {
		return weather.Forecast{}, p.ForecastErr
	}
	return p.ForecastResult, nil
}

func (p *Provider) CurrentCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentCalls
}

func (p *Provider) ForecastCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.forecastCalls
}

// LastUnits reports the units of the most recent call.
func (p *Provider) LastUnits() weather.Units {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastUnits
}

// Sample builds a forecast sample at ts.
func Sample(ts time.Time, temp float64, description string) weather.ForecastSample {
	return weather.ForecastSample{
		Dt:      ts.Unix(),
		Main:    weather.MainReading{Temp: temp},
		Weather: []weather.Condition{{Description: description, Icon: "01d"}},
		DtTxt:   ts.UTC().Format("2006-01-02 15:04:05"),
	}
}

// Nairobi returns a geocoder, provider pair describing Nairobi: 22 degrees,
// 60% humidity and a 5-sample forecast spanning 4 calendar days.
func Nairobi() (*Geocoder, *Provider) {
	g := &Geocoder{Matches: map[string][]weather.Coordinates{
		"Nairobi": {{Lat: -1.28, Lon: 36.82}},
	}}

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	p := &Provider{
		CurrentResult: weather.CurrentWeather{
			Main:    weather.MainReading{Temp: 22, Humidity: 60},
			Weather: []weather.Condition{{Description: "clear", Icon: "01d"}},
			Wind:    weather.Wind{Speed: 3},
		},
		ForecastResult: weather.Forecast{List: []weather.ForecastSample{
			Sample(day.Add(9*time.Hour), 21, "clear"),
			Sample(day.Add(12*time.Hour), 24, "clouds"),
			Sample(day.Add(33*time.Hour), 23, "rain"),
			Sample(day.Add(57*time.Hour), 20, "clear"),
			Sample(day.Add(81*time.Hour), 19, "clear"),
		}},
	}
	return g, p
}
