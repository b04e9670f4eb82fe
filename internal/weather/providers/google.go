package providers

import (
	"context"
	"net/url"
	"time"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// GoogleGeocoder resolves cities through the Google Geocoding API.
// The geocoder package keeps its key in a package variable, so only one
// key can be active per process.
type GoogleGeocoder struct {
	name    string
	timeout time.Duration
	log     *zap.Logger

	// lookup is geocoder.Geocoding; swapped in tests.
	lookup func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder configures the geocoder package with apiKey. timeout bounds
// how long Geocode waits for an answer; zero means wait for ctx only.
func NewGoogleGeocoder(apiKey string, timeout time.Duration, logger *zap.Logger) *GoogleGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		name:    "google",
		timeout: timeout,
		log:     logger.With(zap.String("provider", "google")),
		lookup:  geocoder.Geocoding,
	}
}

type googleResult struct {
	loc geocoder.Location
	err error
}

// Geocode returns the single best match for city, or none when Google has no result.
func (g *GoogleGeocoder) Geocode(ctx context.Context, city string) ([]weather.Coordinates, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, g.upstreamErr(err)
	}

	// The geocoder package concatenates the address into the URL unescaped.
	addr := geocoder.Address{City: url.QueryEscape(city)}

	// The geocoder package takes no context, so the request itself keeps
	// running after ctx is done; only the wait is abandoned.
	done := make(chan googleResult, 1)
	go func() {
		loc, err := g.lookup(addr)
		done <- googleResult{loc: loc, err: err}
	}()

	var res googleResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, g.upstreamErr(ctx.Err())
	}

	if res.err != nil {
		if common.HasAny(res.err.Error(), "ZERO_RESULTS", "no results") {
			g.log.Debug("no geocoding match", zap.String("city", city))
			return nil, nil
		}
		return nil, g.upstreamErr(res.err)
	}

	return []weather.Coordinates{{Lat: res.loc.Latitude, Lon: res.loc.Longitude}}, nil
}

func (g *GoogleGeocoder) upstreamErr(err error) error {
	return &weather.UpstreamError{Provider: g.name, Endpoint: "geocoding", Err: err}
}
