package weather

import (
	"errors"
	"fmt"
)

// ErrCityNotFound is returned when geocoding yields no match.
var ErrCityNotFound = errors.New("city not found")

// UpstreamError reports a failed call to an external weather or geocoding API:
// transport failure, non-2xx status, open circuit or an undecodable body.
type UpstreamError struct {
	Provider   string
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
