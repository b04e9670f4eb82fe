package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// BackoffConfig controls retries of transient failures (transport errors, 429, 5xx).
// MaxRetries of 0 disables retrying.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoAPIKey      = errors.New("api key is not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

func newRestyClient(httpClient *http.Client, backoff BackoffConfig, logger *zap.Logger) (*resty.Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if backoff.MaxRetries < 0 || (backoff.MaxRetries > 0 && backoff.InitialInterval <= 0) {
		return nil, errInvalidConfig
	}

	client := resty.NewWithClient(httpClient).
		SetRetryCount(backoff.MaxRetries).
		SetRetryWaitTime(backoff.InitialInterval).
		SetRetryMaxWaitTime(backoff.MaxInterval).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		// The query string carries the api key; log host and path only.
		u := resp.Request.RawRequest.URL
		logger.Debug("upstream response",
			zap.String("method", resp.Request.Method),
			zap.String("url", u.Host+u.Path),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("duration", resp.Time()),
		)
		return nil
	})

	return client, nil
}

func newCircuitBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,

		// A caller giving up is not an upstream fault.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// apiErrorBody is the error envelope returned by OpenWeatherMap.
type apiErrorBody struct {
	Message string `json:"message"`
}

// getJSON issues a GET through the circuit breaker and decodes a 2xx body into out.
// Every failure is reported as a *weather.UpstreamError.
func getJSON(
	ctx context.Context,
	client *resty.Client,
	cb *gobreaker.CircuitBreaker,
	provider, endpoint, url string,
	params map[string]string,
	out any,
) error {
	var status int

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(url)
		if execErr != nil {
			return nil, execErr
		}
		status = resp.StatusCode()

		// Handle rate limiting and server errors explicitly.
		if status == http.StatusTooManyRequests {
			return nil, withMessage(errRateLimited, resp.Body())
		}
		if status >= 500 {
			return nil, withMessage(errServerError, resp.Body())
		}
		if status < 200 || status >= 300 {
			return nil, withMessage(errUnexpected, resp.Body())
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return &weather.UpstreamError{Provider: provider, Endpoint: endpoint, StatusCode: status, Err: err}
	}

	resp, ok := result.(*resty.Response)
	if !ok {
		return &weather.UpstreamError{Provider: provider, Endpoint: endpoint, Err: fmt.Errorf("unexpected result type from circuit breaker")}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &weather.UpstreamError{Provider: provider, Endpoint: endpoint, StatusCode: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func withMessage(kind error, body []byte) error {
	var apiErr apiErrorBody
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%w: %s", kind, apiErr.Message)
	}
	return kind
}
