package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour. MaxRetries of zero
// makes every failure terminal for the request that caused it.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

var (
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// newCircuitBreaker builds the breaker shared by all requests of a provider.
// Client errors (4xx other than 429) are answers, not outages, and do not
// count against the breaker.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var qe *weather.QueryError
			return errors.As(err, &qe) && !retryableStatus(qe.Status)
		},
	})
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// doRequestWithResilience executes the HTTP request through the circuit
// breaker, retrying transport failures, rate limiting and server errors
// with exponential backoff up to cfg.Backoff.MaxRetries times.
//
// Non-success statuses come back as *weather.QueryError carrying the
// provider's message; everything else that prevents a usable response comes
// back as *weather.TransportError.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, &weather.TransportError{Err: ctx.Err()}
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}

		// Ensure the request obeys context cancellation.
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return nil, statusError(resp)
			}
			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, &weather.TransportError{Err: fmt.Errorf("unexpected result type from circuit breaker")}
			}
			return resp, nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.TransportError{Err: fmt.Errorf("%w: %v", errCircuitOpen, err)}
		}

		var qe *weather.QueryError
		if errors.As(err, &qe) && !retryableStatus(qe.Status) {
			return nil, qe
		}

		if attempt >= cfg.Backoff.MaxRetries {
			return nil, classify(err)
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &weather.TransportError{Err: ctx.Err()}
		case <-timer.C:
		}

		attempt++
	}
}

func classify(err error) error {
	var qe *weather.QueryError
	if errors.As(err, &qe) {
		return qe
	}
	return &weather.TransportError{Err: err}
}

// statusError drains a non-success response into a QueryError.
func statusError(resp *http.Response) error {
	defer resp.Body.Close()

	var payload struct {
		Message string `json:"message"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(body, &payload)

	return &weather.QueryError{Status: resp.StatusCode, Message: payload.Message}
}

// decodeJSON decodes a success body, reporting malformed payloads as
// transport failures.
func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &weather.TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
