package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
)

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")

	// ErrMalformedPayload is returned when a 2xx response does not carry
	// the fields we need.
	ErrMalformedPayload = errors.New("malformed payload")
)

// newCircuitBreaker returns the breaker shared by all calls to one provider.
// It trips after three consecutive transport or server failures.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

// doRequest executes a single attempt of the request through the circuit
// breaker. Only transport errors and 5xx responses count against the
// breaker; a 4xx is about the request itself and must not fail other cities.
// Non-2xx responses are turned into errors and their body closed.
func doRequest(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode >= 500 {
			defer resp.Body.Close()
			return nil, fmt.Errorf("%w: %d%s", errServerError, resp.StatusCode, apiReason(resp.Body))
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	reason := apiReason(resp.Body)
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w%s", errRateLimited, reason)
	}
	return nil, fmt.Errorf("%w: %d%s", errUnexpected, resp.StatusCode, reason)
}

// apiReason extracts Open-Meteo's {"error":true,"reason":"..."} message.
func apiReason(body io.Reader) string {
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&payload); err != nil || payload.Reason == "" {
		return ""
	}
	return " (" + payload.Reason + ")"
}
