package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-tracker/internal/weather"
)

const okBody = `{
  "latitude": 43.65,
  "longitude": -79.35,
  "timezone": "America/Toronto",
  "daily_units": {"time": "iso8601", "temperature_2m_max": "°C"},
  "daily": {
    "time": ["2025-06-01", "2025-06-02"],
    "temperature_2m_max": [22.4, 25.0],
    "temperature_2m_min": [14.1, 15.2],
    "precipitation_sum": [0.0, 3.1]
  }
}`

func newTestProvider(t *testing.T, h http.HandlerFunc) *OpenMeteoProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewOpenMeteoProvider(&http.Client{Timeout: 2 * time.Second}, WithBaseURL(srv.URL))
}

func TestOpenMeteoFetchDaily(t *testing.T) {
	queries := make(chan url.Values, 1)
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okBody))
	})

	rec, err := p.FetchDaily(context.Background(), weather.NewCity("Toronto", 43.65107, -79.347015))
	require.NoError(t, err)

	q := <-queries
	assert.Equal(t, "43.65107", q.Get("latitude"))
	assert.Equal(t, "-79.347015", q.Get("longitude"))
	assert.Equal(t, "temperature_2m_max,temperature_2m_min,precipitation_sum", q.Get("daily"))
	assert.Equal(t, "America/Toronto", q.Get("timezone"))

	assert.Equal(t, "2025-06-01", rec.Date.Format(weather.DateLayout))
	assert.Equal(t, "Toronto", rec.City)
	assert.Equal(t, 22.4, rec.TMax)
	assert.Equal(t, 14.1, rec.TMin)
	assert.Equal(t, 0.0, rec.Precip)
}

func TestOpenMeteoFetchDailyErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
		contains  string
	}{
		{name: "bad request with reason", status: http.StatusBadRequest, body: `{"error":true,"reason":"Latitude must be in range"}`, contains: "Latitude must be in range"},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, contains: "server error"},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, contains: "rate limited"},
		{name: "not json", status: http.StatusOK, body: `<html>`, malformed: true},
		{name: "no daily", status: http.StatusOK, body: `{"latitude":1}`, malformed: true},
		{name: "empty arrays", status: http.StatusOK, body: `{"daily":{"time":[],"temperature_2m_max":[],"temperature_2m_min":[],"precipitation_sum":[]}}`, malformed: true},
		{name: "null value", status: http.StatusOK, body: `{"daily":{"time":["2025-06-01"],"temperature_2m_max":[null],"temperature_2m_min":[1],"precipitation_sum":[0]}}`, malformed: true},
		{name: "bad date", status: http.StatusOK, body: `{"daily":{"time":["June 1"],"temperature_2m_max":[1],"temperature_2m_min":[1],"precipitation_sum":[0]}}`, malformed: true},
		{name: "negative precip", status: http.StatusOK, body: `{"daily":{"time":["2025-06-01"],"temperature_2m_max":[1],"temperature_2m_min":[1],"precipitation_sum":[-1]}}`, malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.FetchDaily(context.Background(), weather.NewCity("X", 1, 2))
			require.Error(t, err)
			if tt.malformed {
				assert.ErrorIs(t, err, ErrMalformedPayload)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestOpenMeteoRequiresCoordinates(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })

	_, err := p.FetchDaily(context.Background(), weather.City{Name: "Nowhere"})
	assert.Error(t, err)
	assert.Zero(t, calls.Load())
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	city := weather.NewCity("X", 1, 2)
	for i := 0; i < 3; i++ {
		_, err := p.FetchDaily(context.Background(), city)
		require.Error(t, err)
	}
	_, err := p.FetchDaily(context.Background(), city)
	assert.ErrorIs(t, err, errCircuitOpen)
	assert.EqualValues(t, 3, calls.Load(), "no request once the breaker is open")
}

func TestClientErrorsDoNotTripCircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("latitude") == "999" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":true,"reason":"Latitude must be in range of -90 to 90°. Given: 999.0."}`))
			return
		}
		_, _ = w.Write([]byte(okBody))
	})

	bad := weather.NewCity("Bad", 999, 0)
	for i := 0; i < 5; i++ {
		_, err := p.FetchDaily(context.Background(), bad)
		require.Error(t, err)
		assert.ErrorIs(t, err, errUnexpected)
		assert.NotErrorIs(t, err, errCircuitOpen)
	}

	rec, err := p.FetchDaily(context.Background(), weather.NewCity("Toronto", 43.65, -79.35))
	require.NoError(t, err)
	assert.Equal(t, "Toronto", rec.City)
	assert.EqualValues(t, 6, calls.Load(), "every city gets its request")
}

func TestGoogleGeocoderCaches(t *testing.T) {
	calls := 0
	g := &GoogleGeocoder{
		lookup: func(a geocoder.Address) (geocoder.Location, error) {
			calls++
			if a.City == "Atlantis" {
				return geocoder.Location{}, errors.New("ZERO_RESULTS")
			}
			return geocoder.Location{Latitude: 43.46, Longitude: -80.52}, nil
		},
		cache: make(map[string][2]float64),
	}

	city := weather.City{Name: "Waterloo", Country: "Canada"}
	for i := 0; i < 2; i++ {
		lat, lon, err := g.Resolve(context.Background(), city)
		require.NoError(t, err)
		assert.Equal(t, 43.46, lat)
		assert.Equal(t, -80.52, lon)
	}
	assert.Equal(t, 1, calls)

	_, _, err := g.Resolve(context.Background(), weather.City{Name: "Atlantis"})
	assert.Error(t, err)
}
