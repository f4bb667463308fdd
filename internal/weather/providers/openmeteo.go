package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-tracker/internal/weather"
)

const (
	openMeteoForecastURL = "https://api.open-meteo.com/v1/forecast"
	openMeteoDailyFields = "temperature_2m_max,temperature_2m_min,precipitation_sum"

	// DefaultTimezone decides which calendar day "today" is.
	DefaultTimezone = "America/Toronto"
)

// OpenMeteoProvider implements weather.Provider using the Open-Meteo daily forecast.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	timezone string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
}

// OpenMeteoOption customizes an OpenMeteoProvider.
type OpenMeteoOption func(*OpenMeteoProvider)

// WithBaseURL points the provider at another endpoint, e.g. a test server.
func WithBaseURL(u string) OpenMeteoOption {
	return func(p *OpenMeteoProvider) {
		p.baseURL = u
	}
}

// WithTimezone sets the timezone Open-Meteo uses to bucket days.
func WithTimezone(tz string) OpenMeteoOption {
	return func(p *OpenMeteoProvider) {
		if tz != "" {
			p.timezone = tz
		}
	}
}

func NewOpenMeteoProvider(client *http.Client, opts ...OpenMeteoOption) *OpenMeteoProvider {
	p := &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  openMeteoForecastURL,
		timezone: DefaultTimezone,
		client:   client,
		circuit:  newCircuitBreaker("openmeteo"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// dailyPayload mirrors the parallel arrays under the "daily" key.
// Values are pointers so JSON nulls are detected instead of read as zero.
type dailyPayload struct {
	Daily *struct {
		Time        []string   `json:"time"`
		TempMax     []*float64 `json:"temperature_2m_max"`
		TempMin     []*float64 `json:"temperature_2m_min"`
		PrecipTotal []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

func (p *OpenMeteoProvider) FetchDaily(ctx context.Context, city weather.City) (weather.Record, error) {
	if !city.HasCoordinates() {
		return weather.Record{}, fmt.Errorf("openmeteo requires latitude and longitude")
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(*city.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(*city.Lon, 'f', -1, 64))
	values.Set("daily", openMeteoDailyFields)
	values.Set("timezone", p.timezone)

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return weather.Record{}, err
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return weather.Record{}, err
	}
	defer resp.Body.Close()

	var payload dailyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Record{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return payload.today(city.Name)
}

// today converts index 0 of the daily arrays into a record.
func (p dailyPayload) today(cityName string) (weather.Record, error) {
	d := p.Daily
	if d == nil {
		return weather.Record{}, fmt.Errorf("%w: missing daily section", ErrMalformedPayload)
	}
	if len(d.Time) == 0 || len(d.TempMax) == 0 || len(d.TempMin) == 0 || len(d.PrecipTotal) == 0 {
		return weather.Record{}, fmt.Errorf("%w: empty daily arrays", ErrMalformedPayload)
	}
	if d.TempMax[0] == nil || d.TempMin[0] == nil || d.PrecipTotal[0] == nil {
		return weather.Record{}, fmt.Errorf("%w: null daily value", ErrMalformedPayload)
	}

	date, err := weather.ParseDate(d.Time[0])
	if err != nil {
		return weather.Record{}, fmt.Errorf("%w: invalid date %q", ErrMalformedPayload, d.Time[0])
	}
	if *d.PrecipTotal[0] < 0 {
		return weather.Record{}, fmt.Errorf("%w: negative precipitation %v", ErrMalformedPayload, *d.PrecipTotal[0])
	}

	return weather.Record{
		Date:   date,
		City:   cityName,
		TMax:   *d.TempMax[0],
		TMin:   *d.TempMin[0],
		Precip: *d.PrecipTotal[0],
	}, nil
}
