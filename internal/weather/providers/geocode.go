package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-tracker/internal/weather"
)

// geocodeFunc matches geocoder.Geocoding so tests can stub the Google call.
type geocodeFunc func(geocoder.Address) (geocoder.Location, error)

// GoogleGeocoder resolves city coordinates through the Google Geocoding API.
// Results are cached for the lifetime of the process.
type GoogleGeocoder struct {
	lookup geocodeFunc

	mu    sync.Mutex
	cache map[string][2]float64
}

// NewGoogleGeocoder configures the package-level API key of kelvins/geocoder.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		lookup: geocoder.Geocoding,
		cache:  make(map[string][2]float64),
	}
}

func (g *GoogleGeocoder) Resolve(ctx context.Context, city weather.City) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	key := city.Name + ":" + city.Country

	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.cache[key]; ok {
		return c[0], c[1], nil
	}

	loc, err := g.lookup(geocoder.Address{
		City:    city.Name,
		Country: city.Country,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %s: %w", key, err)
	}

	g.cache[key] = [2]float64{loc.Latitude, loc.Longitude}
	return loc.Latitude, loc.Longitude, nil
}
