package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STORE_DRIVER", "WEATHER_DATA_FILE", "STORE_DSN", "WEATHER_TIMEZONE", "HTTP_TIMEOUT",
		"WEATHER_CITIES_FILE", "GEOCODER_API_KEY", "COLLECT_AT", "CHART_DIR", "ROLLING_WINDOW", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func writeCities(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.StoreDriver)
	assert.Equal(t, "weather_data.csv", cfg.StoreTarget())
	assert.Equal(t, "America/Toronto", cfg.Timezone)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "06:00", cfg.CollectAt)
	assert.Equal(t, 7, cfg.RollingWindow)
	require.Len(t, cfg.Cities, 5)
	assert.Equal(t, "Toronto", cfg.Cities[0].Name)
	assert.Equal(t, "America/Toronto", cfg.Location().String())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_DSN", "file:weather.db")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("ROLLING_WINDOW", "14")
	t.Setenv("WEATHER_CITIES_FILE", writeCities(t, `
cities:
  - name: Paris
    lat: 48.8566
    lon: 2.3522
  - name: Oslo
    country: Norway
    lat: 59.91
    lon: 10.75
`))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file:weather.db", cfg.StoreTarget())
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 14, cfg.RollingWindow)
	require.Len(t, cfg.Cities, 2)
	assert.Equal(t, "Oslo", cfg.Cities[1].Name)
	assert.Equal(t, "Norway", cfg.Cities[1].Country)
	assert.Equal(t, 10.75, *cfg.Cities[1].Lon)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "mongo"}},
		{name: "sql without dsn", env: map[string]string{"STORE_DRIVER": "postgres"}},
		{name: "bad timezone", env: map[string]string{"WEATHER_TIMEZONE": "Mars/Olympus"}},
		{name: "bad timeout", env: map[string]string{"HTTP_TIMEOUT": "soon"}},
		{name: "bad collect time", env: map[string]string{"COLLECT_AT": "25:00"}},
		{name: "zero window", env: map[string]string{"ROLLING_WINDOW": "0"}},
		{name: "missing cities file", env: map[string]string{"WEATHER_CITIES_FILE": "/nonexistent/cities.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestCitiesWithoutCoordinatesNeedGeocoder(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEATHER_CITIES_FILE", writeCities(t, "cities:\n  - name: Waterloo\n    country: Canada\n"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Waterloo")

	t.Setenv("GEOCODER_API_KEY", "key")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Cities[0].HasCoordinates())
}

func TestLoadCitiesRejectsOutOfRangeLatitude(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEATHER_CITIES_FILE", writeCities(t, "cities:\n  - name: Nowhere\n    lat: 123\n    lon: 0\n"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadCitiesEmpty(t *testing.T) {
	_, err := LoadCities(writeCities(t, "cities: []\n"))
	assert.Error(t, err)
}
