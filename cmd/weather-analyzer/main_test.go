package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-tracker/internal/store"
)

func TestRunReturnsDataErrors(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_DSN", filepath.Join(t.TempDir(), "weather.db"))

	err := run(options{noCharts: true, period1: "2025-06-01:2025-06-30"})
	assert.Error(t, err, "period flags must come in pairs")

	err = run(options{noCharts: true, period1: "2025-06-01:2025-06-30", period2: "2025-07-01:2025-07-31"})
	assert.Error(t, err, "nothing to compare in an empty log")
}

func TestRunMissingCSV(t *testing.T) {
	t.Setenv("STORE_DRIVER", "csv")

	err := run(options{noCharts: true, dataFile: filepath.Join(t.TempDir(), "weather_data.csv")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRunReport(t *testing.T) {
	t.Setenv("STORE_DRIVER", "csv")
	path := filepath.Join(t.TempDir(), "weather_data.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,city,tmax,tmin,precip\n2025-06-01,Toronto,20,10,0\n2025-06-02,Toronto,22,12,1.5\n"), 0o644))

	err := run(options{
		noCharts: true,
		window:   2,
		dataFile: path,
		period1:  "2025-06-01:2025-06-01",
		period2:  "2025-06-02:2025-06-02",
	})
	assert.NoError(t, err)
}
