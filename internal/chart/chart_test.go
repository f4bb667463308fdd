package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Toronto temperatures":   "toronto-temperatures",
		"New York rolling 7":     "new-york-rolling-7",
		"  São Paulo -- daily  ": "são-paulo-daily",
		"Guangzhou":              "guangzhou",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestSegmentsSplitOnNaN(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{math.NaN(), 10, 11, math.NaN(), math.NaN(), 12, 13, 14, math.NaN()}
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Time: day.AddDate(0, 0, i), Value: v}
	}

	segs := segments(points)
	require.Len(t, segs, 2, "the gap in the middle is not bridged")
	require.Len(t, segs[0], 2)
	require.Len(t, segs[1], 3)
	assert.Equal(t, 10.0, segs[0][0].Y)
	assert.Equal(t, 11.0, segs[0][1].Y)
	assert.Equal(t, 12.0, segs[1][0].Y)
	assert.Equal(t, float64(day.AddDate(0, 0, 5).Unix()), segs[1][0].X)

	assert.Empty(t, segments([]Point{{Time: day, Value: math.NaN()}}))
}

func TestPNGRendererWritesFile(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	c := Chart{
		Name:   "Toronto rolling 3",
		Title:  "3-day Rolling Average Temperatures – Toronto",
		XLabel: "Date",
		YLabel: "Temperature (°C)",
		Series: []Series{
			{Label: "3-day Tmax avg", Points: []Point{
				{Time: day, Value: math.NaN()},
				{Time: day.AddDate(0, 0, 1), Value: math.NaN()},
				{Time: day.AddDate(0, 0, 2), Value: 12},
				{Time: day.AddDate(0, 0, 3), Value: 14},
				{Time: day.AddDate(0, 0, 4), Value: math.NaN()},
				{Time: day.AddDate(0, 0, 5), Value: 15},
			}},
			{Label: "3-day Tmin avg", Points: []Point{
				{Time: day, Value: math.NaN()},
			}},
		},
	}

	dir := filepath.Join(t.TempDir(), "charts")
	path, err := NewPNGRenderer(dir).Render(c)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "toronto-rolling-3.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "file is a PNG")
}
