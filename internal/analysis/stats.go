package analysis

import (
	"math"
	"sort"

	"github.com/go-gota/gota/series"
)

// ColumnStats is one row of descriptive statistics for a numeric column.
// Values that cannot be computed (e.g. std over a single row) are NaN.
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe summarizes every numeric column across all rows and cities.
func Describe(t *Table) []ColumnStats {
	out := make([]ColumnStats, 0, len(NumericColumns))
	for _, col := range NumericColumns {
		out = append(out, describeColumn(col, t.Floats(col)))
	}
	return out
}

func describeColumn(name string, values []float64) ColumnStats {
	vals := defined(values)
	nan := math.NaN()
	st := ColumnStats{Column: name, Count: len(vals), Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	if len(vals) == 0 {
		return st
	}

	s := series.Floats(vals)
	st.Mean = s.Mean()
	st.Min = s.Min()
	st.Max = s.Max()
	if len(vals) > 1 {
		st.Std = s.StdDev()
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	st.Q1 = quantile(sorted, 0.25)
	st.Median = quantile(sorted, 0.5)
	st.Q3 = quantile(sorted, 0.75)
	return st
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Mean averages values, ignoring NaN. An empty input yields NaN.
func Mean(values []float64) float64 {
	vals := defined(values)
	if len(vals) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// RollingMean is the trailing simple moving average over window values.
// The first window-1 entries, and any window containing NaN, are NaN.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		var sum float64
		for _, v := range values[i-window+1 : i+1] {
			sum += v
		}
		// NaN propagates through the sum.
		out[i] = sum / float64(window)
	}
	return out
}

func defined(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
