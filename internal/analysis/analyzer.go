package analysis

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/i474232898/weather-tracker/internal/chart"
	"github.com/i474232898/weather-tracker/internal/weather"
)

// DefaultWindow is the rolling average window in days.
const DefaultWindow = 7

var (
	// ErrNoData signals that a city filter matched no rows; the chart is skipped.
	ErrNoData = errors.New("no data")

	// ErrInsufficientHistory signals that no rolling value could be computed.
	ErrInsufficientHistory = errors.New("not enough history for rolling window")

	// ErrInvalidWindow is returned for a rolling window below 1.
	ErrInvalidWindow = errors.New("rolling window must be at least 1")
)

// Renderer draws a chart and reports where it went.
type Renderer interface {
	Render(c chart.Chart) (string, error)
}

// TemperatureSeries is one city's tmax/tmin over time, dates ascending.
type TemperatureSeries struct {
	City  string
	Dates []time.Time
	TMax  []float64
	TMin  []float64
}

// CityTemperatures returns the sorted temperature series for a city, or
// ErrNoData when the city has no rows.
func (t *Table) CityTemperatures(city string) (TemperatureSeries, error) {
	ct := t.City(city)
	if ct.Len() == 0 {
		return TemperatureSeries{}, fmt.Errorf("%w for city: %s", ErrNoData, city)
	}
	return TemperatureSeries{
		City:  city,
		Dates: ct.Dates(),
		TMax:  ct.Floats(weather.ColumnTMax),
		TMin:  ct.Floats(weather.ColumnTMin),
	}, nil
}

// RollingTemperatures applies RollingMean to tmax and tmin independently.
// Undefined leading values stay NaN.
func (t *Table) RollingTemperatures(city string, window int) (TemperatureSeries, error) {
	if window < 1 {
		return TemperatureSeries{}, ErrInvalidWindow
	}
	s, err := t.CityTemperatures(city)
	if err != nil {
		return s, err
	}
	s.TMax = RollingMean(s.TMax, window)
	s.TMin = RollingMean(s.TMin, window)
	return s, nil
}

// Defined counts the dates for which both rolled values exist.
func (s TemperatureSeries) Defined() int {
	n := 0
	for i := range s.Dates {
		if !math.IsNaN(s.TMax[i]) && !math.IsNaN(s.TMin[i]) {
			n++
		}
	}
	return n
}

// PeriodMeans holds the mean temperatures of one period.
type PeriodMeans struct {
	Period weather.Period
	Rows   int
	TMax   float64
	TMin   float64
}

// Comparison is the result of ComparePeriods.
type Comparison struct {
	City   string
	First  PeriodMeans
	Second PeriodMeans
}

// ComparePeriods averages tmax and tmin for one city over two independent
// inclusive periods. An empty period yields NaN means, not an error.
func (t *Table) ComparePeriods(city string, first, second weather.Period) Comparison {
	ct := t.City(city)
	means := func(p weather.Period) PeriodMeans {
		sub := ct.Between(p)
		return PeriodMeans{
			Period: p,
			Rows:   sub.Len(),
			TMax:   Mean(sub.Floats(weather.ColumnTMax)),
			TMin:   Mean(sub.Floats(weather.ColumnTMin)),
		}
	}
	return Comparison{City: city, First: means(first), Second: means(second)}
}

// Analyzer prints reports to out and hands charts to the renderer.
type Analyzer struct {
	table    *Table
	out      io.Writer
	renderer Renderer
}

// NewAnalyzer creates an Analyzer. renderer may be nil to skip charts.
func NewAnalyzer(table *Table, out io.Writer, renderer Renderer) *Analyzer {
	return &Analyzer{table: table, out: out, renderer: renderer}
}

// Table returns the loaded table.
func (a *Analyzer) Table() *Table {
	return a.table
}

// BasicStats prints and returns descriptive statistics for all numeric columns.
func (a *Analyzer) BasicStats() []ColumnStats {
	stats := Describe(a.table)

	fmt.Fprintln(a.out, "=== Overall statistics ===")
	tw := tablewriter.NewWriter(a.out)
	header := []string{""}
	for _, st := range stats {
		header = append(header, st.Column)
	}
	tw.SetHeader(header)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetAutoFormatHeaders(false)

	rows := []struct {
		label string
		value func(ColumnStats) string
	}{
		{"count", func(s ColumnStats) string { return strconv.Itoa(s.Count) }},
		{"mean", func(s ColumnStats) string { return formatStat(s.Mean) }},
		{"std", func(s ColumnStats) string { return formatStat(s.Std) }},
		{"min", func(s ColumnStats) string { return formatStat(s.Min) }},
		{"25%", func(s ColumnStats) string { return formatStat(s.Q1) }},
		{"50%", func(s ColumnStats) string { return formatStat(s.Median) }},
		{"75%", func(s ColumnStats) string { return formatStat(s.Q3) }},
		{"max", func(s ColumnStats) string { return formatStat(s.Max) }},
	}
	for _, r := range rows {
		line := []string{r.label}
		for _, st := range stats {
			line = append(line, r.value(st))
		}
		tw.Append(line)
	}
	tw.Render()
	fmt.Fprintln(a.out)

	return stats
}

// PrintCities prints and returns the sorted city list.
func (a *Analyzer) PrintCities() []string {
	cities := a.table.Cities()
	fmt.Fprintf(a.out, "Cities in dataset: %s\n", strings.Join(cities, ", "))
	return cities
}

// PlotCityTemps renders daily max/min temperatures for a city. With no rows
// it prints a notice, renders nothing and returns ErrNoData.
func (a *Analyzer) PlotCityTemps(city string) (string, error) {
	s, err := a.table.CityTemperatures(city)
	if err != nil {
		fmt.Fprintf(a.out, "No data for city: %s\n", city)
		return "", err
	}

	return a.render(chart.Chart{
		Name:   city + " temperatures",
		Title:  "Daily Temperatures – " + city,
		XLabel: "Date",
		YLabel: "Temperature (°C)",
		Series: []chart.Series{
			{Label: "Tmax (°C)", Points: points(s.Dates, s.TMax)},
			{Label: "Tmin (°C)", Points: points(s.Dates, s.TMin)},
		},
	})
}

// PlotRollingAverage renders the window-day rolling averages for a city.
func (a *Analyzer) PlotRollingAverage(city string, window int) (string, error) {
	s, err := a.table.RollingTemperatures(city, window)
	if errors.Is(err, ErrNoData) {
		fmt.Fprintf(a.out, "No data for city: %s\n", city)
		return "", err
	}
	if err != nil {
		return "", err
	}
	if s.Defined() == 0 {
		fmt.Fprintf(a.out, "Not enough data for a %d-day rolling average in %s (%d rows)\n", window, city, len(s.Dates))
		return "", fmt.Errorf("%w: %s has %d rows, window is %d", ErrInsufficientHistory, city, len(s.Dates), window)
	}

	return a.render(chart.Chart{
		Name:   fmt.Sprintf("%s rolling %d", city, window),
		Title:  fmt.Sprintf("%d-day Rolling Average Temperatures – %s", window, city),
		XLabel: "Date",
		YLabel: "Temperature (°C)",
		Series: []chart.Series{
			{Label: fmt.Sprintf("%d-day Tmax avg", window), Points: points(s.Dates, s.TMax)},
			{Label: fmt.Sprintf("%d-day Tmin avg", window), Points: points(s.Dates, s.TMin)},
		},
	})
}

// ComparePeriods prints the mean temperatures of two periods side by side.
func (a *Analyzer) ComparePeriods(city string, first, second weather.Period) Comparison {
	cmp := a.table.ComparePeriods(city, first, second)

	fmt.Fprintf(a.out, "=== %s: %s vs %s ===\n", city, first, second)
	tw := tablewriter.NewWriter(a.out)
	tw.SetHeader([]string{"", "Period 1", "Period 2"})
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetAutoFormatHeaders(false)
	tw.Append([]string{"rows", strconv.Itoa(cmp.First.Rows), strconv.Itoa(cmp.Second.Rows)})
	tw.Append([]string{"tmax", formatStat(cmp.First.TMax), formatStat(cmp.Second.TMax)})
	tw.Append([]string{"tmin", formatStat(cmp.First.TMin), formatStat(cmp.Second.TMin)})
	tw.Render()
	fmt.Fprintln(a.out)

	return cmp
}

func (a *Analyzer) render(c chart.Chart) (string, error) {
	if a.renderer == nil {
		return "", nil
	}
	path, err := a.renderer.Render(c)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(a.out, "Chart written: %s\n", path)
	return path, nil
}

func points(dates []time.Time, values []float64) []chart.Point {
	pts := make([]chart.Point, len(dates))
	for i := range dates {
		pts[i] = chart.Point{Time: dates[i], Value: values[i]}
	}
	return pts
}

// formatStat prints NaN as "NaN" and everything else with six decimals.
func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
