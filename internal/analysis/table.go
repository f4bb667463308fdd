// Package analysis turns the weather record log into statistics, chart
// series and period comparisons.
package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/i474232898/weather-tracker/internal/weather"
)

// NumericColumns are the columns summarized by Describe.
var NumericColumns = []string{weather.ColumnTMax, weather.ColumnTMin, weather.ColumnPrecip}

// Table is the in-memory view of the record log. Dates are kept as ISO
// strings, which order and compare the same way as the dates themselves.
type Table struct {
	df dataframe.DataFrame
}

// Load reads the whole record log. Any error is a data error for the caller.
func Load(records weather.RecordLog) (*Table, error) {
	recs, err := records.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load weather data: %w", err)
	}
	return NewTable(recs), nil
}

// NewTable builds a table from records, preserving their order.
func NewTable(records []weather.Record) *Table {
	n := len(records)
	var (
		dates  = make([]string, n)
		cities = make([]string, n)
		tmax   = make([]float64, n)
		tmin   = make([]float64, n)
		precip = make([]float64, n)
	)
	for i, r := range records {
		dates[i] = r.Date.Format(weather.DateLayout)
		cities[i] = r.City
		tmax[i] = r.TMax
		tmin[i] = r.TMin
		precip[i] = r.Precip
	}

	return &Table{df: dataframe.New(
		series.New(dates, series.String, weather.ColumnDate),
		series.New(cities, series.String, weather.ColumnCity),
		series.New(tmax, series.Float, weather.ColumnTMax),
		series.New(tmin, series.Float, weather.ColumnTMin),
		series.New(precip, series.Float, weather.ColumnPrecip),
	)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.df.Nrow()
}

// Cities returns the distinct city names, sorted.
func (t *Table) Cities() []string {
	if t.Len() == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, c := range t.df.Col(weather.ColumnCity).Records() {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// City returns the rows for one city sorted by date ascending.
func (t *Table) City(name string) *Table {
	if t.Len() == 0 {
		return t
	}
	df := t.df.Filter(dataframe.F{
		Colname:    weather.ColumnCity,
		Comparator: series.Eq,
		Comparando: name,
	})
	if df.Nrow() > 1 {
		df = df.Arrange(dataframe.Sort(weather.ColumnDate))
	}
	return &Table{df: df}
}

// Between returns the rows whose date lies in p, both ends inclusive.
func (t *Table) Between(p weather.Period) *Table {
	if t.Len() == 0 {
		return t
	}
	df := t.df.
		Filter(dataframe.F{
			Colname:    weather.ColumnDate,
			Comparator: series.GreaterEq,
			Comparando: p.Start.Format(weather.DateLayout),
		})
	if df.Nrow() > 0 {
		df = df.Filter(dataframe.F{
			Colname:    weather.ColumnDate,
			Comparator: series.LessEq,
			Comparando: p.End.Format(weather.DateLayout),
		})
	}
	return &Table{df: df}
}

// Floats returns a numeric column. An empty table yields an empty slice.
func (t *Table) Floats(col string) []float64 {
	if t.Len() == 0 {
		return []float64{}
	}
	return t.df.Col(col).Float()
}

// Dates returns the date column parsed back into UTC dates.
func (t *Table) Dates() []time.Time {
	if t.Len() == 0 {
		return nil
	}
	raw := t.df.Col(weather.ColumnDate).Records()
	out := make([]time.Time, len(raw))
	for i, s := range raw {
		// Values were formatted from time.Time in NewTable.
		out[i], _ = weather.ParseDate(s)
	}
	return out
}

// Records converts the table back into records.
func (t *Table) Records() []weather.Record {
	dates := t.Dates()
	if len(dates) == 0 {
		return nil
	}
	cities := t.df.Col(weather.ColumnCity).Records()
	tmax, tmin, precip := t.Floats(weather.ColumnTMax), t.Floats(weather.ColumnTMin), t.Floats(weather.ColumnPrecip)

	out := make([]weather.Record, len(dates))
	for i := range out {
		out[i] = weather.Record{Date: dates[i], City: cities[i], TMax: tmax[i], TMin: tmin[i], Precip: precip[i]}
	}
	return out
}
