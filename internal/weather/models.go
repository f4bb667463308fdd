package weather

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used in the record log.
const DateLayout = "2006-01-02"

// Column names of the persisted record log, in file order.
const (
	ColumnDate   = "date"
	ColumnCity   = "city"
	ColumnTMax   = "tmax"
	ColumnTMin   = "tmin"
	ColumnPrecip = "precip"
)

// Header is the mandatory first row of the CSV record log.
var Header = []string{ColumnDate, ColumnCity, ColumnTMax, ColumnTMin, ColumnPrecip}

// City is a configured place we collect daily observations for.
// Lat/Lon may be omitted when a geocoder is available to resolve them.
type City struct {
	Name    string   `yaml:"name" json:"name" validate:"required"`
	Country string   `yaml:"country,omitempty" json:"country,omitempty"`
	Lat     *float64 `yaml:"lat,omitempty" json:"lat,omitempty" validate:"omitempty,latitude"`
	Lon     *float64 `yaml:"lon,omitempty" json:"lon,omitempty" validate:"omitempty,longitude"`
}

// NewCity returns a City with both coordinates set.
func NewCity(name string, lat, lon float64) City {
	return City{Name: name, Lat: &lat, Lon: &lon}
}

// HasCoordinates reports whether both latitude and longitude are known.
func (c City) HasCoordinates() bool {
	return c.Lat != nil && c.Lon != nil
}

// Record is one daily observation for one city.
type Record struct {
	Date   time.Time `json:"date"`
	City   string    `json:"city"`
	TMax   float64   `json:"tmax"`
	TMin   float64   `json:"tmin"`
	Precip float64   `json:"precip"`
}

// Row renders the record in Header column order.
func (r Record) Row() []string {
	return []string{
		r.Date.Format(DateLayout),
		r.City,
		formatFloat(r.TMax),
		formatFloat(r.TMin),
		formatFloat(r.Precip),
	}
}

func (r Record) String() string {
	return fmt.Sprintf("{date: %s, city: %s, tmax: %s, tmin: %s, precip: %s}",
		r.Date.Format(DateLayout), r.City, formatFloat(r.TMax), formatFloat(r.TMin), formatFloat(r.Precip))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseDate parses an ISO calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Period is an inclusive calendar date range.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls within the period, both ends inclusive.
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string {
	return p.Start.Format(DateLayout) + " to " + p.End.Format(DateLayout)
}
