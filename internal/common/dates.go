package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/weather-tracker/internal/weather"
)

// ErrInvalidPeriod is returned for malformed or reversed date ranges.
var ErrInvalidPeriod = errors.New("invalid period")

// ParsePeriod parses "START:END" (both ISO dates, inclusive).
func ParsePeriod(s string) (weather.Period, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return weather.Period{}, fmt.Errorf("%w: %q; use YYYY-MM-DD:YYYY-MM-DD", ErrInvalidPeriod, s)
	}
	return NewPeriod(start, end)
}

// NewPeriod builds an inclusive period from two ISO dates.
func NewPeriod(start, end string) (weather.Period, error) {
	from, err := weather.ParseDate(strings.TrimSpace(start))
	if err != nil {
		return weather.Period{}, fmt.Errorf("%w: start date %q", ErrInvalidPeriod, start)
	}
	to, err := weather.ParseDate(strings.TrimSpace(end))
	if err != nil {
		return weather.Period{}, fmt.Errorf("%w: end date %q", ErrInvalidPeriod, end)
	}
	if to.Before(from) {
		return weather.Period{}, fmt.Errorf("%w: %s is before %s", ErrInvalidPeriod, end, start)
	}
	return weather.Period{Start: from, End: to}, nil
}
