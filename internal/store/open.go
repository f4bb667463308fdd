package store

import (
	"fmt"

	"github.com/i474232898/weather-tracker/internal/weather"
)

// DriverCSV selects the CSV file backend.
const DriverCSV = "csv"

// Open returns the record log selected by driver along with a close func.
// For csv, target is the file path; for sql drivers it is the DSN.
func Open(driver, target string) (weather.RecordLog, func() error, error) {
	switch driver {
	case "", DriverCSV:
		return NewCSVStore(target), func() error { return nil }, nil
	case DriverSQLite, DriverPostgres:
		s, err := OpenSQLStore(driver, target)
		if err != nil {
			return nil, nil, err
		}
		// Readers may open the log before the collector ever ran.
		if err := s.Init(); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
