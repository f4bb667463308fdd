package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/i474232898/weather-tracker/internal/weather"
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore keeps the record log in a weather_records table. Rows are read
// back in insertion order.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQLStore opens and pings the database.
func OpenSQLStore(driver, dsn string) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One writer at a time; avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	return &SQLStore{db: db, driver: driver}, nil
}

// Init creates the table if it does not exist.
func (s *SQLStore) Init() error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS weather_records (
		%s,
		date TEXT NOT NULL,
		city TEXT NOT NULL,
		tmax DOUBLE PRECISION NOT NULL,
		tmin DOUBLE PRECISION NOT NULL,
		precip DOUBLE PRECISION NOT NULL
	)`, idColumn)

	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create weather_records table: %w", err)
	}
	return nil
}

func (s *SQLStore) Append(rec weather.Record) error {
	stmt := fmt.Sprintf(
		"INSERT INTO weather_records (date, city, tmax, tmin, precip) VALUES (%s)",
		s.placeholders(5))

	_, err := s.db.Exec(stmt, rec.Date.Format(weather.DateLayout), rec.City, rec.TMax, rec.TMin, rec.Precip)
	if err != nil {
		return fmt.Errorf("failed to insert weather record: %w", err)
	}
	return nil
}

func (s *SQLStore) LoadAll() ([]weather.Record, error) {
	rows, err := s.db.Query("SELECT date, city, tmax, tmin, precip FROM weather_records ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query weather records: %w", err)
	}
	defer rows.Close()

	var records []weather.Record
	for rows.Next() {
		var (
			rec  weather.Record
			date string
		)
		if err := rows.Scan(&date, &rec.City, &rec.TMax, &rec.TMin, &rec.Precip); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		if rec.Date, err = weather.ParseDate(date); err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", ErrMalformedRow, date)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read weather records: %w", err)
	}

	return records, nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		if s.driver == DriverPostgres {
			ph[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ph[i] = "?"
		}
	}
	return strings.Join(ph, ", ")
}
