package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/i474232898/weather-tracker/internal/weather"
)

// CSVStore is the default record log: a UTF-8, comma separated file with a
// mandatory header row. It is only ever appended to.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by the file at path. The file is not
// touched until Init or Append is called.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Init ensures the file exists and starts with the header row. An existing
// non-empty file is left exactly as it is.
func (s *CSVStore) Init() error {
	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			// Created between Stat and OpenFile; someone else wrote the header.
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		return writeRows(f, weather.Header)
	case err != nil:
		return fmt.Errorf("failed to stat CSV file: %w", err)
	case info.Size() == 0:
		f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open CSV file: %w", err)
		}
		return writeRows(f, weather.Header)
	default:
		return nil
	}
}

// Append writes one record at the end of the file, writing the header first
// if the file does not exist yet.
func (s *CSVStore) Append(rec weather.Record) error {
	if err := s.Init(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	return writeRows(f, rec.Row())
}

// writeRows writes the rows and closes f.
func writeRows(f *os.File, rows ...[]string) error {
	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return f.Close()
}

// LoadAll reads every record in file order. Columns are located by header
// name, so extra columns or a different order are tolerated.
func (s *CSVStore) LoadAll() ([]weather.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s is empty", ErrMissingColumn, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []weather.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		line, _ := r.FieldPos(0)

		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range weather.Header {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int) (weather.Record, error) {
	field := func(col string) (string, error) {
		i := idx[col]
		if i >= len(row) {
			return "", fmt.Errorf("missing %s value", col)
		}
		return strings.TrimSpace(row[i]), nil
	}

	var rec weather.Record

	date, err := field(weather.ColumnDate)
	if err != nil {
		return rec, err
	}
	if rec.Date, err = weather.ParseDate(date); err != nil {
		return rec, fmt.Errorf("invalid date %q", date)
	}

	if rec.City, err = field(weather.ColumnCity); err != nil {
		return rec, err
	}

	for _, f := range []struct {
		col string
		dst *float64
	}{
		{weather.ColumnTMax, &rec.TMax},
		{weather.ColumnTMin, &rec.TMin},
		{weather.ColumnPrecip, &rec.Precip},
	} {
		v, err := field(f.col)
		if err != nil {
			return rec, err
		}
		if *f.dst, err = strconv.ParseFloat(v, 64); err != nil {
			return rec, fmt.Errorf("invalid %s %q", f.col, v)
		}
	}

	return rec, nil
}
