package store

import (
	"errors"
	"sync"

	"github.com/i474232898/weather-tracker/internal/weather"
)

var (
	// ErrNotFound is returned when the record log does not exist yet.
	ErrNotFound = errors.New("weather data not found")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedRow is returned when a stored value cannot be parsed.
	ErrMalformedRow = errors.New("malformed weather row")
)

// MemoryStore is a concurrency-safe in-memory record log. Like every
// record log it only grows.
type MemoryStore struct {
	mu sync.RWMutex

	records []weather.Record
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds a record at the end of the log.
func (s *MemoryStore) Append(rec weather.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	return nil
}

// LoadAll returns a copy of all records in insertion order.
func (s *MemoryStore) LoadAll() ([]weather.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}
