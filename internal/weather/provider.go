package weather

import (
	"context"
)

// Provider abstracts a source of daily observations (e.g. Open-Meteo).
type Provider interface {
	Name() string
	// FetchDaily returns today's observation for the city.
	FetchDaily(ctx context.Context, city City) (Record, error)
}

// Resolver looks up coordinates for a city configured without them.
type Resolver interface {
	Resolve(ctx context.Context, city City) (lat, lon float64, err error)
}

// RecordLog is the append-only store shared by the collector (sole writer)
// and the analyzer (reader). Implementations live in internal/store.
type RecordLog interface {
	Append(rec Record) error
	LoadAll() ([]Record, error)
}

// Initializer is implemented by logs that need preparing before the first
// write, such as writing the CSV header or creating a table.
type Initializer interface {
	Init() error
}
