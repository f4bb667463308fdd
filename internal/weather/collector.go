package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// ErrNoCoordinates is returned for a city without coordinates when no
// resolver is configured.
var ErrNoCoordinates = errors.New("city has no coordinates")

// RunResult summarizes one collection batch.
type RunResult struct {
	RunID  string
	Saved  int
	Failed int
}

// Collector fetches today's observation for every configured city and
// appends it to the record log. Cities are processed one at a time.
type Collector struct {
	records  RecordLog
	provider Provider
	resolver Resolver
	cities   []City
	now      func() time.Time
}

// CollectorOption customizes a Collector.
type CollectorOption func(*Collector)

// WithResolver sets the geocoder used for cities lacking coordinates.
func WithResolver(r Resolver) CollectorOption {
	return func(c *Collector) {
		c.resolver = r
	}
}

// WithClock overrides the clock used for log timestamps.
func WithClock(now func() time.Time) CollectorOption {
	return func(c *Collector) {
		c.now = now
	}
}

// NewCollector creates a new Collector.
func NewCollector(records RecordLog, provider Provider, cities []City, opts ...CollectorOption) *Collector {
	c := &Collector{
		records:  records,
		provider: provider,
		cities:   cities,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run performs one collection batch. A failure for a single city is logged
// and counted; only a failure to prepare the record log aborts the batch.
func (c *Collector) Run(ctx context.Context) (RunResult, error) {
	res := RunResult{RunID: uuid.NewString()}

	log.Printf("[%s] collector: run %s collecting weather data for %d cities",
		c.now().Format(time.RFC3339), res.RunID, len(c.cities))

	if initer, ok := c.records.(Initializer); ok {
		if err := initer.Init(); err != nil {
			return res, fmt.Errorf("prepare record log: %w", err)
		}
	}

	for _, city := range c.cities {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		rec, err := c.collectCity(ctx, city)
		if err != nil {
			res.Failed++
			log.Printf("ERROR: collector: error collecting data for %s: %v", city.Name, err)
			continue
		}

		res.Saved++
		log.Printf("collector: saved %s", rec)
	}

	log.Printf("collector: run %s done (saved=%d failed=%d)", res.RunID, res.Saved, res.Failed)
	return res, nil
}

func (c *Collector) collectCity(ctx context.Context, city City) (Record, error) {
	if !city.HasCoordinates() {
		if c.resolver == nil {
			return Record{}, ErrNoCoordinates
		}
		lat, lon, err := c.resolver.Resolve(ctx, city)
		if err != nil {
			return Record{}, fmt.Errorf("resolve coordinates: %w", err)
		}
		city.Lat, city.Lon = &lat, &lon
	}

	rec, err := c.provider.FetchDaily(ctx, city)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", c.provider.Name(), err)
	}

	if err := c.records.Append(rec); err != nil {
		return Record{}, fmt.Errorf("append record: %w", err)
	}
	return rec, nil
}
