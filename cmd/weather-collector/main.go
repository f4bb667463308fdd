package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/i474232898/weather-tracker/internal/config"
	"github.com/i474232898/weather-tracker/internal/scheduler"
	"github.com/i474232898/weather-tracker/internal/store"
	"github.com/i474232898/weather-tracker/internal/weather"
	"github.com/i474232898/weather-tracker/internal/weather/providers"
)

func main() {
	schedule := flag.BoolP("schedule", "s", false, "keep running and collect once a day at --at")
	at := flag.String("at", "", "daily collection time HH:MM (default $COLLECT_AT or 06:00)")
	dataFile := flag.StringP("data-file", "f", "", "CSV record log path (default $WEATHER_DATA_FILE)")
	flag.Parse()

	if err := run(*schedule, *at, *dataFile); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}

func run(schedule bool, at, dataFile string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if at != "" {
		cfg.CollectAt = at
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	records, closeStore, err := store.Open(cfg.StoreDriver, cfg.StoreTarget())
	if err != nil {
		return fmt.Errorf("failed to open record log: %w", err)
	}
	defer closeStore()

	// Shared HTTP client; its timeout bounds each per-city request.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := providers.NewOpenMeteoProvider(httpClient, providers.WithTimezone(cfg.Timezone))

	var opts []weather.CollectorOption
	if cfg.GeocoderAPIKey != "" {
		opts = append(opts, weather.WithResolver(providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)))
	}
	collector := weather.NewCollector(records, provider, cfg.Cities, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !schedule {
		if _, err := collector.Run(ctx); err != nil {
			return fmt.Errorf("collection failed: %w", err)
		}
		return nil
	}

	sched := scheduler.New(collector, cfg.CollectAt, cfg.Location(), batchTimeout(cfg.HTTPTimeout, len(cfg.Cities)))
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	<-ctx.Done()
	log.Println("collector: shutting down")
	return nil
}

// batchTimeout bounds one scheduled batch: one request timeout per city
// plus slack for geocoding and file writes.
func batchTimeout(perRequest time.Duration, cities int) time.Duration {
	return perRequest * time.Duration(cities+2)
}
