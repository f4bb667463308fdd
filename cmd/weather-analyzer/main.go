package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/i474232898/weather-tracker/internal/analysis"
	"github.com/i474232898/weather-tracker/internal/chart"
	"github.com/i474232898/weather-tracker/internal/common"
	"github.com/i474232898/weather-tracker/internal/config"
	"github.com/i474232898/weather-tracker/internal/store"
	"github.com/i474232898/weather-tracker/internal/weather"
)

type options struct {
	city     string
	window   int
	chartDir string
	noCharts bool
	period1  string
	period2  string
	dataFile string
}

func main() {
	var opts options
	flag.StringVarP(&opts.city, "city", "c", "", "city to chart (default: first city alphabetically)")
	flag.IntVarP(&opts.window, "window", "w", 0, "rolling average window in days (default $ROLLING_WINDOW or 7)")
	flag.StringVarP(&opts.chartDir, "charts", "o", "", "directory for PNG charts (default $CHART_DIR or charts)")
	flag.BoolVar(&opts.noCharts, "no-charts", false, "print statistics only")
	flag.StringVar(&opts.period1, "period1", "", "first comparison period, YYYY-MM-DD:YYYY-MM-DD")
	flag.StringVar(&opts.period2, "period2", "", "second comparison period, YYYY-MM-DD:YYYY-MM-DD")
	flag.StringVarP(&opts.dataFile, "data-file", "f", "", "CSV record log path (default $WEATHER_DATA_FILE)")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.dataFile != "" {
		cfg.DataFile = opts.dataFile
	}
	if opts.window != 0 {
		cfg.RollingWindow = opts.window
	}
	if opts.chartDir != "" {
		cfg.ChartDir = opts.chartDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if (opts.period1 == "") != (opts.period2 == "") {
		return errors.New("--period1 and --period2 must be given together")
	}
	var p1, p2 weather.Period
	if opts.period1 != "" {
		if p1, err = common.ParsePeriod(opts.period1); err != nil {
			return fmt.Errorf("--period1: %w", err)
		}
		if p2, err = common.ParsePeriod(opts.period2); err != nil {
			return fmt.Errorf("--period2: %w", err)
		}
	}

	records, closeStore, err := store.Open(cfg.StoreDriver, cfg.StoreTarget())
	if err != nil {
		return fmt.Errorf("failed to open record log: %w", err)
	}
	defer closeStore()

	table, err := analysis.Load(records)
	if err != nil {
		return err
	}

	var renderer analysis.Renderer
	if !opts.noCharts {
		renderer = chart.NewPNGRenderer(cfg.ChartDir)
	}
	a := analysis.NewAnalyzer(table, os.Stdout, renderer)

	a.BasicStats()
	cities := a.PrintCities()

	target := opts.city
	if target == "" && len(cities) > 0 {
		target = cities[0]
	}
	if target != "" {
		fmt.Printf("\nShowing charts for: %s\n", target)
		if _, err := a.PlotCityTemps(target); err != nil && !errors.Is(err, analysis.ErrNoData) {
			log.Printf("ERROR: temperature chart for %s: %v", target, err)
		}
		if _, err := a.PlotRollingAverage(target, cfg.RollingWindow); err != nil && !isSkipped(err) {
			log.Printf("ERROR: rolling average chart for %s: %v", target, err)
		}
	}

	if opts.period1 != "" {
		if target == "" {
			return errors.New("no city to compare; pass --city")
		}
		a.ComparePeriods(target, p1, p2)
	}
	return nil
}

// isSkipped reports errors for which the analyzer already printed a notice.
func isSkipped(err error) bool {
	return errors.Is(err, analysis.ErrNoData) || errors.Is(err, analysis.ErrInsufficientHistory)
}
