package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-tracker/internal/weather"
)

var validate = validator.New()

type AppConfig struct {
	// Record log backend: csv (DataFile) or sqlite/postgres (StoreDSN).
	StoreDriver string `validate:"oneof=csv sqlite postgres"`
	DataFile    string `validate:"required_if=StoreDriver csv"`
	StoreDSN    string `validate:"required_unless=StoreDriver csv"`

	// Timezone passed to Open-Meteo and used by the scheduler.
	Timezone    string        `validate:"required,timezone"`
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Cities to collect. Defaults to DefaultCities unless CitiesFile is set.
	CitiesFile string
	Cities     []weather.City `validate:"required,min=1,dive"`

	// GeocoderAPIKey enables coordinate lookup for cities configured without them.
	GeocoderAPIKey string

	// CollectAt is the daily HH:MM time of scheduled collection.
	CollectAt string `validate:"required,datetime=15:04"`

	ChartDir      string `validate:"required"`
	RollingWindow int    `validate:"min=1"`

	Port string
}

// DefaultCities is the built-in city list.
func DefaultCities() []weather.City {
	return []weather.City{
		weather.NewCity("Toronto", 43.65107, -79.347015),
		weather.NewCity("Waterloo", 43.4643, -80.5204),
		weather.NewCity("New York", 40.7128, -74.0060),
		weather.NewCity("Beijing", 39.9042, 116.4074),
		weather.NewCity("Guangzhou", 23.1291, 113.2644),
	}
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.StoreDriver = getenvDefault("STORE_DRIVER", "csv")
	cfg.DataFile = getenvDefault("WEATHER_DATA_FILE", "weather_data.csv")
	cfg.StoreDSN = os.Getenv("STORE_DSN")

	cfg.Timezone = getenvDefault("WEATHER_TIMEZONE", "America/Toronto")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.CitiesFile = os.Getenv("WEATHER_CITIES_FILE")
	cfg.Cities = DefaultCities()
	if cfg.CitiesFile != "" {
		cities, err := LoadCities(cfg.CitiesFile)
		if err != nil {
			return nil, err
		}
		cfg.Cities = cities
	}

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.CollectAt = getenvDefault("COLLECT_AT", "06:00")
	cfg.ChartDir = getenvDefault("CHART_DIR", "charts")
	cfg.RollingWindow = getenvInt("ROLLING_WINDOW", 7)
	cfg.Port = getenvDefault("PORT", "8080")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and that every city can be located.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.GeocoderAPIKey == "" {
		for _, city := range c.Cities {
			if !city.HasCoordinates() {
				return fmt.Errorf("invalid config: city %q has no coordinates and GEOCODER_API_KEY is not set", city.Name)
			}
		}
	}
	return nil
}

// StoreTarget is the file path or DSN for the configured driver.
func (c *AppConfig) StoreTarget() string {
	if c.StoreDriver == "csv" {
		return c.DataFile
	}
	return c.StoreDSN
}

// Location returns the configured timezone.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type citiesFile struct {
	Cities []weather.City `yaml:"cities"`
}

// LoadCities reads a YAML city list:
//
//	cities:
//	  - name: Toronto
//	    lat: 43.65107
//	    lon: -79.347015
func LoadCities(path string) ([]weather.City, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cities file: %w", err)
	}
	defer f.Close()

	var doc citiesFile
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse cities file %s: %w", path, err)
	}
	if len(doc.Cities) == 0 {
		return nil, fmt.Errorf("cities file %s lists no cities", path)
	}
	return doc.Cities, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
