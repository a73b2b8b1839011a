package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir    string
	CitiesFile string

	TripsDatabaseURL string
	TripsDBDriver    string
	TripsTable       string

	NATSURL           string
	NATSSubjectPrefix string
	LogNATSSubjects   bool

	MetricsAddr string
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.DataDir = firstNonEmpty(os.Getenv("BIKESHARE_DATA_DIR"), os.Getenv("DATA_DIR"), ".")
	if fi, err := os.Stat(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("invalid BIKESHARE_DATA_DIR: %v", err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("invalid BIKESHARE_DATA_DIR: %q is not a directory", cfg.DataDir)
	}

	// Optional YAML city catalog; empty means the bundled three cities.
	cfg.CitiesFile = strings.TrimSpace(os.Getenv("BIKESHARE_CITIES_FILE"))

	// Optional SQL trip source instead of CSV files
	cfg.TripsDatabaseURL = firstNonEmpty(os.Getenv("TRIPS_DATABASE_URL"), os.Getenv("DATABASE_URL"))
	cfg.TripsDBDriver = strings.ToLower(getenvDefault("TRIPS_DB_DRIVER", "pgx"))
	switch cfg.TripsDBDriver {
	case "pgx", "sqlite":
	case "postgres", "postgresql":
		cfg.TripsDBDriver = "pgx"
	default:
		return nil, fmt.Errorf("invalid TRIPS_DB_DRIVER: %q (want pgx or sqlite)", cfg.TripsDBDriver)
	}
	cfg.TripsTable = strings.TrimSpace(os.Getenv("TRIPS_TABLE"))

	// Report publishing is disabled unless NATS_URL is set.
	cfg.NATSURL = strings.TrimSpace(os.Getenv("NATS_URL"))
	cfg.NATSSubjectPrefix = strings.Trim(getenvDefault("NATS_SUBJECT_PREFIX", "bikeshare.reports"), ". ")
	if cfg.NATSSubjectPrefix == "" || strings.ContainsAny(cfg.NATSSubjectPrefix, " *>") {
		return nil, fmt.Errorf("invalid NATS_SUBJECT_PREFIX: %q", os.Getenv("NATS_SUBJECT_PREFIX"))
	}

	// Debug logging for NATS publish subjects
	if v := os.Getenv("LOG_NATS_SUBJECTS"); v != "" {
		cfg.LogNATSSubjects = parseBool(v)
	}

	// Metrics listen address (e.g., ":9102"). Empty disables the metrics server.
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	return cfg, nil
}

// UseDatabase reports whether trips should be read from SQL.
func (c *Config) UseDatabase() bool { return c.TripsDatabaseURL != "" }

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
