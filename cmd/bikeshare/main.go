package main

import (
	"context"
	"log"
	"os"
	"time"

	"bikeshare/internal/catalog"
	"bikeshare/internal/config"
	"bikeshare/internal/db"
	"bikeshare/internal/metrics"
	"bikeshare/internal/prompt"
	"bikeshare/internal/publisher"
	"bikeshare/internal/session"
	"bikeshare/internal/trips"
)

func main() {
	initLogging()

	// Load configuration from .env and environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	cities, err := catalog.Load(cfg.CitiesFile)
	if err != nil {
		log.Fatalf("city catalog error: %v", err)
	}

	// No signal context: Ctrl-C must still interrupt a blocked stdin read.
	ctx := context.Background()

	var (
		source     trips.Source
		sourceName = "csv"
	)
	if cfg.UseDatabase() {
		sqlDB, err := db.Open(cfg.TripsDBDriver, cfg.TripsDatabaseURL)
		if err != nil {
			log.Fatalf("db open error: %v", err)
		}
		defer sqlDB.Close()
		if err := db.Ping(ctx, sqlDB); err != nil {
			log.Fatalf("db ping error: %v", err)
		}
		source = db.NewSource(sqlDB, cfg.TripsDBDriver, cfg.TripsTable)
		sourceName = cfg.TripsDBDriver
		log.Printf("reading trips from %s database", cfg.TripsDBDriver)
	} else {
		source = trips.NewCSVSource(cfg.DataDir)
		log.Printf("reading trips from %s", cfg.DataDir)
	}

	// Metrics setup
	var mcol *metrics.Collector
	if cfg.MetricsAddr != "" {
		mcol = metrics.NewCollector(sourceName)
		srv := mcol.Serve(cfg.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		source = &instrumentedSource{Source: source, name: sourceName, m: mcol}
	}

	// Report publishing; a nil *NATSPublisher must not reach the session.
	var pub session.Publisher
	if cfg.NATSURL != "" {
		np, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, cfg.LogNATSSubjects, wrapPublisherMetrics(mcol))
		if err != nil {
			log.Fatalf("nats error: %v", err)
		}
		defer np.Close()
		pub = np
	}

	p := prompt.New(os.Stdin, os.Stdout, cities)
	s := session.New(p, trips.NewLoader(cities, source), os.Stdout, pub, mcol)
	if err := s.Run(ctx); err != nil {
		log.Fatalf("session error: %v", err)
	}
}

// initLogging keeps log output on stderr, away from the interactive prompts.
func initLogging() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

// instrumentedSource counts loads and raw rows before filtering.
type instrumentedSource struct {
	trips.Source
	name string
	m    *metrics.Collector
}

func (s *instrumentedSource) Fetch(ctx context.Context, city catalog.City) (*trips.Table, error) {
	s.m.Loads.WithLabelValues(city.Name, s.name).Inc()
	tbl, err := s.Source.Fetch(ctx, city)
	if err != nil {
		s.m.LoadErrors.Inc()
		return nil, err
	}
	s.m.RowsLoaded.Add(float64(tbl.Len()))
	return tbl, nil
}

// wrapPublisherMetrics adapts our Collector to the PublisherMetrics interface.
func wrapPublisherMetrics(c *metrics.Collector) publisher.PublisherMetrics {
	if c == nil {
		return nil
	}
	return &pubMetrics{c: c}
}

type pubMetrics struct{ c *metrics.Collector }

func (p *pubMetrics) NATSPublishedInc()              { p.c.NATSPublished.Inc() }
func (p *pubMetrics) NATSPublishErrInc()             { p.c.NATSPublishErrs.Inc() }
func (p *pubMetrics) PublishObserve(d time.Duration) { p.c.PublishDuration.Observe(d.Seconds()) }
func (p *pubMetrics) NATSSetConnected(b bool) {
	if b {
		p.c.NATSConnected.Set(1)
	} else {
		p.c.NATSConnected.Set(0)
	}
}
