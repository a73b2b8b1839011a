package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	Iterations   prometheus.Counter
	Selections   *prometheus.CounterVec // city label
	EmptyResults prometheus.Counter

	Loads        *prometheus.CounterVec // city, source labels
	LoadErrors   prometheus.Counter
	RowsLoaded   prometheus.Counter
	RowsSelected prometheus.Counter
	LoadDuration prometheus.Histogram

	ReportDuration *prometheus.HistogramVec // reporter label: time|station|duration|user

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
	PublishDuration prometheus.Histogram

	SourceInfo *prometheus.GaugeVec // source label: csv|pgx|sqlite
}

func NewCollector(source string) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikeshare_iterations_total",
			Help: "Total explore iterations started.",
		}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_selections_total",
			Help: "Completed filter selections by city.",
		}, []string{"city"}),
		EmptyResults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikeshare_empty_results_total",
			Help: "Selections that matched no trips.",
		}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_loads_total",
			Help: "Dataset loads by city and source.",
		}, []string{"city", "source"}),
		LoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikeshare_load_errors_total",
			Help: "Dataset loads that failed.",
		}),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikeshare_rows_loaded_total",
			Help: "Trips read from the source before filtering.",
		}),
		RowsSelected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikeshare_rows_selected_total",
			Help: "Trips remaining after month/day filtering.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bikeshare_load_duration_seconds",
			Help:    "Duration of loading and filtering a dataset.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 15),
		}),
		ReportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeshare_report_duration_seconds",
			Help:    "Duration of each statistics reporter.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}, []string{"reporter"}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikeshare_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikeshare_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bikeshare_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bikeshare_publish_duration_seconds",
			Help:    "Duration to marshal and publish a summary.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		SourceInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bikeshare_source_info",
			Help: "Trip source in use; the value is always 1.",
		}, []string{"source"}),
	}

	reg.MustRegister(
		c.Iterations, c.Selections, c.EmptyResults,
		c.Loads, c.LoadErrors, c.RowsLoaded, c.RowsSelected, c.LoadDuration,
		c.ReportDuration,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected, c.PublishDuration,
		c.SourceInfo,
	)

	c.SourceInfo.WithLabelValues(source).Set(1)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
