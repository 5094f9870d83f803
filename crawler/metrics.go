package crawler

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records one ingestion run. A run is a batch job, so the registry is
// meant to be written to a node exporter textfile at exit instead of scraped.
type Metrics struct {
	registry *prometheus.Registry

	urlsProcessed  prometheus.Counter
	urlsSkipped    prometheus.Counter
	chunksStored   prometheus.Counter
	embedDuration  prometheus.Histogram
	lastSuccessSec prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		urlsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docindex",
			Subsystem: "ingest",
			Name:      "urls_processed_total",
			Help:      "Pages fetched and extracted.",
		}),
		urlsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docindex",
			Subsystem: "ingest",
			Name:      "urls_skipped_total",
			Help:      "Pages skipped because no text could be extracted.",
		}),
		chunksStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docindex",
			Subsystem: "ingest",
			Name:      "chunks_stored_total",
			Help:      "Chunks embedded and written to the vector store.",
		}),
		embedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docindex",
			Subsystem: "ingest",
			Name:      "embed_duration_seconds",
			Help:      "Embedding request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		lastSuccessSec: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "docindex",
			Subsystem: "ingest",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that completed.",
		}),
	}
	m.registry.MustRegister(m.urlsProcessed, m.urlsSkipped, m.chunksStored, m.embedDuration, m.lastSuccessSec)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
