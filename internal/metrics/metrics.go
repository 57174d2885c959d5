// Package metrics exposes build progress as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"match-analyzer/internal/dataset"
)

// Recorder holds the build metrics on its own registry
type Recorder struct {
	registry *prometheus.Registry

	outcomes      *prometheus.CounterVec
	skipReasons   *prometheus.CounterVec
	rows          prometheus.Gauge
	buildDuration prometheus.Histogram
}

// NewRecorder creates and registers the build metrics
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "earlygame",
		Name:      "match_outcomes_total",
		Help:      "Matches handled by the dataset builder, by outcome status",
	}, []string{"status"})
	r.skipReasons = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "earlygame",
		Name:      "match_skips_total",
		Help:      "Skipped matches by reason",
	}, []string{"reason"})
	r.rows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "earlygame",
		Name:      "dataset_rows",
		Help:      "Rows in the dataset after the last build",
	})
	r.buildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "earlygame",
		Name:      "build_duration_seconds",
		Help:      "Wall time of a dataset build",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	r.registry.MustRegister(r.outcomes, r.skipReasons, r.rows, r.buildDuration)

	// Pre-create every status so dashboards see zeros
	for _, s := range []dataset.Status{dataset.StatusAdded, dataset.StatusDuplicate, dataset.StatusSkipped, dataset.StatusError} {
		r.outcomes.WithLabelValues(string(s))
	}
	return r
}

// Observe counts one builder outcome. It matches dataset.WithOutcomeHook.
func (r *Recorder) Observe(o dataset.Outcome) {
	r.outcomes.WithLabelValues(string(o.Status)).Inc()
	if o.Status == dataset.StatusSkipped {
		r.skipReasons.WithLabelValues(string(o.Reason)).Inc()
	}
}

// BuildFinished records the dataset size and build wall time
func (r *Recorder) BuildFinished(rows int, elapsed time.Duration) {
	r.rows.Set(float64(rows))
	r.buildDuration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics and /healthz on addr until ctx is done
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("[Metrics] Serving on %s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
