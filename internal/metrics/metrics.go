package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service's Prometheus collectors. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	fetches      *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	cache        *prometheus.CounterVec
	sessions     prometheus.Gauge
	cacheEntries prometheus.Gauge
	predictions  prometheus.Histogram
}

// NewRecorder registers the collectors on reg. A nil registerer defaults to
// the global one; collectors already registered are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_fetches_total",
		Help: "Prediction fetches by source and status",
	}, []string{"source", "status"})
	fetchLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prediction_fetch_duration_seconds",
		Help:    "Time spent fetching predictions from the source",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_cache_lookups_total",
		Help: "Prediction cache lookups by result",
	}, []string{"result"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_sessions_active",
		Help: "Dashboard sessions currently held in memory",
	})
	cacheEntries := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prediction_cache_entries",
		Help: "Date ranges currently held in the prediction cache",
	})
	predictions := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "prediction_fetch_records",
		Help:    "Number of prediction records returned per fetch",
		Buckets: prometheus.LinearBuckets(10, 10, 8),
	})

	var err error
	if fetches, err = register(reg, fetches); err != nil {
		return nil, err
	}
	if fetchLatency, err = register(reg, fetchLatency); err != nil {
		return nil, err
	}
	if cache, err = register(reg, cache); err != nil {
		return nil, err
	}
	if sessions, err = register(reg, sessions); err != nil {
		return nil, err
	}
	if cacheEntries, err = register(reg, cacheEntries); err != nil {
		return nil, err
	}
	if predictions, err = register(reg, predictions); err != nil {
		return nil, err
	}
	return &Recorder{
		fetches:      fetches,
		fetchLatency: fetchLatency,
		cache:        cache,
		sessions:     sessions,
		cacheEntries: cacheEntries,
		predictions:  predictions,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveFetch records one call to a prediction source.
func (r *Recorder) ObserveFetch(source string, d time.Duration, records int, err error) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	r.fetches.WithLabelValues(source, status).Inc()
	r.fetchLatency.WithLabelValues(source).Observe(d.Seconds())
	if err == nil {
		r.predictions.Observe(float64(records))
	}
}

func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cache.WithLabelValues("hit").Inc()
}

func (r *Recorder) CacheMiss() {
	if r == nil {
		return
	}
	r.cache.WithLabelValues("miss").Inc()
}

func (r *Recorder) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}

func (r *Recorder) SetCacheEntries(n int) {
	if r == nil {
		return
	}
	r.cacheEntries.Set(float64(n))
}

// Handler exposes the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
