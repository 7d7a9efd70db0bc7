package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query kinds recorded by the engine collector.
const (
	QueryGeodetic = "geodetic"
	QueryScene    = "scene"
	QueryFrame    = "frame"
	QueryPlane    = "plane"
)

// EngineCollector bundles Prometheus metrics for the trajectory engine and
// provides a ready-to-use /metrics handler.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	Queries        *prometheus.CounterVec
	QueryDurations *prometheus.HistogramVec
	FetchFailures  *prometheus.CounterVec

	SessionObjects prometheus.Gauge
	SessionLoaded  prometheus.Gauge
	SessionFailed  prometheus.Gauge
}

// NewEngineCollector registers engine Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_queries_total",
		Help: "Total number of engine queries, labeled by kind and outcome.",
	}, []string{"kind", "outcome"})
	queries, err := registerCounterVec(reg, queries, "engine_queries_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_query_duration_seconds",
		Help:    "Engine query latency in seconds.",
		Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 1e-2},
	}, []string{"kind"})
	durations, err = registerHistogramVec(reg, durations, "engine_query_duration_seconds")
	if err != nil {
		return nil, err
	}

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trajectory_fetch_failures_total",
		Help: "Trajectory fetch failures, labeled by tracked object.",
	}, []string{"object"})
	failures, err = registerCounterVec(reg, failures, "trajectory_fetch_failures_total")
	if err != nil {
		return nil, err
	}

	objects, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "session_tracked_objects",
		Help: "Current number of tracked objects in the session.",
	}), "session_tracked_objects")
	if err != nil {
		return nil, err
	}
	loaded, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "session_trajectories_present",
		Help: "Tracked objects with a fully-present trajectory.",
	}), "session_trajectories_present")
	if err != nil {
		return nil, err
	}
	failed, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "session_trajectories_failed",
		Help: "Tracked objects whose last fetch failed with no prior trajectory.",
	}), "session_trajectories_failed")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:       gatherer,
		Queries:        queries,
		QueryDurations: durations,
		FetchFailures:  failures,
		SessionObjects: objects,
		SessionLoaded:  loaded,
		SessionFailed:  failed,
	}, nil
}

// ObserveQuery records one engine query's outcome and latency.
func (c *EngineCollector) ObserveQuery(kind string, d time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if c.Queries != nil {
		c.Queries.WithLabelValues(kind, outcome).Inc()
	}
	if c.QueryDurations != nil {
		c.QueryDurations.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// RecordFetchFailure counts a failed trajectory fetch for an object.
func (c *EngineCollector) RecordFetchFailure(objectID string) {
	if c == nil || c.FetchFailures == nil {
		return
	}
	c.FetchFailures.WithLabelValues(objectID).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetSessionCounts satisfies the session's MetricsRecorder interface so
// gauge values are driven directly from its mutators.
func (c *EngineCollector) SetSessionCounts(objects, loaded, failed int) {
	if c == nil {
		return
	}
	if c.SessionObjects != nil {
		c.SessionObjects.Set(float64(objects))
	}
	if c.SessionLoaded != nil {
		c.SessionLoaded.Set(float64(loaded))
	}
	if c.SessionFailed != nil {
		c.SessionFailed.Set(float64(failed))
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
