package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PlaybackCollector exposes mission-clock playback metrics.
type PlaybackCollector struct {
	gatherer prometheus.Gatherer

	TickDuration prometheus.Histogram
	TicksTotal   prometheus.Counter
	MissionTime  prometheus.Gauge
	PlaybackRate prometheus.Gauge
}

// NewPlaybackCollector registers playback metrics against the provided registerer.
func NewPlaybackCollector(reg prometheus.Registerer) (*PlaybackCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	tickHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "playback_tick_duration_seconds",
		Help:    "Duration of per-tick listener fan-out on the mission clock.",
		Buckets: []float64{1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 1e-2, 5e-2, 0.1},
	})
	tickHistogram, err := registerHistogram(reg, tickHistogram, "playback_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_ticks_total",
		Help: "Cumulative number of mission clock ticks.",
	})
	ticks, err = registerCounter(reg, ticks, "playback_ticks_total")
	if err != nil {
		return nil, err
	}

	missionTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "playback_mission_time_mjd",
		Help: "Current mission time as a Modified Julian Date.",
	})
	missionTime, err = registerGauge(reg, missionTime, "playback_mission_time_mjd")
	if err != nil {
		return nil, err
	}

	rate := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "playback_rate",
		Help: "Configured playback rate in mission seconds per wall-clock second.",
	})
	rate, err = registerGauge(reg, rate, "playback_rate")
	if err != nil {
		return nil, err
	}

	return &PlaybackCollector{
		gatherer:     gatherer,
		TickDuration: tickHistogram,
		TicksTotal:   ticks,
		MissionTime:  missionTime,
		PlaybackRate: rate,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *PlaybackCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveTick records one mission clock tick: its fan-out duration and the
// mission time it advanced to.
func (c *PlaybackCollector) ObserveTick(missionTimeMJD float64, d time.Duration) {
	if c == nil {
		return
	}
	if c.TickDuration != nil {
		c.TickDuration.Observe(d.Seconds())
	}
	if c.TicksTotal != nil {
		c.TicksTotal.Inc()
	}
	if c.MissionTime != nil {
		c.MissionTime.Set(missionTimeMJD)
	}
}

// SetPlaybackRate records the configured playback rate.
func (c *PlaybackCollector) SetPlaybackRate(rate float64) {
	if c == nil || c.PlaybackRate == nil {
		return
	}
	c.PlaybackRate.Set(rate)
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
