package ambient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors an Engine reports to. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Frames          prometheus.Counter
	Scheduled       prometheus.Gauge
	CallbackPanics  prometheus.Counter
	LiveParticles   prometheus.Gauge
	BurstsSpawned   prometheus.Counter
	Agents          prometheus.Gauge
	Rebinds         prometheus.Counter
	TweensStarted   prometheus.Counter
	TweensCompleted prometheus.Counter
	TweensCancelled prometheus.Counter
	Reveals         prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.NewRegistry())
}

// NewMetricsWith registers the collectors on reg.
func NewMetricsWith(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Frames: f.NewCounter(prometheus.CounterOpts{
			Name: "ambient_frames_total",
			Help: "Frames ticked by the scheduler",
		}),
		Scheduled: f.NewGauge(prometheus.GaugeOpts{
			Name: "ambient_scheduled_callbacks",
			Help: "Frame callbacks currently scheduled",
		}),
		CallbackPanics: f.NewCounter(prometheus.CounterOpts{
			Name: "ambient_callback_panics_total",
			Help: "Frame callbacks unscheduled after a panic",
		}),
		LiveParticles: f.NewGauge(prometheus.GaugeOpts{
			Name: "ambient_live_particles",
			Help: "Particles alive across all bursts",
		}),
		BurstsSpawned: f.NewCounter(prometheus.CounterOpts{
			Name: "ambient_bursts_spawned_total",
			Help: "Particle bursts spawned",
		}),
		Agents: f.NewGauge(prometheus.GaugeOpts{
			Name: "ambient_agents",
			Help: "Agents travelling the network",
		}),
		Rebinds: f.NewCounter(prometheus.CounterOpts{
			Name: "ambient_agent_rebinds_total",
			Help: "Agents that finished an edge and rebound to a new one",
		}),
		TweensStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "ambient_tweens_started_total",
			Help: "Tweens started",
		}),
		TweensCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "ambient_tweens_completed_total",
			Help: "Tweens that fired their completion callback",
		}),
		TweensCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "ambient_tweens_cancelled_total",
			Help: "Tweens cancelled before completion",
		}),
		Reveals: f.NewCounter(prometheus.CounterOpts{
			Name: "ambient_reveals_total",
			Help: "Elements revealed by the scroll observer",
		}),
		registry: reg,
	}
}

// Registry returns the registry the collectors live on, for serving.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) frameTicked() {
	if m != nil {
		m.Frames.Inc()
	}
}

func (m *Metrics) setScheduled(n int) {
	if m != nil {
		m.Scheduled.Set(float64(n))
	}
}

func (m *Metrics) callbackPanicked() {
	if m != nil {
		m.CallbackPanics.Inc()
	}
}

func (m *Metrics) setLiveParticles(n int) {
	if m != nil {
		m.LiveParticles.Set(float64(n))
	}
}

func (m *Metrics) burstSpawned() {
	if m != nil {
		m.BurstsSpawned.Inc()
	}
}

func (m *Metrics) setAgents(n int) {
	if m != nil {
		m.Agents.Set(float64(n))
	}
}

func (m *Metrics) agentsRebound(n int) {
	if m != nil && n > 0 {
		m.Rebinds.Add(float64(n))
	}
}

func (m *Metrics) tweenStarted() {
	if m != nil {
		m.TweensStarted.Inc()
	}
}

func (m *Metrics) tweenCompleted() {
	if m != nil {
		m.TweensCompleted.Inc()
	}
}

func (m *Metrics) tweenCancelled() {
	if m != nil {
		m.TweensCancelled.Inc()
	}
}

func (m *Metrics) revealed() {
	if m != nil {
		m.Reveals.Inc()
	}
}
