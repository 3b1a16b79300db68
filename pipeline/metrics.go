package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/severn/core"
)

const outcomeSuccess = "success"

// Metrics holds the Prometheus collectors updated by pipeline runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	agentCalls   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

// NewMetrics creates the pipeline collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "severn",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
		agentCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "severn",
			Name:      "agent_calls_total",
			Help:      "Backend calls made on behalf of an agent by outcome.",
		}, []string{"agent", "outcome"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "severn",
			Name:      "agent_call_duration_seconds",
			Help:      "Latency of backend calls made on behalf of an agent.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"agent"}),
	}

	if reg != nil {
		reg.MustRegister(m.runs, m.agentCalls, m.callDuration)
	}

	return m
}

func outcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	return core.KindOf(err).String()
}

func (m *Metrics) observeRun(mode string, err error) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(mode, outcome(err)).Inc()
}

func (m *Metrics) observeAgentCall(agent string, dur time.Duration, err error) {
	if m == nil {
		return
	}
	m.agentCalls.WithLabelValues(agent, outcome(err)).Inc()
	m.callDuration.WithLabelValues(agent).Observe(dur.Seconds())
}
