// Package metrics exports timeline request outcomes as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splice"

// Recorder counts timeline requests by operation and outcome, times them, and
// counts the rollbacks performed when a multi-step request fails partway.
type Recorder struct {
	Requests  *prometheus.CounterVec
	Durations *prometheus.HistogramVec
	Rollbacks *prometheus.CounterVec
}

// NewRecorder builds a recorder and registers it with reg. A nil reg leaves
// the collectors unregistered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "requests_total",
			Help:      "Timeline requests by operation and result.",
		}, []string{"op", "result"}),
		Durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "request_duration_seconds",
			Help:      "Time spent holding the timeline lock per request.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op"}),
		Rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "rollbacks_total",
			Help:      "Requests reverted after a failed step.",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(r.Requests, r.Durations, r.Rollbacks)
	}
	return r
}

// Observe records the outcome of one request
func (r *Recorder) Observe(op string, success bool, duration time.Duration) {
	if op == "" {
		return
	}
	result := "error"
	if success {
		result = "success"
	}
	r.Requests.WithLabelValues(op, result).Inc()
	r.Durations.WithLabelValues(op).Observe(duration.Seconds())
}

// Rollback records that op reverted its partial work
func (r *Recorder) Rollback(op string) {
	r.Rollbacks.WithLabelValues(op).Inc()
}
