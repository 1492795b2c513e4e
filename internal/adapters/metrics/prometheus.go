// Package metrics records correlation activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "telebus"

// Prometheus implements ports.Metrics.
type Prometheus struct {
	calls     *prometheus.CounterVec
	completed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	discarded *prometheus.CounterVec
	signals   *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	pending   *prometheus.GaugeVec
}

// NewPrometheus creates the collectors and registers them with reg. A nil
// reg means prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "calls",
				Name:      "started_total",
				Help:      "Operations accepted and sent to the daemon.",
			},
			[]string{"op"},
		),
		completed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "calls",
				Name:      "completed_total",
				Help:      "Operations whose callback ran.",
			},
			[]string{"op", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "calls",
				Name:      "duration_seconds",
				Help:      "Time from issue to callback return.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op", "status"},
		),
		discarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "calls",
				Name:      "discarded_total",
				Help:      "Replies and signals that arrived for a correlation that no longer exists.",
			},
			[]string{"op"},
		),
		signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "signals",
				Name:      "delivered_total",
				Help:      "Signals dispatched to watch callbacks.",
			},
			[]string{"op", "status"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "calls",
				Name:      "rejected_total",
				Help:      "Operations refused before anything was sent.",
			},
			[]string{"op", "reason"},
		),
		pending: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pending",
				Help:      "Current number of in-flight calls and active watches.",
			},
			[]string{"kind"},
		),
	}
	for _, c := range []prometheus.Collector{p.calls, p.completed, p.duration, p.discarded, p.signals, p.rejected, p.pending} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) CallStarted(op string) {
	p.calls.WithLabelValues(op).Inc()
}

func (p *Prometheus) CallCompleted(op, status string, elapsed time.Duration) {
	p.completed.WithLabelValues(op, status).Inc()
	p.duration.WithLabelValues(op, status).Observe(elapsed.Seconds())
}

func (p *Prometheus) Discarded(op string) {
	p.discarded.WithLabelValues(op).Inc()
}

func (p *Prometheus) SignalDelivered(op, status string) {
	p.signals.WithLabelValues(op, status).Inc()
}

func (p *Prometheus) Rejected(op, reason string) {
	p.rejected.WithLabelValues(op, reason).Inc()
}

func (p *Prometheus) Pending(calls, watches int) {
	p.pending.WithLabelValues("calls").Set(float64(calls))
	p.pending.WithLabelValues("watches").Set(float64(watches))
}
