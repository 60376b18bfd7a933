package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "depwatch"
const subsystem = "scheduler"

type metrics struct {
	jobsQueued    prometheus.Counter
	jobsRun       prometheus.Counter
	flushes       prometheus.Counter
	circulars     prometheus.Counter
	flushDuration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		jobsQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_queued_total",
			Help:      "Jobs accepted into the queue.",
		}),
		jobsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_run_total",
			Help:      "Jobs run by flushes.",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "flushes_total",
			Help:      "Completed flushes.",
		}),
		circulars: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "circular_updates_total",
			Help:      "Flushes aborted by a job re-queueing itself too often.",
		}),
		flushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "flush_duration_seconds",
			Help:      "Time spent running one flush.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.jobsQueued, m.jobsRun, m.flushes, m.circulars, m.flushDuration)
	}
	return m
}

func (m *metrics) queued() {
	if m != nil {
		m.jobsQueued.Inc()
	}
}

func (m *metrics) ran() {
	if m != nil {
		m.jobsRun.Inc()
	}
}

func (m *metrics) circular() {
	if m != nil {
		m.circulars.Inc()
	}
}

func (m *metrics) flushed(d time.Duration) {
	if m != nil {
		m.flushes.Inc()
		m.flushDuration.Observe(d.Seconds())
	}
}
