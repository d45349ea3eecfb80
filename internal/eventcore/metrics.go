package eventcore

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the prometheus-backed metricsRecorder implementation, the
// domain-stack replacement for the teacher's hand-rolled atomic-counter
// dispatcher.Metrics: dispatch counts, failures and queue depth exported
// as standard collectors instead of a bespoke snapshot type.
type Metrics struct {
	dispatches *prometheus.CounterVec
	failures   *prometheus.CounterVec
	handlers   *prometheus.HistogramVec
	queueDepth prometheus.Gauge
}

// NewMetrics registers a fresh set of collectors on reg. Pass
// prometheus.DefaultRegisterer to export on the standard /metrics
// endpoint, or a private prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventcore",
			Name:      "dispatches_total",
			Help:      "Number of Send calls completed, by channel.",
		}, []string{"channel"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventcore",
			Name:      "dispatch_failures_total",
			Help:      "Number of Send calls where at least one handler failed, by channel.",
		}, []string{"channel"}),
		handlers: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eventcore",
			Name:      "dispatch_handler_count",
			Help:      "Number of handlers matched by address resolution per Send call, by channel.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}, []string{"channel"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eventcore",
			Name:      "queue_depth",
			Help:      "Number of events pending in the root manager's queue after the last push.",
		}),
	}
	reg.MustRegister(m.dispatches, m.failures, m.handlers, m.queueDepth)
	return m
}

// ObserveDispatch implements metricsRecorder.
func (m *Metrics) ObserveDispatch(channel string, handlerCount int, failed bool) {
	m.dispatches.WithLabelValues(channel).Inc()
	m.handlers.WithLabelValues(channel).Observe(float64(handlerCount))
	if failed {
		m.failures.WithLabelValues(channel).Inc()
	}
}

// ObserveQueueDepth implements metricsRecorder.
func (m *Metrics) ObserveQueueDepth(depth int) {
	m.queueDepth.Set(float64(depth))
}
