package wireline

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector observes engine-level counters (spec.md §9 Open
// Question: metrics are optional, diagnostic-only, never in the
// protocol). Grounded on arloliu-parti's internal/metrics.MetricsCollector
// shape, trimmed to the handful of counters relevant to a broker client.
type MetricsCollector interface {
	ReconnectAttempt(endpoint string)
	ReconnectSucceeded(endpoint string)
	MessagePublished(subject string)
	MessageDelivered(subject string)
	QueueDepthObserved(depth int)
}

// NopMetrics discards every observation. The client's default.
type NopMetrics struct{}

func (NopMetrics) ReconnectAttempt(endpoint string)   {}
func (NopMetrics) ReconnectSucceeded(endpoint string) {}
func (NopMetrics) MessagePublished(subject string)    {}
func (NopMetrics) MessageDelivered(subject string)    {}
func (NopMetrics) QueueDepthObserved(depth int)       {}

// PrometheusMetrics registers a small set of counters/gauges with a
// prometheus.Registerer. Grounded on arloliu-parti's PrometheusCollector,
// including its sync.Once-guarded registration; here the registration
// runs inside NewPrometheusMetrics itself, not on first use.
type PrometheusMetrics struct {
	once sync.Once

	reconnectAttempts  *prometheus.CounterVec
	reconnectSuccesses *prometheus.CounterVec
	messagesPublished  *prometheus.CounterVec
	messagesDelivered  *prometheus.CounterVec
	queueDepth         prometheus.Gauge
}

// NewPrometheusMetrics registers its collectors with registerer and
// returns a ready-to-use MetricsCollector.
func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{}
	m.once.Do(func() {
		m.reconnectAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wireline_reconnect_attempts_total",
			Help: "Number of reconnect attempts per endpoint.",
		}, []string{"endpoint"})
		m.reconnectSuccesses = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wireline_reconnect_successes_total",
			Help: "Number of successful reconnects per endpoint.",
		}, []string{"endpoint"})
		m.messagesPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wireline_messages_published_total",
			Help: "Number of messages published per subject.",
		}, []string{"subject"})
		m.messagesDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wireline_messages_delivered_total",
			Help: "Number of messages delivered to subscription handlers per subject.",
		}, []string{"subject"})
		m.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wireline_outbound_queue_depth",
			Help: "Current depth of the outbound publish queue.",
		})
		registerer.MustRegister(
			m.reconnectAttempts,
			m.reconnectSuccesses,
			m.messagesPublished,
			m.messagesDelivered,
			m.queueDepth,
		)
	})
	return m
}

func (m *PrometheusMetrics) ReconnectAttempt(endpoint string) {
	m.reconnectAttempts.WithLabelValues(endpoint).Inc()
}

func (m *PrometheusMetrics) ReconnectSucceeded(endpoint string) {
	m.reconnectSuccesses.WithLabelValues(endpoint).Inc()
}

func (m *PrometheusMetrics) MessagePublished(subject string) {
	m.messagesPublished.WithLabelValues(subject).Inc()
}

func (m *PrometheusMetrics) MessageDelivered(subject string) {
	m.messagesDelivered.WithLabelValues(subject).Inc()
}

func (m *PrometheusMetrics) QueueDepthObserved(depth int) {
	m.queueDepth.Set(float64(depth))
}
