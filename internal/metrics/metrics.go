// Package metrics records session controller activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	sends         *prometheus.CounterVec
	askDuration   prometheus.Histogram
	saves         *prometheus.CounterVec
	savesDropped  prometheus.Counter
	loads         *prometheus.CounterVec
	activations   *prometheus.CounterVec
	conversations prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "sends_total",
			Help:      "Completed message exchanges by outcome.",
		}, []string{"outcome"}),
		askDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parley",
			Name:      "ask_duration_seconds",
			Help:      "Latency of assistant Ask calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "saves_total",
			Help:      "Best-effort message persistence calls by outcome.",
		}, []string{"outcome"}),
		savesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "saves_dropped_total",
			Help:      "Messages not persisted because the save queue was full or closed.",
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "loads_total",
			Help:      "Bulk fetches by kind (history, conversations) and outcome.",
		}, []string{"kind", "outcome"}),
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "activations_total",
			Help:      "Session gate activations by resulting state.",
		}, []string{"state"}),
		conversations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "parley",
			Name:      "conversations",
			Help:      "Number of conversations currently loaded.",
		}),
	}
	reg.MustRegister(m.sends, m.askDuration, m.saves, m.savesDropped, m.loads, m.activations, m.conversations)
	return m
}

// ObserveSend records one finished exchange.
func (m *Metrics) ObserveSend(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(outcome).Inc()
	m.askDuration.Observe(elapsed.Seconds())
}

// ObserveSave records one persistence attempt.
func (m *Metrics) ObserveSave(outcome string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(outcome).Inc()
}

// SaveDropped records a message that never reached the service.
func (m *Metrics) SaveDropped() {
	if m == nil {
		return
	}
	m.savesDropped.Inc()
}

// ObserveLoad records a bulk fetch.
func (m *Metrics) ObserveLoad(kind, outcome string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(kind, outcome).Inc()
}

// ObserveActivation records the state an activation ended in.
func (m *Metrics) ObserveActivation(state string) {
	if m == nil {
		return
	}
	m.activations.WithLabelValues(state).Inc()
}

// SetConversations sets the loaded conversation count.
func (m *Metrics) SetConversations(n int) {
	if m == nil {
		return
	}
	m.conversations.Set(float64(n))
}
