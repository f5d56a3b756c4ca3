// Package metrics exposes the engine's Prometheus counters. They are
// created once at startup and passed down explicitly; nothing here uses
// the default registry's global state beyond Register itself.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups every counter the engine increments while driving
// backend connections.
type Metrics struct {
	RepliesCompleted *prometheus.CounterVec
	RowsRead         prometheus.Counter
	AuthFailures     *prometheus.CounterVec
	ChangeUserCycles *prometheus.CounterVec
}

// New builds a fresh Metrics set without registering it.
func New(namespace string) *Metrics {
	return &Metrics{
		RepliesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_completed_total",
			Help:      "Replies that reached the Done state, by submitted command.",
		}, []string{"command"}),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Row packets observed across all result sets.",
		}),
		AuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Backend authentication failures, by reason.",
		}, []string{"reason"}),
		ChangeUserCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_user_cycles_total",
			Help:      "Connection-reuse COM_CHANGE_USER cycles, by outcome.",
		}, []string{"outcome"}),
	}
}

// MustRegister registers every collector in m against reg.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.RepliesCompleted, m.RowsRead, m.AuthFailures, m.ChangeUserCycles)
}
