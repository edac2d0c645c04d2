// Package metrics exposes Prometheus collectors for the auth gate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gate counts auth gate decisions per outcome.
type Gate struct {
	decisions *prometheus.CounterVec
	rotations prometheus.Counter
}

// NewGate registers the gate collectors on reg.
func NewGate(reg prometheus.Registerer) *Gate {
	f := promauto.With(reg)
	return &Gate{
		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Subsystem: "auth_gate",
			Name:      "decisions_total",
			Help:      "Auth gate decisions by outcome.",
		}, []string{"outcome"}),
		rotations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "blog",
			Subsystem: "auth_gate",
			Name:      "access_rotations_total",
			Help:      "Access tokens reissued from a valid refresh token.",
		}),
	}
}

// Observe records one decision. A nil *Gate is a no-op.
func (g *Gate) Observe(outcome string) {
	if g == nil {
		return
	}
	g.decisions.WithLabelValues(outcome).Inc()
}

// Rotated records one access token rotation.
func (g *Gate) Rotated() {
	if g == nil {
		return
	}
	g.rotations.Inc()
}
