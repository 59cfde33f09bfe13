// Package metrics holds the Prometheus collectors of the auth flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeCreated  = "created"
	OutcomeReissued = "reissued"
	OutcomeIssued   = "issued"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics groups the counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	signups        *prometheus.CounterVec
	tokenExchanges *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yamdb",
			Name:      "signups_total",
			Help:      "Signup requests by outcome.",
		}, []string{"outcome"}),
		tokenExchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yamdb",
			Name:      "token_exchanges_total",
			Help:      "Confirmation code exchanges by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.signups, m.tokenExchanges)
	return m
}

// Signup counts one signup attempt.
func (m *Metrics) Signup(outcome string) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(outcome).Inc()
}

// TokenExchange counts one token exchange attempt.
func (m *Metrics) TokenExchange(outcome string) {
	if m == nil {
		return
	}
	m.tokenExchanges.WithLabelValues(outcome).Inc()
}
