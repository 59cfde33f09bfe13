package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"yamdb/internal/metrics"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Signup(metrics.OutcomeCreated)
	m.Signup(metrics.OutcomeCreated)
	m.TokenExchange(metrics.OutcomeRejected)

	n, err := testutil.GatherAndCount(reg, "yamdb_signups_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = testutil.GatherAndCount(reg, "yamdb_token_exchanges_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Signup(metrics.OutcomeFailed)
		m.TokenExchange(metrics.OutcomeIssued)
	})
}
