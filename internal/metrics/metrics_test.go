package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncValidation("success")
		m.IncSubscriptionRequest("mother")
		m.ObserveCall("sbm", "lookup_messageset", time.Millisecond)
		m.IncCallError("sbm", "timeout")
		m.IncTask("success")
		m.TaskStarted()()
	})
}

func TestCounters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.IncValidation("success")
	m.IncValidation("success")
	m.IncValidation("failure")
	m.IncSubscriptionRequest("household")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationOutcome.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationOutcome.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubscriptionRequests.WithLabelValues("household")))

	done := m.TaskStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TasksInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TasksInFlight))
}
