package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCountRequestsAndLogins(t *testing.T) {
	m := NewMetrics("test")

	m.RecordRequest("/api/users/login", "POST", 200, 12*time.Millisecond)
	m.RecordRequest("/api/users/login", "POST", 200, 8*time.Millisecond)
	m.RecordError("/api/users/login", "POST", "RATE_LIMITED")
	m.RecordLogin("failure")
	m.RecordRateLimited()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("POST", "/api/users/login", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("POST", "/api/users/login", "RATE_LIMITED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loginCount.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "NOT_FOUND")
		m.RecordLogin("success")
		m.RecordRateLimited()
	})
}
