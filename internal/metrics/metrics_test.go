package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Provisioning("success")
	m.Provisioning("success")
	m.Provisioning("conflict")
	m.GuardDecision("redirect_login")
	m.Teardown(true)
	m.Teardown(false)
	m.Login("invalid")
	m.Request(http.MethodGet, http.StatusNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.provisioning.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.provisioning.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.guard.WithLabelValues("redirect_login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.teardown.WithLabelValues("complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.teardown.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "4xx")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Provisioning("success")
		m.GuardDecision("allow")
		m.Teardown(false)
		m.Login("success")
		m.Request(http.MethodPost, http.StatusOK)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.Provisioning("success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `ats_provisioning_total{result="success"} 1`)
}
