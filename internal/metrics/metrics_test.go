package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSignup(OutcomeSuccess)
	c.RecordSignup(OutcomeConflict)
	c.RecordSignup(OutcomeConflict)
	c.RecordSignIn("credentials", OutcomeRejected)
	c.RecordNotification("log", true)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.signups.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.signups.WithLabelValues(OutcomeConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.signIns.WithLabelValues("credentials", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.notifications.WithLabelValues("log", "true")))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordGateDecision("redirect")
	c.RecordHTTPRequest("/auth/signup", http.MethodPost, http.StatusCreated, 15*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "tmm_gate_decisions_total"))
	assert.True(t, strings.Contains(string(body), `tmm_http_requests_total{method="POST",route="/auth/signup",status_code="201"} 1`))
}
