package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry(), nil)

	m.SessionEvent("started")
	m.SessionEvent("started")
	m.SessionEvent("completed")
	m.SubmissionDone("ok", 20*time.Millisecond)
	m.NotificationDone("fail")
	m.Updates.WithLabelValues("message").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessions.WithLabelValues("started")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessions.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Updates.WithLabelValues("message")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestActiveSessionsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	active := 3
	New(reg, func() int { return active })

	expected := `
# HELP applybot_active_sessions Sessions currently in progress
# TYPE applybot_active_sessions gauge
applybot_active_sessions 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "applybot_active_sessions"))
}

func TestServerExposesMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry(), nil)
	m.SessionEvent("cancelled")

	srv := NewServer("127.0.0.1:0", "/metrics", m.Handler())
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `applybot_sessions_total{outcome="cancelled"} 1`)
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := NewServer("127.0.0.1:0", "/metrics", http.NotFoundHandler())
	assert.NoError(t, srv.Shutdown(context.Background()))
	assert.Empty(t, srv.Addr())
}
