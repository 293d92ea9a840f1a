// Package metrics exposes Prometheus counters for the application flow.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3rciful/applybot/internal/questionnaire"
	"github.com/m3rciful/applybot/internal/submission"
)

const namespace = "applybot"

// Metrics holds every collector of the bot. It satisfies questionnaire.Observer
// and submission.Recorder.
type Metrics struct {
	reg *prometheus.Registry

	// Updates counts incoming telegram updates by kind.
	Updates *prometheus.CounterVec

	sessions      *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	duration      prometheus.Histogram
}

var (
	_ questionnaire.Observer = (*Metrics)(nil)
	_ submission.Recorder    = (*Metrics)(nil)
)

// New registers the collectors on reg. active, when not nil, backs the
// active sessions gauge.
func New(reg *prometheus.Registry, active func() int) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	m := &Metrics{
		reg: reg,
		Updates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Telegram updates received, by kind",
		}, []string{"kind"}),
		sessions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Questionnaire session outcomes",
		}, []string{"outcome"}),
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Applications persisted, by result",
		}, []string{"result"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Channel summaries posted, by result",
		}, []string{"result"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time spent persisting an application",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if active != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently in progress",
		}, func() float64 { return float64(active()) })
	}
	return m
}

// SessionEvent counts a session outcome.
func (m *Metrics) SessionEvent(outcome string) {
	m.sessions.WithLabelValues(outcome).Inc()
}

// SubmissionDone counts a persistence attempt and observes its duration.
func (m *Metrics) SubmissionDone(result string, took time.Duration) {
	m.submissions.WithLabelValues(result).Inc()
	m.duration.Observe(took.Seconds())
}

// NotificationDone counts a broadcast attempt.
func (m *Metrics) NotificationDone(result string) {
	m.notifications.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
