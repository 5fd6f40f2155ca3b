// Package metrics collects and exposes Prometheus metrics for the auth flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Recorder is the metrics surface used by services and middleware.
type Recorder interface {
	RecordSignup(outcome string)
	RecordSignIn(method string, outcome string)
	RecordOnboarding(outcome string)
	RecordNotification(transport string, sent bool)
	RecordGateDecision(action string)
	RecordHTTPRequest(route string, method string, statusCode int, duration time.Duration)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	signups       *prometheus.CounterVec
	signIns       *prometheus.CounterVec
	onboardings   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	gateDecisions *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tmm_signups_total",
			Help: "Registration attempts by outcome.",
		}, []string{"outcome"}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tmm_signins_total",
			Help: "Sign-in attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		onboardings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tmm_onboardings_total",
			Help: "Profile completion attempts by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tmm_welcome_notifications_total",
			Help: "Welcome notifications by transport and result.",
		}, []string{"transport", "sent"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tmm_gate_decisions_total",
			Help: "Profile completion gate decisions by action.",
		}, []string{"action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tmm_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tmm_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(
		c.signups,
		c.signIns,
		c.onboardings,
		c.notifications,
		c.gateDecisions,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

func (c *Collector) RecordSignup(outcome string) {
	c.signups.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordSignIn(method string, outcome string) {
	c.signIns.WithLabelValues(method, outcome).Inc()
}

func (c *Collector) RecordOnboarding(outcome string) {
	c.onboardings.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordNotification(transport string, sent bool) {
	c.notifications.WithLabelValues(transport, strconv.FormatBool(sent)).Inc()
}

func (c *Collector) RecordGateDecision(action string) {
	c.gateDecisions.WithLabelValues(action).Inc()
}

func (c *Collector) RecordHTTPRequest(route string, method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every measurement.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordSignup(string)                                    {}
func (Nop) RecordSignIn(string, string)                            {}
func (Nop) RecordOnboarding(string)                                {}
func (Nop) RecordNotification(string, bool)                        {}
func (Nop) RecordGateDecision(string)                              {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
