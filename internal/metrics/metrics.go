// Package metrics defines the prometheus collectors of the library service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for domain counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	borrows         *prometheus.CounterVec
	returns         prometheus.Counter
	otps            *prometheus.CounterVec
	logins          *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "library",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "library",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		borrows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "library",
			Name:      "borrow_attempts_total",
			Help:      "Borrow attempts by outcome.",
		}, []string{"outcome"}),
		returns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "library",
			Name:      "books_returned_total",
			Help:      "Loans marked as returned.",
		}),
		otps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "library",
			Name:      "otp_dispatch_total",
			Help:      "OTP dispatches by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "library",
			Name:      "logins_total",
			Help:      "Login attempts by user type and outcome.",
		}, []string{"user_type", "outcome"}),
	}

	reg.MustRegister(m.requests, m.requestDuration, m.borrows, m.returns, m.otps, m.logins)
	return m
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveBorrow counts a borrow attempt.
func (m *Metrics) ObserveBorrow(outcome string) {
	if m == nil {
		return
	}
	m.borrows.WithLabelValues(outcome).Inc()
}

// ObserveReturn counts a loan marked as returned.
func (m *Metrics) ObserveReturn() {
	if m == nil {
		return
	}
	m.returns.Inc()
}

// ObserveOTP counts an OTP dispatch.
func (m *Metrics) ObserveOTP(outcome string) {
	if m == nil {
		return
	}
	m.otps.WithLabelValues(outcome).Inc()
}

// ObserveLogin counts a login attempt.
func (m *Metrics) ObserveLogin(userType, outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(userType, outcome).Inc()
}
