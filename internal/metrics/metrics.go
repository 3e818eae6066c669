// Package metrics collects Prometheus metrics for inbound requests and
// outbound auction API calls.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the API client and the router report into
type Recorder interface {
	RecordUpstreamCall(endpoint string, statusCode int, duration time.Duration)
	RecordUpstreamFailure(endpoint string)
	RecordRequest(route, method string, statusCode int, duration time.Duration)
}

// Collector is the Prometheus implementation of Recorder
type Collector struct {
	upstreamCalls    *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	requests         *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers it on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studiobid_upstream_calls_total",
			Help: "Auction API calls by endpoint and status code",
		}, []string{"endpoint", "status_code"}),
		upstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studiobid_upstream_failures_total",
			Help: "Auction API calls that failed before a response arrived",
		}, []string{"endpoint"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studiobid_upstream_latency_seconds",
			Help:    "Auction API call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studiobid_http_requests_total",
			Help: "Inbound HTTP requests by route, method and status code",
		}, []string{"route", "method", "status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studiobid_http_request_latency_seconds",
			Help:    "Inbound HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.upstreamCalls,
		c.upstreamFailures,
		c.upstreamLatency,
		c.requests,
		c.requestLatency,
	)

	return c
}

// RecordUpstreamCall records a completed auction API call
func (c *Collector) RecordUpstreamCall(endpoint string, statusCode int, duration time.Duration) {
	c.upstreamCalls.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.upstreamLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordUpstreamFailure records a call that never got a response
func (c *Collector) RecordUpstreamFailure(endpoint string) {
	c.upstreamFailures.WithLabelValues(endpoint).Inc()
}

// RecordRequest records an inbound request
func (c *Collector) RecordRequest(route, method string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler returns the scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordUpstreamCall(string, int, time.Duration) {}

func (Nop) RecordUpstreamFailure(string) {}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
