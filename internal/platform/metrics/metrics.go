// Package metrics exposes Prometheus collectors for the reference server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder is the subset used by use-cases and middleware.
type Recorder interface {
	RecordRequest(route string, status int, d time.Duration)
	RecordGeneration(outcome string, d time.Duration)
	RecordAnswerCache(hit bool)
	RecordRateLimited(route string)
}

// Collector records server metrics into a Prometheus registry.
type Collector struct {
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	generations   *prometheus.CounterVec
	genLatency    prometheus.Histogram
	answerLookups *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_generations_total",
			Help: "Itinerary generations by outcome.",
		}, []string{"outcome"}),
		genLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_generation_duration_seconds",
			Help:    "Upstream text generation latency.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		answerLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_answer_cache_lookups_total",
			Help: "Answer cache lookups by result.",
		}, []string{"result"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.generations,
		c.genLatency,
		c.answerLookups,
		c.rateLimited,
	)
	return c
}

func (c *Collector) RecordRequest(route string, status int, d time.Duration) {
	c.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(route).Observe(d.Seconds())
}

func (c *Collector) RecordGeneration(outcome string, d time.Duration) {
	c.generations.WithLabelValues(outcome).Inc()
	c.genLatency.Observe(d.Seconds())
}

func (c *Collector) RecordAnswerCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.answerLookups.WithLabelValues(result).Inc()
}

func (c *Collector) RecordRateLimited(route string) {
	c.rateLimited.WithLabelValues(route).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordRequest(string, int, time.Duration) {}
func (Nop) RecordGeneration(string, time.Duration) {}
func (Nop) RecordAnswerCache(bool) {}
func (Nop) RecordRateLimited(string) {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
