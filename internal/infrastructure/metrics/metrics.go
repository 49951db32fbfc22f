// Package metrics exposes the welfare engine's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/welfarelens/backend/internal/domain"
)

const namespace = "welfarelens"

// Collector records analysis and HTTP metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	analyses          *prometheus.CounterVec
	analysisDuration  *prometheus.HistogramVec
	breedingDecisions *prometheus.CounterVec
	quantityResults   *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	patternReloads    *prometheus.CounterVec
}

// New creates a collector with Go and process metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Product analyses by outcome.",
		}, []string{"outcome"}),
		analysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent classifying one product.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"outcome"}),
		breedingDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breeding_decisions_total",
			Help:      "Breeding classifications by animal type, deciding stage and candidate count.",
		}, []string{"animal_type", "stage", "candidates"}),
		quantityResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quantity_extractions_total",
			Help:      "Egg quantity extractions by deciding stage and completeness.",
		}, []string{"stage", "complete"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Analysis cache lookups by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		patternReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pattern_reloads_total",
			Help:      "Pattern table reloads by result.",
		}, []string{"result"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		c.analyses,
		c.analysisDuration,
		c.breedingDecisions,
		c.quantityResults,
		c.cacheLookups,
		c.httpRequests,
		c.httpDuration,
		c.patternReloads,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

func (c *Collector) ObserveAnalysis(outcome string, duration time.Duration) {
	c.analyses.WithLabelValues(outcome).Inc()
	c.analysisDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (c *Collector) ObserveBreeding(animal domain.AnimalType, stage string, candidates int) {
	c.breedingDecisions.WithLabelValues(string(animal), stage, candidateBucket(candidates)).Inc()
}

func (c *Collector) ObserveQuantity(stage string, complete bool) {
	c.quantityResults.WithLabelValues(stage, strconv.FormatBool(complete)).Inc()
}

func (c *Collector) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(route, method string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveReload records a pattern table reload attempt.
func (c *Collector) ObserveReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.patternReloads.WithLabelValues(result).Inc()
}

// candidateBucket keeps label cardinality fixed: none, one or many.
func candidateBucket(n int) string {
	switch {
	case n <= 0:
		return "none"
	case n == 1:
		return "one"
	default:
		return "many"
	}
}
