package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prom records planner events and HTTP traffic in Prometheus metrics.
type Prom struct {
	assignments *prometheus.CounterVec
	conflicts   prometheus.Gauge
	exports     *prometheus.CounterVec
	requests    *prometheus.HistogramVec
	gatherer    prometheus.Gatherer
}

// NewProm registers the planner collectors on reg. If reg is nil, the default
// registry is used. Collectors that are already registered are reused.
func NewProm(reg *prometheus.Registry) (*Prom, error) {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_assignments_total",
		Help: "Assignment items processed, by outcome",
	}, []string{"outcome"})
	conflicts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planner_conflicting_courses",
		Help: "Courses overlapping another course of the same lecturer at the last audit",
	})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_exports_total",
		Help: "Exports produced, by kind and format",
	}, []string{"kind", "format"})
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	var err error
	if assignments, err = register(registerer, assignments); err != nil {
		return nil, err
	}
	if conflicts, err = register(registerer, conflicts); err != nil {
		return nil, err
	}
	if exports, err = register(registerer, exports); err != nil {
		return nil, err
	}
	if requests, err = register(registerer, requests); err != nil {
		return nil, err
	}
	return &Prom{
		assignments: assignments,
		conflicts:   conflicts,
		exports:     exports,
		requests:    requests,
		gatherer:    gatherer,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (p *Prom) RecordAssignment(outcome string) {
	p.assignments.WithLabelValues(outcome).Inc()
}

func (p *Prom) RecordAudit(conflicting int) {
	p.conflicts.Set(float64(conflicting))
}

func (p *Prom) RecordExport(kind, format string) {
	p.exports.WithLabelValues(kind, format).Inc()
}

// Middleware observes the latency of every request by matched route.
func (p *Prom) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		p.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (p *Prom) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{}))
}
