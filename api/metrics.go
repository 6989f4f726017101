package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	calculations     *prometheus.CounterVec
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	parameterReloads prometheus.Counter
	presetsApplied   *prometheus.CounterVec
}

// NewMetrics registers the service collectors plus the Go runtime ones.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hukuk",
			Name:      "calculations_total",
			Help:      "Calculations served, by calculator and outcome.",
		}, []string{"calculator", "outcome"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hukuk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hukuk",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		parameterReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hukuk",
			Name:      "parameter_reloads_total",
			Help:      "Times the parameter cache was rebuilt from the store.",
		}),
		presetsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hukuk",
			Name:      "presets_applied_total",
			Help:      "Presets applied, by preset id and trigger.",
		}, []string{"preset", "trigger"}),
	}

	m.registry.MustRegister(
		m.calculations,
		m.requestsTotal,
		m.requestDuration,
		m.parameterReloads,
		m.presetsApplied,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the registry for tests and embedding.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeCalculation(calculator string, calculated bool) {
	outcome := "calculated"
	if !calculated {
		outcome = "no_result"
	}
	m.calculations.WithLabelValues(calculator, outcome).Inc()
}

// Middleware records request counts and latency under the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
