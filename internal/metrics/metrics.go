package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lelo88/mercado-inventory/internal/httpx"
)

const namespace = "inventory"

// Metrics agrupa los collectors de la app sobre un registry propio,
// así los tests pueden crear instancias sin chocar con el registry global.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	productOperations *prometheus.CounterVec
}

// New registra los collectors de HTTP, productos y runtime de Go.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		productOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_operations_total",
			Help:      "Product store operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.productOperations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveProductOperation cuenta una operación del store. outcome: ok, not_found o error.
func (m *Metrics) ObserveProductOperation(operation, outcome string) {
	m.productOperations.WithLabelValues(operation, outcome).Inc()
}

// Middleware mide cada request usando el patrón de ruta de chi como label.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)

		next.ServeHTTP(wrapped, request)

		status := wrapped.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := httpx.RoutePattern(request)
		m.httpRequests.WithLabelValues(request.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(request.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler expone el registry para el scrape de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
