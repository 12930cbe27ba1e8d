package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP surface
// and the tabular store. It implements tabular.OpObserver.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	storeOpDuration *prometheus.HistogramVec
	storeOpTotal    *prometheus.CounterVec
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	storeOpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tabular_store_op_duration_seconds",
		Help:    "Duration of tabular store operations in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "result"})

	storeOpTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tabular_store_ops_total",
		Help: "Total number of tabular store operations",
	}, []string{"op", "result"})

	registry.MustRegister(requestDuration, requestTotal, storeOpDuration, storeOpTotal)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		storeOpDuration: storeOpDuration,
		storeOpTotal:    storeOpTotal,
	}
}

// Handler exposes the /metrics scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one completed HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveStoreOp records one tabular store operation.
func (s *MetricsService) ObserveStoreOp(op string, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	labels := prometheus.Labels{"op": op, "result": result}
	s.storeOpDuration.With(labels).Observe(duration.Seconds())
	s.storeOpTotal.With(labels).Inc()
}
