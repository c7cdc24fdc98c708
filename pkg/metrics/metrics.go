// Package metrics holds the Prometheus collectors of the storefront and the
// HTTP middleware that feeds them. Everything is registered on
// DefaultRegistry, which /metrics serves.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

func counter(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
	}, labels)
}

func histogram(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

var (
	RequestDuration = histogram("http", "request_duration_seconds", "HTTP request latency.",
		prometheus.DefBuckets, "method", "route", "status")
	RequestTotal    = counter("http", "requests_total", "HTTP requests served.", "method", "route", "status")
	ResponseSize    = histogram("http", "response_size_bytes", "HTTP response body size.",
		[]float64{256, 4 << 10, 64 << 10, 1 << 20}, "method", "route")
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "http", Name: "requests_in_flight",
		Help: "HTTP requests being served right now.",
	})
	PanicsRecovered = counter("http", "panics_recovered_total", "Handler panics turned into 500s.", "route")

	DBQueryDuration = histogram("db", "query_duration_seconds", "Database statement latency.",
		[]float64{.001, .005, .01, .025, .05, .1, .5, 1}, "operation")

	QueueJobsProcessed = counter("queue", "jobs_processed_total", "Queue jobs run, by outcome.", "job_type", "status")
	QueueJobDuration   = histogram("queue", "job_duration_seconds", "Queue job run time.",
		prometheus.DefBuckets, "job_type")

	CacheHits   = counter("cache", "hits_total", "Cache lookups answered from the store.", "driver")
	CacheMisses = counter("cache", "misses_total", "Cache lookups that fell through.", "driver")

	// DomainEvents counts events fired through pkg/event, by name.
	DomainEvents = counter("events", "fired_total", "Store events fired.", "event")

	OrdersPlaced = counter("orders", "placed_total", "Orders placed, by delivery method.", "delivery")
	OrderRevenue = counter("orders", "revenue_total", "Sum of placed order totals, by delivery method.", "delivery")
)

// DefaultRegistry is the registry served on /metrics.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestDuration, RequestTotal, ResponseSize, RequestInFlight, PanicsRecovered,
		DBQueryDuration,
		QueueJobsProcessed, QueueJobDuration,
		CacheHits, CacheMisses,
		DomainEvents,
		OrdersPlaced, OrderRevenue,
	)
}

func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// Route is the chi pattern that matched r, or "unmatched". Labelling by
// pattern keeps /api/products/{slug} a single series.
func Route(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

type recorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func (r *recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack lets the admin websocket upgrade through the middleware.
func (r *recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("metrics: response writer cannot hijack")
}

// Middleware records latency, count, size and in-flight requests.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route, status := Route(r), strconv.Itoa(rec.status)
			RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, route, status).Inc()
			ResponseSize.WithLabelValues(r.Method, route).Observe(float64(rec.size))
		})
	}
}

// Handler serves DefaultRegistry, OpenMetrics included.
func Handler() http.HandlerFunc {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{EnableOpenMetrics: true}).ServeHTTP
}

//	defer metrics.ObserveDBQuery("select", time.Now())
func ObserveDBQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordQueueJob records one job attempt; status is "success" or "failed".
func RecordQueueJob(jobType, status string, start time.Time) {
	QueueJobsProcessed.WithLabelValues(jobType, status).Inc()
	QueueJobDuration.WithLabelValues(jobType).Observe(time.Since(start).Seconds())
}

// RecordOrder counts a placed order and adds its total to the revenue.
func RecordOrder(delivery string, total float64) {
	if delivery == "" {
		delivery = "unknown"
	}
	OrdersPlaced.WithLabelValues(delivery).Inc()
	OrderRevenue.WithLabelValues(delivery).Add(total)
}
