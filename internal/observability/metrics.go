package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cloudshare"

// Metrics holds the server's Prometheus collectors. A nil *Metrics is valid
// and records nothing, which keeps handler tests free of registry setup.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	uploads       *prometheus.CounterVec
	shareVisits   prometheus.Counter
	sharesCreated prometheus.Counter
	storageErrors prometheus.Counter
	entries       prometheus.GaugeFunc
}

// NewMetrics registers all collectors on a private registry. entryCount is
// sampled on every scrape; it may be nil.
func NewMetrics(entryCount func() int) (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploaded files by outcome (created, failed).",
		}, []string{"outcome"}),
		shareVisits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_visits_total",
			Help:      "Resolved share link visits.",
		}),
		sharesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shares_created_total",
			Help:      "Share records created.",
		}),
		storageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_write_failures_total",
			Help:      "Snapshot writes rejected by the store.",
		}),
	}

	cs := []prometheus.Collector{
		m.requests, m.duration, m.uploads, m.shareVisits, m.sharesCreated, m.storageErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	if entryCount != nil {
		m.entries = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Files and folders currently held.",
		}, func() float64 { return float64(entryCount()) })
		cs = append(cs, m.entries)
	}

	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return m, nil
}

// Handler serves the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) UploadResults(created, failed int) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues("created").Add(float64(created))
	m.uploads.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) ShareVisited() {
	if m == nil {
		return
	}
	m.shareVisits.Inc()
}

func (m *Metrics) ShareCreated() {
	if m == nil {
		return
	}
	m.sharesCreated.Inc()
}

func (m *Metrics) StorageWriteFailed() {
	if m == nil {
		return
	}
	m.storageErrors.Inc()
}
