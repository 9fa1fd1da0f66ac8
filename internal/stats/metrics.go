package stats

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scraperPagesTotal          *prometheus.CounterVec
	scraperPageDurationSeconds prometheus.Histogram
	scraperRetriesTotal        prometheus.Counter
	scraperSkipsTotal          prometheus.Counter
	scraperRunActive           prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// InitMetrics registers the Prometheus collectors. Safe to call repeatedly.
func InitMetrics() {
	once.Do(func() {
		scraperPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_pages_total",
				Help: "Total recipe pages processed, labeled by outcome and status code.",
			},
			[]string{"outcome", "code"},
		)

		scraperPageDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scraper_page_duration_seconds",
				Help:    "Histogram of per-page fetch and render latencies.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
			},
		)

		scraperRetriesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scraper_retries_total",
				Help: "Total page fetch retries.",
			},
		)

		scraperSkipsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scraper_skips_total",
				Help: "Total pages skipped without a fetch.",
			},
		)

		scraperRunActive = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "scraper_run_active",
				Help: "Whether a scrape run is currently in progress.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_http_requests_total",
				Help: "Total dashboard HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_http_request_duration_seconds",
				Help:    "Histogram of dashboard HTTP request latencies.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
			},
			[]string{"method", "route"},
		)
	})
}

// MetricsHandler returns an http.Handler exposing the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func observePage(outcome string, code int, dur time.Duration) {
	if scraperPagesTotal == nil {
		return
	}
	scraperPagesTotal.WithLabelValues(outcome, strconv.Itoa(code)).Inc()
	scraperPageDurationSeconds.Observe(dur.Seconds())
}

func observeRetry() {
	if scraperRetriesTotal == nil {
		return
	}
	scraperRetriesTotal.Inc()
}

func observeRunActive(active bool) {
	if scraperRunActive == nil {
		return
	}
	if active {
		scraperRunActive.Set(1)
		return
	}
	scraperRunActive.Set(0)
}

func observeSkip() {
	if scraperSkipsTotal == nil {
		return
	}
	scraperSkipsTotal.Inc()
}

// ObserveHTTPRequest increments the dashboard HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, dur time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(dur.Seconds())
}
