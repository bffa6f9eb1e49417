package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	gradingItemsTotal    *prometheus.CounterVec
	gradingBatchesTotal  prometheus.Counter
	batchDurationSeconds prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors for the API and the
// grading pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autograde_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "autograde_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"method", "route"})

		gradingItemsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autograde_grading_items_total",
			Help: "Items graded, by terminal outcome.",
		}, []string{"outcome"})

		gradingBatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autograde_grading_batches_total",
			Help: "Grading batches run to completion.",
		})

		batchDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "autograde_batch_duration_seconds",
			Help:    "Wall-clock duration of grading batches.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, gradingItemsTotal, gradingBatchesTotal, batchDurationSeconds)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// GradingItems exposes the per-outcome item counter.
func GradingItems() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingItemsTotal
}

// GradingBatches exposes the completed-batch counter.
func GradingBatches() prometheus.Counter {
	RegisterMetrics()
	return gradingBatchesTotal
}

// BatchDuration exposes the batch duration histogram.
func BatchDuration() prometheus.Histogram {
	RegisterMetrics()
	return batchDurationSeconds
}
