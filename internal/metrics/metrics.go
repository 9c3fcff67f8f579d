package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache metrics
var (
	// CacheHitsTotal tracks cache hits per operation namespace.
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skycast_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"operation"},
	)

	// CacheMissesTotal tracks cache misses per operation namespace.
	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skycast_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"operation"},
	)

	// CacheEvictionsTotal tracks entries evicted to respect the byte budget.
	CacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skycast_cache_evictions_total",
			Help: "Total number of cache entries evicted",
		},
	)
)

// Upstream API metrics
var (
	// APIRequestsTotal tracks outbound requests by outcome.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skycast_api_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"status"},
	)

	// APIRetriesTotal tracks transport-level retries.
	APIRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skycast_api_retries_total",
			Help: "Total number of upstream request retries",
		},
	)

	// APIQuotaDeniedTotal tracks requests rejected by the daily quota guard.
	APIQuotaDeniedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skycast_api_quota_denied_total",
			Help: "Total number of requests denied by the daily call quota",
		},
	)

	// APIRequestDuration tracks upstream request latency.
	APIRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skycast_api_request_duration_seconds",
			Help:    "Duration of upstream API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// AppStartTime records when the application started.
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skycast_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppStartTime.SetToCurrentTime()
}

// RecordAPIRequest records one completed upstream request.
func RecordAPIRequest(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	APIRequestsTotal.WithLabelValues(status).Inc()
	APIRequestDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a cache probe for an operation namespace.
func RecordCacheLookup(operation string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(operation).Inc()
	} else {
		CacheMissesTotal.WithLabelValues(operation).Inc()
	}
}
