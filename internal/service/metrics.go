package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache and worker collectors live here rather than in the HTTP layer since
// they are incremented from service code.
var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamline_cache_hits_total",
		Help: "Total Redis cache hits.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamline_cache_misses_total",
		Help: "Total Redis cache misses.",
	})
	outlierScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamline_outlier_scan_duration_seconds",
		Help:    "Duration of per-profile outlier scans.",
		Buckets: prometheus.DefBuckets,
	})
)
