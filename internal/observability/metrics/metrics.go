// Package metrics exposes Prometheus collectors for the upload pipeline and
// the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricPrefix = "meditrack_"

var (
	// UploadsProcessed counts successfully processed uploads by kind
	// (catalog, stock).
	UploadsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "uploads_processed_total",
			Help: "Uploads processed successfully, by kind",
		},
		[]string{"kind"},
	)

	// UploadsRejected counts whole-file rejections by kind.
	UploadsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "uploads_rejected_total",
			Help: "Uploads rejected as malformed, by kind",
		},
		[]string{"kind"},
	)

	// StockRowsApplied counts delta rows that resulted in a stock write.
	StockRowsApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "stock_rows_applied_total",
			Help: "Stock delta rows applied to the store",
		},
	)

	// StockRowsSkipped counts delta rows skipped by policy
	// (unmatched code or negative quantity).
	StockRowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "stock_rows_skipped_total",
			Help: "Stock delta rows skipped (unmatched code or negative quantity)",
		},
	)

	// HTTPDuration observes request latency by method, route and status.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
