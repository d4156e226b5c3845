package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScansTotal counts scan sessions by family and outcome.
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "htable_scans_total",
			Help: "Total number of scan sessions",
		},
		[]string{"family", "status"},
	)
	// ScanDuration is the wall time of a whole scan session.
	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "htable_scan_duration_seconds",
			Help:    "Scan session latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"family"},
	)
	// ResultPages counts the results handed out by scans.
	ResultPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "htable_result_pages_total",
			Help: "Total number of scan results returned",
		},
		[]string{"family"},
	)
	// CellsReturned counts cells returned by scans.
	CellsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "htable_cells_returned_total",
			Help: "Total number of cells returned by scans",
		},
		[]string{"family"},
	)
	// CellsWritten counts cells put through the operations layer.
	CellsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "htable_cells_written_total",
			Help: "Total number of cells written",
		},
		[]string{"family"},
	)
	// ExpiredRows counts rows recorded for cleanup, and the records dropped because the
	// reaper was behind.
	ExpiredRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "htable_expired_rows_total",
			Help: "Total number of rows recorded for expiry cleanup",
		},
		[]string{"reason", "status"},
	)
	// CellsReaped counts cells deleted by the reaper.
	CellsReaped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "htable_cells_reaped_total",
			Help: "Total number of expired cells deleted",
		},
	)
	// DescriptorCache counts column family descriptor lookups by result.
	DescriptorCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "htable_descriptor_cache_total",
			Help: "Column family descriptor lookups by cache result",
		},
		[]string{"result"},
	)
)
