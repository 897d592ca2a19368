// Package metrics exposes Prometheus counters for the calculation API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CalculationRequests counts schedule calculations by status.
	CalculationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_calculations_total",
			Help: "Total schedule calculations by status.",
		},
		[]string{"status"},
	)

	// CacheLookups counts result cache lookups by outcome.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_cache_lookups_total",
			Help: "Result cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	// ExportDownloads counts schedule exports by status.
	ExportDownloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_csv_downloads_total",
			Help: "Schedule CSV downloads by status.",
		},
		[]string{"status"},
	)
)
