package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PassesTotal counts completed reconciliation passes
	PassesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gts_reconciliation_passes_total",
			Help: "Total number of completed reconciliation passes",
		},
	)

	// PassDuration tracks reconciliation pass duration
	PassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gts_reconciliation_pass_duration_seconds",
			Help:    "Reconciliation pass duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// EntriesChecked counts watch entries examined during passes
	EntriesChecked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gts_entries_checked_total",
			Help: "Total number of watch entries examined",
		},
	)

	// TradesDetected counts newly detected trade completions
	TradesDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gts_trades_detected_total",
			Help: "Total number of newly detected trade completions",
		},
	)

	// NotificationsSent counts successful notification dispatches by channel
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gts_notifications_sent_total",
			Help: "Total number of notifications sent",
		},
		[]string{"channel"},
	)

	// ErrorsTotal counts errors by component and type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gts_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// WatchedEntries tracks the number of registered watch entries
	WatchedEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gts_watched_entries",
			Help: "Number of registered watch entries",
		},
	)
)
