package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CalculationDuration tracks the latency of best-deal calculations
	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "deal_calculation_duration_seconds",
			Help: "Duration of best-deal calculation requests in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
			},
		},
		[]string{"status"}, // success or failed
	)

	// DealsApplied counts deals applied to committed orders, by type
	DealsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_applied_total",
			Help: "Number of deals applied to orders",
		},
		[]string{"deal_type"},
	)
)

// RecordCalculationDuration records the duration of a best-deal calculation
func RecordCalculationDuration(status string, duration float64) {
	CalculationDuration.WithLabelValues(status).Observe(duration)
}

// RecordDealApplied increments the applied-deal counter for a deal type
func RecordDealApplied(dealType string) {
	DealsApplied.WithLabelValues(dealType).Inc()
}
