package quote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/richxcame/limo-booking/internal/fare"
)

var (
	faresComputedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fares_computed_total",
		Help: "Total number of fare computations by operation",
	}, []string{"operation"})

	fareTotalAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fare_total_amount_dollars",
		Help:    "Distribution of computed fare totals including gratuity",
		Buckets: []float64{50, 100, 200, 300, 500, 750, 1000, 1500, 2500},
	})

	fareRulesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fare_rules_skipped_total",
		Help: "Total number of fee rules skipped because their condition failed to evaluate",
	})

	fareClampTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fare_clamp_applied_total",
		Help: "Total number of fares clamped to the configured minimum or maximum",
	}, []string{"bound"})

	quoteConfirmationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_confirmations_total",
		Help: "Total number of quote confirmations by whether the recomputed price matched",
	}, []string{"result"})
)

func recordBreakdown(operation string, b *fare.PriceBreakdown) {
	faresComputedTotal.WithLabelValues(operation).Inc()
	fareTotalAmount.Observe(b.Total)
	if n := len(b.SkippedRules); n > 0 {
		fareRulesSkippedTotal.Add(float64(n))
	}
	if b.Clamp.Applied {
		fareClampTotal.WithLabelValues(string(b.Clamp.Bound)).Inc()
	}
}

func recordConfirmation(matches bool) {
	result := "match"
	if !matches {
		result = "mismatch"
	}
	quoteConfirmationsTotal.WithLabelValues(result).Inc()
}
