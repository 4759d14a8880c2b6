package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records the transaction counters the register emits.
type POSMetrics struct {
	salesCompleted *prometheus.CounterVec
	salesCancelled prometheus.Counter
	salesHeld      prometheus.Counter
	saleTotal      prometheus.Histogram
	shiftDiff      *prometheus.GaugeVec
}

// NewPOSMetrics registers the POS metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	salesCompleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_completed_total",
		Help: "Completed sales by register.",
	}, []string{"register"})
	salesCancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_cancelled_total",
		Help: "Cancelled in-progress sales.",
	})
	salesHeld := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_held_total",
		Help: "Sales parked for later resumption.",
	})
	saleTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_sale_total_cents",
		Help:    "Distribution of completed sale totals in cents.",
		Buckets: prometheus.ExponentialBuckets(500, 4, 8),
	})
	shiftDiff := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pos_shift_difference_cents",
		Help: "Counted-vs-expected cash difference of the last closed shift.",
	}, []string{"register"})
	reg.MustRegister(salesCompleted, salesCancelled, salesHeld, saleTotal, shiftDiff)
	return &POSMetrics{
		salesCompleted: salesCompleted,
		salesCancelled: salesCancelled,
		salesHeld:      salesHeld,
		saleTotal:      saleTotal,
		shiftDiff:      shiftDiff,
	}
}

// ObserveSaleCompleted records a finalized sale for the register.
func (m *POSMetrics) ObserveSaleCompleted(register string, totalCents int) {
	if m == nil || m.salesCompleted == nil {
		return
	}
	m.salesCompleted.WithLabelValues(normalizeLabel(register)).Inc()
	m.saleTotal.Observe(float64(totalCents))
}

// IncSaleCancelled increments the cancellation counter.
func (m *POSMetrics) IncSaleCancelled() {
	if m == nil || m.salesCancelled == nil {
		return
	}
	m.salesCancelled.Inc()
}

// IncSaleHeld increments the held-sale counter.
func (m *POSMetrics) IncSaleHeld() {
	if m == nil || m.salesHeld == nil {
		return
	}
	m.salesHeld.Inc()
}

// SetShiftDifference records the close-time cash discrepancy for the register.
func (m *POSMetrics) SetShiftDifference(register string, differenceCents int) {
	if m == nil || m.shiftDiff == nil {
		return
	}
	m.shiftDiff.WithLabelValues(normalizeLabel(register)).Set(float64(differenceCents))
}

func normalizeLabel(register string) string {
	if register == "" {
		return "unknown"
	}
	return register
}
