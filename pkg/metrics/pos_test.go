package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherMetric(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func TestObserveSaleCompletedCountsPerRegister(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewPOSMetrics(reg)

	m.ObserveSaleCompleted("reg-1", 12500)
	m.ObserveSaleCompleted("reg-1", 8000)
	m.ObserveSaleCompleted("reg-2", 500)

	family := gatherMetric(t, reg, "pos_sales_completed_total")
	if family == nil {
		t.Fatal("expected pos_sales_completed_total registered")
	}
	counts := map[string]float64{}
	for _, metric := range family.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "register" {
				counts[label.GetValue()] = metric.GetCounter().GetValue()
			}
		}
	}
	if counts["reg-1"] != 2 || counts["reg-2"] != 1 {
		t.Fatalf("unexpected per-register counts: %v", counts)
	}

	histogram := gatherMetric(t, reg, "pos_sale_total_cents")
	if histogram == nil {
		t.Fatal("expected pos_sale_total_cents registered")
	}
	sample := histogram.GetMetric()[0].GetHistogram()
	if sample.GetSampleCount() != 3 {
		t.Fatalf("expected 3 observations, got %d", sample.GetSampleCount())
	}
	if sample.GetSampleSum() != 21000 {
		t.Fatalf("expected sum 21000, got %f", sample.GetSampleSum())
	}
}

func TestSetShiftDifferenceGauge(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewPOSMetrics(reg)

	m.SetShiftDifference("reg-1", -5000)

	family := gatherMetric(t, reg, "pos_shift_difference_cents")
	if family == nil {
		t.Fatal("expected pos_shift_difference_cents registered")
	}
	if got := family.GetMetric()[0].GetGauge().GetValue(); got != -5000 {
		t.Fatalf("expected gauge -5000, got %f", got)
	}
}

func TestEmptyRegisterLabelNormalized(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewPOSMetrics(reg)

	m.ObserveSaleCompleted("", 100)

	family := gatherMetric(t, reg, "pos_sales_completed_total")
	label := family.GetMetric()[0].GetLabel()[0]
	if label.GetValue() != "unknown" {
		t.Fatalf("expected empty register mapped to unknown, got %q", label.GetValue())
	}
}

func TestNilReceiverSafe(t *testing.T) {
	t.Parallel()

	var m *POSMetrics
	m.ObserveSaleCompleted("reg-1", 100)
	m.IncSaleCancelled()
	m.IncSaleHeld()
	m.SetShiftDifference("reg-1", 0)

	unregistered := NewPOSMetrics(nil)
	unregistered.ObserveSaleCompleted("reg-1", 100)
}
