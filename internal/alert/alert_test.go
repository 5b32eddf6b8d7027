// ABOUTME: Tests for the pure alert core: tier boundaries, filter order, aggregate counts.
// ABOUTME: Boundary cases at 2/3 and 5/6 days are covered explicitly.
package alert

import (
	"reflect"
	"testing"
)

func TestClassify_Boundaries(t *testing.T) {
	cases := []struct {
		days int
		want Severity
	}{
		{0, SeverityCritical},
		{1, SeverityCritical},
		{2, SeverityCritical},
		{3, SeverityWarning},
		{4, SeverityWarning},
		{5, SeverityWarning},
		{6, SeverityLow},
		{10, SeverityLow},
		{365, SeverityLow},
	}
	for _, tc := range cases {
		if got := Classify(tc.days); got != tc.want {
			t.Errorf("Classify(%d) = %v, want %v", tc.days, got, tc.want)
		}
	}
}

func TestClassify_PartitionsNonNegatives(t *testing.T) {
	// The three predicates must partition 0..100 with no gaps or overlaps.
	for days := 0; days <= 100; days++ {
		got := Classify(days)
		inCritical := days <= 2
		inWarning := days >= 3 && days <= 5
		inLow := days > 5
		switch got {
		case SeverityCritical:
			if !inCritical {
				t.Errorf("Classify(%d) = Critical outside critical range", days)
			}
		case SeverityWarning:
			if !inWarning {
				t.Errorf("Classify(%d) = Warning outside warning range", days)
			}
		case SeverityLow:
			if !inLow {
				t.Errorf("Classify(%d) = Low outside low range", days)
			}
		default:
			t.Errorf("Classify(%d) = %v, not a known tier", days, got)
		}
	}
}

func TestSeverity_LabelAndColor(t *testing.T) {
	cases := []struct {
		sev   Severity
		label string
		color string
	}{
		{SeverityCritical, "CRITICAL", "#ef4444"},
		{SeverityWarning, "WARNING", "#f59e0b"},
		{SeverityLow, "LOW", "#6b7280"},
	}
	for _, tc := range cases {
		if got := tc.sev.Label(); got != tc.label {
			t.Errorf("Label() = %q, want %q", got, tc.label)
		}
		if got := tc.sev.Color(); got != tc.color {
			t.Errorf("Color() = %q, want %q", got, tc.color)
		}
	}
}

func testItems() []LowStockItem {
	return []LowStockItem{
		{ProductName: "Samsung TV 65\"", SKU: "ELEC-002", StoreName: "Downtown Store", CurrentStock: 8, MinStock: 10, SuggestedReorder: 25, DaysUntilStockout: 5},
		{ProductName: "AirPods Pro", SKU: "ACCS-001", StoreName: "Tech Hub", CurrentStock: 5, MinStock: 25, SuggestedReorder: 50, DaysUntilStockout: 2},
		{ProductName: "Smart Thermostat", SKU: "HOME-001", StoreName: "Mall Outlet", CurrentStock: 3, MinStock: 10, SuggestedReorder: 20, DaysUntilStockout: 1},
		{ProductName: "Wireless Mouse", SKU: "ACCS-002", StoreName: "Suburban Branch", CurrentStock: 12, MinStock: 15, SuggestedReorder: 30, DaysUntilStockout: 8},
		{ProductName: "USB-C Hub", SKU: "ACCS-003", StoreName: "Downtown Store", CurrentStock: 7, MinStock: 10, SuggestedReorder: 20, DaysUntilStockout: 4},
	}
}

func TestFilterBelowThreshold_OrderPreserving(t *testing.T) {
	items := testItems()
	got := FilterBelowThreshold(items, 10)
	wantSKUs := []string{"ELEC-002", "ACCS-001", "HOME-001", "ACCS-003"}
	if len(got) != len(wantSKUs) {
		t.Fatalf("got %d items, want %d", len(got), len(wantSKUs))
	}
	for i, sku := range wantSKUs {
		if got[i].SKU != sku {
			t.Errorf("item %d: SKU = %q, want %q", i, got[i].SKU, sku)
		}
	}
}

func TestFilterBelowThreshold_DoesNotMutateInput(t *testing.T) {
	items := testItems()
	before := make([]LowStockItem, len(items))
	copy(before, items)
	_ = FilterBelowThreshold(items, 7)
	if !reflect.DeepEqual(items, before) {
		t.Error("input slice was mutated")
	}
}

func TestFilterBelowThreshold_Edges(t *testing.T) {
	items := testItems()
	if got := FilterBelowThreshold(items, -1); len(got) != 0 {
		t.Errorf("negative threshold: got %d items, want 0", len(got))
	}
	if got := FilterBelowThreshold(items, 0); len(got) != 0 {
		t.Errorf("zero threshold: got %d items, want 0", len(got))
	}
	if got := FilterBelowThreshold(nil, 10); len(got) != 0 {
		t.Errorf("nil input: got %d items, want 0", len(got))
	}
	// Threshold boundary is inclusive.
	if got := FilterBelowThreshold(items, 3); len(got) != 1 || got[0].SKU != "HOME-001" {
		t.Errorf("threshold 3: got %v", got)
	}
}

func TestAggregate_Counts(t *testing.T) {
	sum := Aggregate(testItems())
	want := Summary{Critical: 2, Warning: 2, Low: 1, Total: 5}
	if sum != want {
		t.Errorf("Aggregate = %+v, want %+v", sum, want)
	}
	if sum.Total != sum.Critical+sum.Warning+sum.Low {
		t.Error("Total does not equal sum of tiers")
	}
}

func TestAggregate_Empty(t *testing.T) {
	if sum := Aggregate(nil); sum != (Summary{}) {
		t.Errorf("Aggregate(nil) = %+v, want all-zero", sum)
	}
}

func TestAggregate_AfterFilter_Idempotent(t *testing.T) {
	items := testItems()
	first := Aggregate(FilterBelowThreshold(items, 10))
	second := Aggregate(FilterBelowThreshold(items, 10))
	if first != second {
		t.Errorf("repeated aggregate diverged: %+v vs %+v", first, second)
	}
}
