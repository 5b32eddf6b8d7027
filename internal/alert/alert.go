// ABOUTME: Pure low-stock alert core: severity classification, threshold filtering, tallying.
// ABOUTME: No I/O, no clock, no mutation — every caller that needs counts goes through Aggregate.
package alert

// LowStockItem is one product/store pair that is running low. Values come from
// the inventory source (or the dashboard client) and are treated as opaque
// here; quantities are expected to be non-negative.
type LowStockItem struct {
	ProductName       string `json:"productName"`
	SKU               string `json:"sku"`
	StoreName         string `json:"storeName"`
	CurrentStock      int    `json:"currentStock"`
	MinStock          int    `json:"minStock"`
	SuggestedReorder  int    `json:"suggestedReorder"`
	DaysUntilStockout int    `json:"daysUntilStockout"`
}

// Severity is the urgency tier derived from days-until-stockout.
// It is never stored — always recomputed via Classify.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityWarning
	SeverityLow
)

// Classify maps days-until-stockout to a severity tier. Thresholds are
// inclusive: <=2 critical, 3..5 warning, >5 low.
func Classify(daysUntilStockout int) Severity {
	switch {
	case daysUntilStockout <= 2:
		return SeverityCritical
	case daysUntilStockout <= 5:
		return SeverityWarning
	default:
		return SeverityLow
	}
}

// Label returns the badge text used in email rendering.
func (s Severity) Label() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityWarning:
		return "WARNING"
	default:
		return "LOW"
	}
}

// Color returns the presentation color for email rendering. Presentation
// metadata only — business logic keys off the tier, never the color.
func (s Severity) Color() string {
	switch s {
	case SeverityCritical:
		return "#ef4444"
	case SeverityWarning:
		return "#f59e0b"
	default:
		return "#6b7280"
	}
}

// FilterBelowThreshold returns the items whose current stock is at or below
// threshold, preserving input order. The input slice is not mutated; a
// negative threshold yields an empty result.
func FilterBelowThreshold(items []LowStockItem, threshold int) []LowStockItem {
	out := make([]LowStockItem, 0, len(items))
	for _, it := range items {
		if it.CurrentStock <= threshold {
			out = append(out, it)
		}
	}
	return out
}

// Summary tallies a set of alerts by severity tier.
// Total always equals Critical + Warning + Low.
type Summary struct {
	Critical int `json:"criticalCount"`
	Warning  int `json:"warningCount"`
	Low      int `json:"lowCount"`
	Total    int `json:"total"`
}

// Aggregate classifies every item and returns the per-tier counts. This is
// the single source of truth for counts: the email summary boxes and the
// dashboard API both call it, so the two can never drift.
func Aggregate(items []LowStockItem) Summary {
	var sum Summary
	for _, it := range items {
		switch Classify(it.DaysUntilStockout) {
		case SeverityCritical:
			sum.Critical++
		case SeverityWarning:
			sum.Warning++
		default:
			sum.Low++
		}
	}
	sum.Total = len(items)
	return sum
}
