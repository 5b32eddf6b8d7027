// ABOUTME: Tests for low-stock email rendering: subject tone, pluralization, box conditionals, row order.
// ABOUTME: Determinism is asserted by rendering twice and comparing bytes.
package notify

import (
	"strings"
	"testing"

	"github.com/Rudrakshi123/smartstock/internal/alert"
)

func critItem(sku string, days int) alert.LowStockItem {
	return alert.LowStockItem{
		ProductName:       "Widget " + sku,
		SKU:               sku,
		StoreName:         "Downtown Store",
		CurrentStock:      3,
		MinStock:          10,
		SuggestedReorder:  20,
		DaysUntilStockout: days,
	}
}

func TestRenderLowStock_UrgentSubject(t *testing.T) {
	alerts := []alert.LowStockItem{
		critItem("HOME-001", 1),
		critItem("ACCS-003", 4),
	}
	subject, html, text, err := RenderLowStock("Manager", alerts)
	if err != nil {
		t.Fatalf("RenderLowStock: %v", err)
	}
	if !strings.Contains(subject, "URGENT") {
		t.Errorf("subject missing URGENT: %q", subject)
	}
	if !strings.Contains(subject, "1") {
		t.Errorf("subject missing critical count: %q", subject)
	}
	// Exactly one critical — singular "Alert".
	if strings.Contains(subject, "Alerts") {
		t.Errorf("subject should be singular: %q", subject)
	}
	if !strings.Contains(html, "HOME-001") || !strings.Contains(html, "ACCS-003") {
		t.Error("HTML missing alert SKUs")
	}
	if !strings.Contains(text, "HOME-001") {
		t.Error("text body missing alert SKU")
	}
}

func TestRenderLowStock_UrgentSubjectPlural(t *testing.T) {
	alerts := []alert.LowStockItem{
		critItem("A-1", 0),
		critItem("A-2", 2),
	}
	subject, _, _, err := RenderLowStock("Manager", alerts)
	if err != nil {
		t.Fatalf("RenderLowStock: %v", err)
	}
	if !strings.Contains(subject, "2 Critical Low Stock Alerts") {
		t.Errorf("subject = %q, want plural critical wording", subject)
	}
}

func TestRenderLowStock_MildSubjectAndBoxes(t *testing.T) {
	// Three all-low items: no critical box, no warning box, total box only.
	alerts := []alert.LowStockItem{
		critItem("L-1", 10),
		critItem("L-2", 10),
		critItem("L-3", 10),
	}
	subject, html, _, err := RenderLowStock("Manager", alerts)
	if err != nil {
		t.Fatalf("RenderLowStock: %v", err)
	}
	if !strings.Contains(subject, "3 products need attention") {
		t.Errorf("subject = %q, want mild wording with total", subject)
	}
	if strings.Contains(html, ">Critical<") {
		t.Error("HTML contains critical summary box despite zero criticals")
	}
	if strings.Contains(html, ">Warning<") {
		t.Error("HTML contains warning summary box despite zero warnings")
	}
	if !strings.Contains(html, "Total Alerts") {
		t.Error("HTML missing total alerts box")
	}
}

func TestRenderLowStock_MildSubjectSingular(t *testing.T) {
	subject, _, _, err := RenderLowStock("Manager", []alert.LowStockItem{critItem("L-1", 10)})
	if err != nil {
		t.Fatalf("RenderLowStock: %v", err)
	}
	if !strings.Contains(subject, "1 product needs") && !strings.Contains(subject, "1 product need") {
		t.Errorf("subject = %q, want singular product wording", subject)
	}
	if strings.Contains(subject, "products") {
		t.Errorf("subject should be singular: %q", subject)
	}
}

func TestRenderLowStock_SummaryMatchesAggregate(t *testing.T) {
	alerts := []alert.LowStockItem{
		critItem("C-1", 1),
		critItem("W-1", 4),
		critItem("W-2", 5),
		critItem("L-1", 9),
	}
	sum := alert.Aggregate(alerts)
	_, html, _, err := RenderLowStock("Manager", alerts)
	if err != nil {
		t.Fatalf("RenderLowStock: %v", err)
	}
	// The critical box must embed exactly the Aggregate count.
	if sum.Critical != 1 {
		t.Fatalf("Aggregate critical = %d, want 1", sum.Critical)
	}
	if !strings.Contains(html, ">1</div>") {
		t.Error("HTML critical box does not show aggregate count")
	}
}

func TestRenderLowStock_RowOrderMatchesInput(t *testing.T) {
	// B is critical, A is low — input order must still win.
	alerts := []alert.LowStockItem{
		critItem("SKU-X", 10),
		critItem("SKU-Y", 1),
	}
	_, html, _, err := RenderLowStock("Manager", alerts)
	if err != nil {
		t.Fatalf("RenderLowStock: %v", err)
	}
	x := strings.Index(html, "SKU-X")
	y := strings.Index(html, "SKU-Y")
	if x < 0 || y < 0 {
		t.Fatal("HTML missing SKUs")
	}
	if x > y {
		t.Error("table rows were reordered: SKU-Y appears before SKU-X")
	}
}

func TestRenderLowStock_GreetingAndDeterminism(t *testing.T) {
	alerts := []alert.LowStockItem{critItem("A-1", 3)}
	subject1, html1, text1, err := RenderLowStock("Jane Doe", alerts)
	if err != nil {
		t.Fatalf("RenderLowStock: %v", err)
	}
	if !strings.Contains(html1, "Hi <strong>Jane Doe</strong>") {
		t.Error("HTML greeting missing recipient name")
	}
	subject2, html2, text2, err := RenderLowStock("Jane Doe", alerts)
	if err != nil {
		t.Fatalf("RenderLowStock (second): %v", err)
	}
	if subject1 != subject2 || html1 != html2 || text1 != text2 {
		t.Error("identical inputs produced different output")
	}
}

func TestRenderLowStock_MinStockFlag(t *testing.T) {
	below := critItem("B-1", 4) // 3 < 10
	at := critItem("B-2", 4)
	at.CurrentStock = 10 // equals min, not flagged
	_, html, _, err := RenderLowStock("Manager", []alert.LowStockItem{below, at})
	if err != nil {
		t.Fatalf("RenderLowStock: %v", err)
	}
	if !strings.Contains(html, "#ef4444") {
		t.Error("below-minimum stock cell not flagged")
	}
	if !strings.Contains(html, "#111827") {
		t.Error("at-minimum stock cell should use the neutral color")
	}
}

func TestSanitizeSubject(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Normal Subject", "Normal Subject"},
		{"With\r\nInjection", "WithInjection"},
		{"  Padded  ", "Padded"},
		{"\nLeading newline", "Leading newline"},
	}
	for _, tc := range cases {
		if got := sanitizeSubject(tc.input); got != tc.want {
			t.Errorf("sanitizeSubject(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
