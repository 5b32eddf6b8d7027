// ABOUTME: Coarse integration test: real Postgres container behind the full router.
// ABOUTME: If it passes, router wiring, migrations, pool, and metrics are all operational.
package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rudrakshi123/smartstock/internal/api"
	"github.com/Rudrakshi123/smartstock/internal/config"
	"github.com/Rudrakshi123/smartstock/internal/testutil"
)

func TestSmoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := testutil.NewTestDB(t)

	cfg := &config.Config{
		EmailFrom:                "SmartStock <onboarding@resend.dev>",
		DefaultLowStockThreshold: 10,
	}
	mailer := &fakeMailer{resp: json.RawMessage(`{"id":"re_smoke"}`)}
	apiSrv := api.NewServer(st, cfg, mailer)
	t.Cleanup(apiSrv.Close)
	srv := httptest.NewServer(apiSrv.Handler())
	t.Cleanup(srv.Close)

	get := func(path string) *http.Response {
		t.Helper()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+path, nil)
		if err != nil {
			t.Fatalf("new request %s: %v", path, err)
		}
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("do %s: %v", path, err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	// ── /healthz ─────────────────────────────────────────────────────────────
	resp := get("/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz status = %d, want 200", resp.StatusCode)
	}
	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode /healthz: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("/healthz status = %q, want ok", health.Status)
	}

	// ── /metrics ─────────────────────────────────────────────────────────────
	if resp := get("/metrics"); resp.StatusCode != http.StatusOK {
		t.Errorf("/metrics status = %d, want 200", resp.StatusCode)
	}

	// ── Seeded catalog through the API ───────────────────────────────────────
	resp = get("/api/v1/products")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/api/v1/products status = %d, want 200", resp.StatusCode)
	}
	var products struct {
		Items []struct {
			SKU string `json:"sku"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products.Items) != 6 {
		t.Errorf("products = %d, want 6 from seed", len(products.Items))
	}

	// ── Low-stock report with summary ────────────────────────────────────────
	resp = get("/api/v1/alerts/low-stock?threshold=10")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/api/v1/alerts/low-stock status = %d, want 200", resp.StatusCode)
	}
	var lowStock struct {
		Items []struct {
			SKU               string `json:"sku"`
			SuggestedReorder  int    `json:"suggestedReorder"`
			DaysUntilStockout int    `json:"daysUntilStockout"`
		} `json:"items"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&lowStock); err != nil {
		t.Fatalf("decode low stock: %v", err)
	}
	if len(lowStock.Items) != 3 || lowStock.Summary.Total != 3 {
		t.Errorf("low stock items = %d, summary total = %d, want 3 and 3",
			len(lowStock.Items), lowStock.Summary.Total)
	}

	// ── Dashboard summary ────────────────────────────────────────────────────
	resp = get("/api/v1/dashboard/summary")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/api/v1/dashboard/summary status = %d, want 200", resp.StatusCode)
	}
	var dash struct {
		TotalProducts int `json:"totalProducts"`
		ActiveStores  int `json:"activeStores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dash.TotalProducts != 6 || dash.ActiveStores != 4 {
		t.Errorf("dashboard = %+v, want 6 products and 4 active stores", dash)
	}

	// ── Stock adjustment route ───────────────────────────────────────────────
	resp = get("/api/v1/stock?search=ACCS-001")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/api/v1/stock status = %d, want 200", resp.StatusCode)
	}
	var stockList struct {
		Items []struct {
			ProductID string `json:"product_id"`
			StoreID   string `json:"store_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stockList); err != nil {
		t.Fatalf("decode stock: %v", err)
	}
	if len(stockList.Items) != 1 {
		t.Fatalf("stock rows for ACCS-001 = %d, want 1", len(stockList.Items))
	}
	row := stockList.Items[0]

	adjBody := `{"product_id":"` + row.ProductID + `","store_id":"` + row.StoreID + `","quantity":-1,"recorded_by":"Stocktake"}`
	aResp := postJSON(t, srv, "/api/v1/stock/adjust", adjBody)
	if aResp.StatusCode != http.StatusCreated {
		t.Fatalf("/api/v1/stock/adjust status = %d, want 201", aResp.StatusCode)
	}
	var adj struct {
		Type     string `json:"type"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(aResp.Body).Decode(&adj); err != nil {
		t.Fatalf("decode adjustment: %v", err)
	}
	if adj.Type != "adjustment" || adj.Quantity != -1 {
		t.Errorf("adjustment = %+v, want type adjustment with quantity -1", adj)
	}

	resp = get("/api/v1/stock?search=ACCS-001")
	stockList.Items = nil
	if err := json.NewDecoder(resp.Body).Decode(&stockList); err != nil {
		t.Fatalf("decode stock after adjust: %v", err)
	}
	if len(stockList.Items) != 1 || stockList.Items[0].Quantity != row.Quantity-1 {
		t.Errorf("quantity after adjust = %+v, want %d", stockList.Items, row.Quantity-1)
	}

	// ── Sign/type mismatch is rejected before any write ──────────────────────
	badSale := `{"type":"sale","product_id":"` + row.ProductID + `","store_id":"` + row.StoreID + `","quantity":5}`
	if resp := postJSON(t, srv, "/api/v1/transactions", badSale); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("positive sale status = %d, want 422", resp.StatusCode)
	}

	// ── End-to-end alert email from the live low-stock rows ──────────────────
	body := `{"recipientEmail":"ops@example.com","alerts":` + mustMarshalItems(t, lowStock.Items) + `}`
	pResp := postAlertEmail(t, srv, body)
	if pResp.StatusCode != http.StatusOK {
		t.Fatalf("alert email status = %d, want 200", pResp.StatusCode)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("sent %d emails, want 1", len(mailer.sent))
	}
}

func postJSON(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost,
		srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request %s: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func mustMarshalItems(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}
