// ABOUTME: Integration tests for the data access layer against a Postgres testcontainer.
// ABOUTME: One container per test function; the seed migration provides the base catalog.
package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Rudrakshi123/smartstock/internal/alert"
	"github.com/Rudrakshi123/smartstock/internal/store"
	"github.com/Rudrakshi123/smartstock/internal/testutil"
)

func findProduct(t *testing.T, st *store.Store, sku string) store.ProductRow {
	t.Helper()
	products, err := st.ListProducts(context.Background(), store.ListProductsParams{Search: sku})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	for _, p := range products {
		if p.SKU == sku {
			return p
		}
	}
	t.Fatalf("seed product %s not found", sku)
	return store.ProductRow{}
}

func findStore(t *testing.T, st *store.Store, name string) store.StoreRow {
	t.Helper()
	stores, err := st.ListStores(context.Background(), false)
	if err != nil {
		t.Fatalf("ListStores: %v", err)
	}
	for _, s := range stores {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("seed store %q not found", name)
	return store.StoreRow{}
}

func TestProducts_CRUD(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)
	ctx := context.Background()

	created, err := st.CreateProduct(ctx, store.CreateProductParams{
		SKU:      "ACCS-002",
		Name:     "Wireless Mouse",
		Category: "Accessories",
		Price:    39.99,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.SKU != "ACCS-002" || created.Price != 39.99 {
		t.Errorf("created = %+v", created)
	}

	// Duplicate SKU is rejected.
	if _, err := st.CreateProduct(ctx, store.CreateProductParams{SKU: "ACCS-002", Name: "Dup"}); !errors.Is(err, store.ErrDuplicateSKU) {
		t.Errorf("duplicate create err = %v, want ErrDuplicateSKU", err)
	}

	got, err := st.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got == nil || got.Name != "Wireless Mouse" {
		t.Errorf("got = %+v", got)
	}

	newPrice := 29.99
	updated, err := st.UpdateProduct(ctx, created.ID, store.UpdateProductParams{Price: &newPrice})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Price != 29.99 || updated.Name != "Wireless Mouse" {
		t.Errorf("updated = %+v", updated)
	}

	deleted, err := st.DeleteProduct(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteProduct = %v, %v", deleted, err)
	}
	if got, err := st.GetProduct(ctx, created.ID); err != nil || got != nil {
		t.Errorf("after delete: got = %+v, err = %v", got, err)
	}

	// Unknown ids: (nil, nil) and false, no error.
	if got, err := st.GetProduct(ctx, uuid.New()); err != nil || got != nil {
		t.Errorf("unknown get: %+v, %v", got, err)
	}
	if deleted, err := st.DeleteProduct(ctx, uuid.New()); err != nil || deleted {
		t.Errorf("unknown delete: %v, %v", deleted, err)
	}
}

func TestListProducts_Filters(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)
	ctx := context.Background()

	electronics, err := st.ListProducts(ctx, store.ListProductsParams{Category: "Electronics"})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(electronics) != 3 {
		t.Errorf("electronics count = %d, want 3 from seed", len(electronics))
	}

	byName, err := st.ListProducts(ctx, store.ListProductsParams{Search: "airpods"})
	if err != nil {
		t.Fatalf("ListProducts search: %v", err)
	}
	if len(byName) != 1 || byName[0].SKU != "ACCS-001" {
		t.Errorf("search result = %+v", byName)
	}
}

func TestStores_CRUD(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)
	ctx := context.Background()

	active, err := st.ListStores(ctx, true)
	if err != nil {
		t.Fatalf("ListStores: %v", err)
	}
	// Seed has 4 active stores (Airport Kiosk is inactive).
	if len(active) != 4 {
		t.Errorf("active stores = %d, want 4", len(active))
	}

	downtown := findStore(t, st, "Downtown Store")
	if downtown.ProductsCount != 2 {
		t.Errorf("Downtown ProductsCount = %d, want 2 from seed stock", downtown.ProductsCount)
	}

	inactive := "inactive"
	updated, err := st.UpdateStore(ctx, downtown.ID, store.UpdateStoreParams{Status: &inactive})
	if err != nil {
		t.Fatalf("UpdateStore: %v", err)
	}
	if updated.Status != "inactive" {
		t.Errorf("updated status = %q", updated.Status)
	}

	if _, err := st.CreateStore(ctx, store.CreateStoreParams{Name: "Mall Outlet"}); !errors.Is(err, store.ErrDuplicateStoreName) {
		t.Errorf("duplicate create err = %v, want ErrDuplicateStoreName", err)
	}
}

func TestRecordTransaction_MovesStock(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)
	ctx := context.Background()

	prod := findProduct(t, st, "ACCS-001") // AirPods, Tech Hub seed quantity 5
	shop := findStore(t, st, "Tech Hub")

	row, err := st.RecordTransaction(ctx, store.RecordTransactionParams{
		Type:       store.TxSale,
		ProductID:  prod.ID,
		StoreID:    shop.ID,
		Quantity:   -2,
		RecordedBy: "Jane Doe",
	})
	if err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}
	if row.Quantity != -2 || row.ProductName != "AirPods Pro" || row.StoreName != "Tech Hub" {
		t.Errorf("transaction row = %+v", row)
	}

	storeID := shop.ID
	levels, err := st.ListStock(ctx, store.StockFilter{StoreID: &storeID, Search: "ACCS-001"})
	if err != nil {
		t.Fatalf("ListStock: %v", err)
	}
	if len(levels) != 1 || levels[0].Quantity != 3 {
		t.Errorf("stock after sale = %+v, want quantity 3", levels)
	}
}

func TestRecordTransaction_InsufficientStock(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)
	ctx := context.Background()

	prod := findProduct(t, st, "HOME-001") // Mall Outlet seed quantity 3
	shop := findStore(t, st, "Mall Outlet")

	_, err := st.RecordTransaction(ctx, store.RecordTransactionParams{
		Type:      store.TxSale,
		ProductID: prod.ID,
		StoreID:   shop.ID,
		Quantity:  -10,
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The failed movement must not leave a ledger entry behind.
	txs, err := st.ListTransactions(ctx, store.TransactionFilter{Type: store.TxSale})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	for _, txRow := range txs {
		if txRow.Quantity == -10 {
			t.Error("failed movement left a ledger entry")
		}
	}
}

func TestRecordTransaction_QuantitySign(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)
	ctx := context.Background()

	prod := findProduct(t, st, "ELEC-001")
	shop := findStore(t, st, "Downtown Store")

	cases := []struct {
		name     string
		txType   string
		quantity int
	}{
		{"positive sale", store.TxSale, 5},
		{"negative restock", store.TxRestock, -5},
		{"zero quantity", store.TxAdjustment, 0},
	}
	for _, tc := range cases {
		_, err := st.RecordTransaction(ctx, store.RecordTransactionParams{
			Type:      tc.txType,
			ProductID: prod.ID,
			StoreID:   shop.ID,
			Quantity:  tc.quantity,
		})
		if !errors.Is(err, store.ErrQuantitySign) {
			t.Errorf("%s: err = %v, want ErrQuantitySign", tc.name, err)
		}
	}

	// A positive-quantity sale must not inflate the stock level.
	storeID := shop.ID
	levels, err := st.ListStock(ctx, store.StockFilter{StoreID: &storeID, Search: "ELEC-001"})
	if err != nil {
		t.Fatalf("ListStock: %v", err)
	}
	if len(levels) != 1 || levels[0].Quantity != 45 {
		t.Errorf("stock after rejected movements = %+v, want seed quantity 45", levels)
	}
}

func TestRecordTransaction_UnknownItem(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)

	_, err := st.RecordTransaction(context.Background(), store.RecordTransactionParams{
		Type:      store.TxRestock,
		ProductID: uuid.New(),
		StoreID:   uuid.New(),
		Quantity:  10,
	})
	if !errors.Is(err, store.ErrUnknownItem) {
		t.Fatalf("err = %v, want ErrUnknownItem", err)
	}
}

func TestRecordTransaction_RestockCreatesStockRow(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)
	ctx := context.Background()

	// iPhone is only stocked at Downtown in the seed; restock it at Tech Hub.
	prod := findProduct(t, st, "ELEC-001")
	shop := findStore(t, st, "Tech Hub")

	if _, err := st.RecordTransaction(ctx, store.RecordTransactionParams{
		Type:      store.TxRestock,
		ProductID: prod.ID,
		StoreID:   shop.ID,
		Quantity:  40,
	}); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	storeID := shop.ID
	levels, err := st.ListStock(ctx, store.StockFilter{StoreID: &storeID, Search: "ELEC-001"})
	if err != nil {
		t.Fatalf("ListStock: %v", err)
	}
	if len(levels) != 1 || levels[0].Quantity != 40 {
		t.Errorf("new stock row = %+v, want quantity 40", levels)
	}
}

func TestListStock_BelowMin(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)

	low, err := st.ListStock(context.Background(), store.StockFilter{BelowMin: true})
	if err != nil {
		t.Fatalf("ListStock: %v", err)
	}
	// Seed rows under minimum: Samsung TV (8/10), AirPods (5/25), Thermostat (3/10).
	if len(low) != 3 {
		t.Errorf("below-min rows = %d, want 3", len(low))
	}
}

func TestListLowStock_ThresholdAndShape(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)
	ctx := context.Background()

	items, err := st.ListLowStock(ctx, 10)
	if err != nil {
		t.Fatalf("ListLowStock: %v", err)
	}
	// Seed quantities at or below 10: Thermostat 3, AirPods 5, Samsung TV 8.
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	// Ordered by quantity ascending.
	if items[0].SKU != "HOME-001" || items[1].SKU != "ACCS-001" || items[2].SKU != "ELEC-002" {
		t.Errorf("order = %s, %s, %s", items[0].SKU, items[1].SKU, items[2].SKU)
	}
	for _, it := range items {
		if it.SuggestedReorder != 2*it.MinStock+5 {
			t.Errorf("%s: SuggestedReorder = %d, want %d", it.SKU, it.SuggestedReorder, 2*it.MinStock+5)
		}
		if it.DaysUntilStockout < 0 || it.DaysUntilStockout > 30 {
			t.Errorf("%s: DaysUntilStockout = %d out of range", it.SKU, it.DaysUntilStockout)
		}
	}

	// Negative threshold yields an empty set.
	none, err := st.ListLowStock(ctx, -1)
	if err != nil {
		t.Fatalf("ListLowStock(-1): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("negative threshold items = %d, want 0", len(none))
	}

	// The rows aggregate cleanly through the alert core.
	sum := alert.Aggregate(items)
	if sum.Total != 3 || sum.Total != sum.Critical+sum.Warning+sum.Low {
		t.Errorf("aggregate = %+v", sum)
	}
}

func TestDashboardSummary(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)

	sum, err := st.GetDashboardSummary(context.Background())
	if err != nil {
		t.Fatalf("GetDashboardSummary: %v", err)
	}
	if sum.TotalProducts != 6 {
		t.Errorf("TotalProducts = %d, want 6", sum.TotalProducts)
	}
	if sum.ActiveStores != 4 {
		t.Errorf("ActiveStores = %d, want 4", sum.ActiveStores)
	}
	if sum.LowStockItems != 3 {
		t.Errorf("LowStockItems = %d, want 3", sum.LowStockItems)
	}
	if sum.StockValue <= 0 {
		t.Errorf("StockValue = %f, want positive", sum.StockValue)
	}
}

func TestListStorePerformance(t *testing.T) {
	t.Parallel()
	st := testutil.NewTestDB(t)
	ctx := context.Background()

	// Record a fresh sale so at least one store has in-window revenue
	// regardless of the seed ledger's fixed dates.
	prod := findProduct(t, st, "ELEC-001")
	shop := findStore(t, st, "Downtown Store")
	if _, err := st.RecordTransaction(ctx, store.RecordTransactionParams{
		Type:      store.TxSale,
		ProductID: prod.ID,
		StoreID:   shop.ID,
		Quantity:  -2,
	}); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	perf, err := st.ListStorePerformance(ctx, 30)
	if err != nil {
		t.Fatalf("ListStorePerformance: %v", err)
	}
	if len(perf) != 4 {
		t.Fatalf("rows = %d, want one per active store", len(perf))
	}
	if perf[0].StoreName != "Downtown Store" || perf[0].UnitsSold != 2 {
		t.Errorf("top store = %+v, want Downtown with 2 units", perf[0])
	}
}
