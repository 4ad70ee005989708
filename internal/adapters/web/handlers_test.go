package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelerp/internal/adapters/web"
	"jewelerp/internal/core"
	"jewelerp/internal/store/memory"
)

type testServer struct {
	handler http.Handler
	mem     *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mem := memory.New()
	engine := core.NewEngine(mem, mem, mem.Orders(), decimal.Decimal{})
	reporter := core.NewReporter(mem, mem, mem.Orders())
	handler := web.NewHandler(engine, reporter, mem, mem, mem.Orders(), mem.Vendors(), nil, "*")
	return &testServer{handler: handler, mem: mem}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) seedItem(t *testing.T, qty int) *core.StockItem {
	t.Helper()
	item, err := ts.mem.CreateItem(context.Background(), &core.StockItem{
		SKU: "RING-001", Name: "Ruby Ring", ItemType: core.ItemFinishedGood,
		Status: core.StatusInStock, QtyAvailable: qty,
		UnitCost: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(250),
	})
	require.NoError(t, err)
	return item
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRecordSale(t *testing.T) {
	ts := newTestServer(t)
	item := ts.seedItem(t, 3)

	rec := ts.do(t, http.MethodPost, "/api/sales", map[string]any{
		"item_id": item.ID, "quantity": 2, "unit_sale_price": "250",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result core.SaleResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Revenue.Equal(decimal.NewFromInt(500)), "revenue = %s", result.Revenue)
	assert.Equal(t, 1, result.Item.QtyAvailable)
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	ts := newTestServer(t)
	item := ts.seedItem(t, 1)

	rec := ts.do(t, http.MethodPost, "/api/sales", map[string]any{
		"item_id": item.ID, "quantity": 5, "unit_sale_price": "250",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_STOCK")
}

func TestRecordSale_UnknownItem(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/sales", map[string]any{
		"item_id": 42, "quantity": 1, "unit_sale_price": "100",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestBadJSONBody(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "BAD_REQUEST")
}

func TestRecordJobAndReceipt_EndToEnd(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	lot, err := ts.mem.CreateLot(ctx, &core.MaterialLot{
		Name: "24K Gold", UnitOfMeasure: core.UnitGram,
		QtyOnHand: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"material_id": lot.ID, "quantity_used": "5",
		"sku": "JOB-001", "name": "Custom Pendant", "total_output_cost": "1000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var jobResult core.JobResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobResult))
	assert.True(t, jobResult.LaborCost.Equal(decimal.NewFromInt(600)), "labor = %s", jobResult.LaborCost)

	rec = ts.do(t, http.MethodPost, "/api/vendors", map[string]any{"name": "Mogok Gem House"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var vendor core.Vendor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vendor))

	rec = ts.do(t, http.MethodPost, "/api/purchase-orders", map[string]any{
		"vendor_id": vendor.ID, "total_amount": "1000",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var po core.PurchaseOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &po))
	assert.Equal(t, core.POPending, po.Status)

	rec = ts.do(t, http.MethodPost, "/api/receipts", map[string]any{
		"purchase_order_id": po.ID, "target": "raw_material",
		"destination_id": lot.ID, "quantity_received": "10",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Receiving the same PO again is rejected.
	rec = ts.do(t, http.MethodPost, "/api/receipts", map[string]any{
		"purchase_order_id": po.ID, "target": "raw_material",
		"destination_id": lot.ID, "quantity_received": "10",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALREADY_RECEIVED")

	rec = ts.do(t, http.MethodGet, "/api/trial-balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []core.TrialBalanceRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	debits, credits := decimal.Zero, decimal.Zero
	for _, row := range rows {
		debits = debits.Add(row.Debits)
		credits = credits.Add(row.Credits)
	}
	assert.True(t, debits.Equal(credits), "trial balance: %s != %s", debits, credits)
}

func TestItemCRUD(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/items", map[string]any{
		"sku": "NECK-001", "name": "Gold Chain", "item_type": "Finished Good", "quantity_available": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var item core.StockItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))

	rec = ts.do(t, http.MethodGet, "/api/items", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/items/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/items/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemCreate_RequiresName(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/items", map[string]any{"sku": "X-001"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOrderCreate_RequiresKnownVendor(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/purchase-orders", map[string]any{
		"vendor_id": 42, "total_amount": "100",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderStatus_ForwardOnlyTransitions(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	lot, err := ts.mem.CreateLot(ctx, &core.MaterialLot{
		Name: "24K Gold", UnitOfMeasure: core.UnitGram,
		QtyOnHand: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	vendor, err := ts.mem.Vendors().Create(ctx, &core.Vendor{Name: "Shwe Nandaw Gold Trading"})
	require.NoError(t, err)
	po, err := ts.mem.Orders().Create(ctx, &core.PurchaseOrder{
		VendorID: vendor.ID, TotalAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	statusPath := fmt.Sprintf("/api/purchase-orders/%d/status", po.ID)
	receiptBody := map[string]any{
		"purchase_order_id": po.ID, "target": "raw_material",
		"destination_id": lot.ID, "quantity_received": "10",
	}

	// A Pending order cannot jump straight to Paid, and receiving must go
	// through the receipts workflow.
	rec := ts.do(t, http.MethodPatch, statusPath, map[string]any{"status": "Paid"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = ts.do(t, http.MethodPatch, statusPath, map[string]any{"status": "Received"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/receipts", receiptBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// A processed order cannot be reset to Pending, so a repeat receipt
	// stays rejected and nothing is double-applied.
	rec = ts.do(t, http.MethodPatch, statusPath, map[string]any{"status": "Pending"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/receipts", receiptBody)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALREADY_RECEIVED")

	afterLot, err := ts.mem.GetLot(ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, afterLot.QtyOnHand.Equal(decimal.NewFromInt(15)), "lot on hand = %s, want 15", afterLot.QtyOnHand)
	entries, err := ts.mem.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	rec = ts.do(t, http.MethodPatch, statusPath, map[string]any{"status": "Paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated core.PurchaseOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, core.POPaid, updated.Status)

	rec = ts.do(t, http.MethodPatch, statusPath, map[string]any{"status": "bogus"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAssist_Unconfigured(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/assist", map[string]any{"event": "paid rent 1200"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "ASSIST_UNAVAILABLE")
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)
	ts.seedItem(t, 3)
	rec := ts.do(t, http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var m core.Metrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.True(t, m.TotalInventoryValue.Equal(decimal.NewFromInt(300)), "inventory value = %s", m.TotalInventoryValue)
}
