package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"jewelerp/internal/ai"
	"jewelerp/internal/core"
	"jewelerp/internal/logging"
)

const maxBodyBytes = 1 << 20

// Handler wires the HTTP surface: CRUD for the stock, purchasing and
// vendor tables, the three transactional workflows, the reporting reads,
// and the optional posting-draft assistant.
type Handler struct {
	engine   *core.Engine
	reporter *core.Reporter
	stock    core.StockStore
	ledger   core.LedgerStore
	orders   core.PurchaseOrderStore
	vendors  core.VendorStore
	agent    *ai.Agent
}

// NewHandler builds the chi router. agent may be nil; the assist endpoint
// then responds 503.
func NewHandler(engine *core.Engine, reporter *core.Reporter,
	stock core.StockStore, ledger core.LedgerStore,
	orders core.PurchaseOrderStore, vendors core.VendorStore,
	agent *ai.Agent, allowedOrigins string) http.Handler {

	h := &Handler{
		engine:   engine,
		reporter: reporter,
		stock:    stock,
		ledger:   ledger,
		orders:   orders,
		vendors:  vendors,
		agent:    agent,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(maxBodyBytes))

	r.Get("/api/health", h.health)

	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", h.listItems)
		r.Post("/", h.createItem)
		r.Get("/{id}", h.getItem)
		r.Put("/{id}", h.updateItem)
		r.Delete("/{id}", h.deleteItem)
	})

	r.Route("/api/materials", func(r chi.Router) {
		r.Get("/", h.listLots)
		r.Post("/", h.createLot)
		r.Get("/{id}", h.getLot)
		r.Put("/{id}", h.updateLot)
		r.Delete("/{id}", h.deleteLot)
	})

	r.Route("/api/vendors", func(r chi.Router) {
		r.Get("/", h.listVendors)
		r.Post("/", h.createVendor)
		r.Get("/{id}", h.getVendor)
		r.Delete("/{id}", h.deleteVendor)
	})

	r.Route("/api/purchase-orders", func(r chi.Router) {
		r.Get("/", h.listOrders)
		r.Post("/", h.createOrder)
		r.Get("/{id}", h.getOrder)
		r.Patch("/{id}/status", h.updateOrderStatus)
		r.Delete("/{id}", h.deleteOrder)
	})

	r.Post("/api/sales", h.recordSale)
	r.Post("/api/jobs", h.recordJob)
	r.Post("/api/receipts", h.recordReceipt)

	r.Get("/api/ledger", h.listLedger)
	r.Get("/api/metrics", h.metrics)
	r.Get("/api/trial-balance", h.trialBalance)

	r.Post("/api/assist", h.assist)

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// --- workflows ---

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req core.SaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.engine.Sale(r.Context(), req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("sale recorded",
		"item_id", req.ItemID, "quantity", req.Quantity, "revenue", result.Revenue)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) recordJob(w http.ResponseWriter, r *http.Request) {
	var req core.JobRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.engine.ManufactureJob(r.Context(), req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("manufacturing job recorded",
		"material_id", req.MaterialID, "item_id", result.Item.ID)
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) recordReceipt(w http.ResponseWriter, r *http.Request) {
	var req core.ReceiptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.engine.ReceivePurchase(r.Context(), req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("purchase receipt recorded",
		"purchase_order_id", req.POID, "unit_cost", result.UnitCost)
	writeJSON(w, http.StatusOK, result)
}

// --- reporting ---

func (h *Handler) listLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.List(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.reporter.Metrics(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) trialBalance(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reporter.TrialBalance(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// --- assistant ---

type assistRequest struct {
	Event string `json:"event"`
}

type assistResponse struct {
	Draft *ai.PostingDraft `json:"draft"`
}

func (h *Handler) assist(w http.ResponseWriter, r *http.Request) {
	if h.agent == nil {
		writeError(w, r, "assistant is not configured", "ASSIST_UNAVAILABLE", http.StatusServiceUnavailable)
		return
	}
	var req assistRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Event == "" {
		writeError(w, r, "event description is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	draft, err := h.agent.DraftPosting(r.Context(), req.Event)
	if err != nil {
		writeError(w, r, err.Error(), "ASSIST_FAILED", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, assistResponse{Draft: draft})
}

// --- stock items ---

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.stock.ListItems(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	item, err := h.stock.GetItem(r.Context(), id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var item core.StockItem
	if !decodeJSON(w, r, &item) {
		return
	}
	if item.Name == "" {
		writeError(w, r, "name is required", "VALIDATION_FAILED", http.StatusUnprocessableEntity)
		return
	}
	if item.Status == "" {
		item.Status = core.StatusInStock
	}
	core.NormalizeItem(&item)
	created, err := h.stock.CreateItem(r.Context(), &item)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var item core.StockItem
	if !decodeJSON(w, r, &item) {
		return
	}
	item.ID = id
	core.NormalizeItem(&item)
	if err := h.stock.UpdateItem(r.Context(), &item); err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.stock.DeleteItem(r.Context(), id); err != nil {
		writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- raw materials ---

func (h *Handler) listLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.stock.ListLots(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lots)
}

func (h *Handler) getLot(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	lot, err := h.stock.GetLot(r.Context(), id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

func (h *Handler) createLot(w http.ResponseWriter, r *http.Request) {
	var lot core.MaterialLot
	if !decodeJSON(w, r, &lot) {
		return
	}
	if lot.Name == "" {
		writeError(w, r, "name is required", "VALIDATION_FAILED", http.StatusUnprocessableEntity)
		return
	}
	if lot.UnitOfMeasure == "" {
		lot.UnitOfMeasure = core.UnitGram
	}
	created, err := h.stock.CreateLot(r.Context(), &lot)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateLot(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var lot core.MaterialLot
	if !decodeJSON(w, r, &lot) {
		return
	}
	lot.ID = id
	if err := h.stock.UpdateLot(r.Context(), &lot); err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

func (h *Handler) deleteLot(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.stock.DeleteLot(r.Context(), id); err != nil {
		writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- vendors ---

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.vendors.List(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	vendor, err := h.vendors.Get(r.Context(), id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var vendor core.Vendor
	if !decodeJSON(w, r, &vendor) {
		return
	}
	if vendor.Name == "" {
		writeError(w, r, "name is required", "VALIDATION_FAILED", http.StatusUnprocessableEntity)
		return
	}
	created, err := h.vendors.Create(r.Context(), &vendor)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) deleteVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.vendors.Delete(r.Context(), id); err != nil {
		writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- purchase orders ---

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	po, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, po)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var po core.PurchaseOrder
	if !decodeJSON(w, r, &po) {
		return
	}
	if po.VendorID == 0 {
		writeError(w, r, "vendor_id is required", "VALIDATION_FAILED", http.StatusUnprocessableEntity)
		return
	}
	if _, err := h.vendors.Get(r.Context(), po.VendorID); err != nil {
		writeEngineError(w, r, err)
		return
	}
	if po.TotalAmount.IsNegative() {
		writeError(w, r, "total_amount cannot be negative", "VALIDATION_FAILED", http.StatusUnprocessableEntity)
		return
	}
	created, err := h.orders.Create(r.Context(), &po)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type orderStatusRequest struct {
	Status core.POStatus `json:"status"`
}

// updateOrderStatus covers the manual lifecycle transitions. The lifecycle
// is one-way (Pending, Received, Paid): receiving goods goes through
// /api/receipts so stock and ledger move together, only a Received order
// can be marked Paid, and a processed order is never reset to Pending,
// which would re-arm the receipt endpoint for a double receipt.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req orderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	po, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	switch req.Status {
	case core.POReceived:
		writeError(w, r, "use the receipts endpoint to receive a purchase order", "VALIDATION_FAILED", http.StatusUnprocessableEntity)
		return
	case core.POPending:
		writeError(w, r, "a purchase order cannot be reset to Pending", "VALIDATION_FAILED", http.StatusUnprocessableEntity)
		return
	case core.POPaid:
		if po.Status != core.POReceived {
			writeError(w, r, fmt.Sprintf("cannot mark a %s purchase order Paid", po.Status), "VALIDATION_FAILED", http.StatusUnprocessableEntity)
			return
		}
	default:
		writeError(w, r, "unknown status "+string(req.Status), "VALIDATION_FAILED", http.StatusUnprocessableEntity)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeEngineError(w, r, err)
		return
	}
	po.Status = req.Status
	writeJSON(w, http.StatusOK, po)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
