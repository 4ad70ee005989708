package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"jewelerp/internal/core"
	"jewelerp/internal/store/memory"
)

// fixture wires an engine over the in-memory store with optional fault
// injection between the engine and the store.
type fixture struct {
	mem    *memory.Store
	stock  *faultyStock
	ledger *faultyLedger
	engine *core.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.New()
	stock := &faultyStock{StockStore: mem}
	ledger := &faultyLedger{LedgerStore: mem}
	engine := core.NewEngine(stock, ledger, mem.Orders(), decimal.Decimal{})
	return &fixture{mem: mem, stock: stock, ledger: ledger, engine: engine}
}

func (f *fixture) addItem(t *testing.T, qty int, unitCost, unitPrice string) *core.StockItem {
	t.Helper()
	item, err := f.mem.CreateItem(context.Background(), &core.StockItem{
		SKU: "RING-001", Name: "Ruby Ring", ItemType: core.ItemFinishedGood,
		Status: core.StatusInStock, QtyAvailable: qty,
		UnitCost: dec(unitCost), UnitPrice: dec(unitPrice),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func (f *fixture) addLot(t *testing.T, qty, unitCost string) *core.MaterialLot {
	t.Helper()
	lot, err := f.mem.CreateLot(context.Background(), &core.MaterialLot{
		Name: "24K Gold", UnitOfMeasure: core.UnitGram,
		QtyOnHand: dec(qty), UnitCost: dec(unitCost),
	})
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}
	return lot
}

func (f *fixture) addPendingPO(t *testing.T, total string) *core.PurchaseOrder {
	t.Helper()
	ctx := context.Background()
	vendor, err := f.mem.Vendors().Create(ctx, &core.Vendor{Name: "Mogok Gem House"})
	if err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	po, err := f.mem.Orders().Create(ctx, &core.PurchaseOrder{
		VendorID: vendor.ID, Status: core.POPending, TotalAmount: dec(total),
	})
	if err != nil {
		t.Fatalf("create po: %v", err)
	}
	return po
}

func (f *fixture) entries(t *testing.T) []core.LedgerEntry {
	t.Helper()
	entries, err := f.mem.List(context.Background())
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	return entries
}

// assertBalanced checks that the whole ledger has equal debit and credit
// totals and that every row is strictly one-sided.
func assertBalanced(t *testing.T, entries []core.LedgerEntry) {
	t.Helper()
	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Debit.IsPositive() == e.Credit.IsPositive() {
			t.Errorf("entry %d (%s): exactly one of debit/credit must be set, got D=%s C=%s",
				e.ID, e.AccountCode, e.Debit, e.Credit)
		}
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	if !debits.Equal(credits) {
		t.Errorf("ledger imbalance: debits %s != credits %s", debits, credits)
	}
}

func accountTotal(entries []core.LedgerEntry, code string) (debits, credits decimal.Decimal) {
	for _, e := range entries {
		if e.AccountCode == code {
			debits = debits.Add(e.Debit)
			credits = credits.Add(e.Credit)
		}
	}
	return debits, credits
}

var errInjected = errors.New("injected store failure")

// faultyStock passes through to the real store until a failure flag trips.
type faultyStock struct {
	core.StockStore
	failUpdateItem      bool
	failUpdateLot       bool
	failCreateItem      bool
	failDeleteItem      bool
	updateItemCalls     int
	failUpdateItemAfter int // fail calls numbered > this when failUpdateItem is set
}

func (s *faultyStock) UpdateItem(ctx context.Context, item *core.StockItem) error {
	s.updateItemCalls++
	if s.failUpdateItem && s.updateItemCalls > s.failUpdateItemAfter {
		return errInjected
	}
	return s.StockStore.UpdateItem(ctx, item)
}

func (s *faultyStock) UpdateLot(ctx context.Context, lot *core.MaterialLot) error {
	if s.failUpdateLot {
		return errInjected
	}
	return s.StockStore.UpdateLot(ctx, lot)
}

func (s *faultyStock) CreateItem(ctx context.Context, item *core.StockItem) (*core.StockItem, error) {
	if s.failCreateItem {
		return nil, errInjected
	}
	return s.StockStore.CreateItem(ctx, item)
}

func (s *faultyStock) DeleteItem(ctx context.Context, id int64) error {
	if s.failDeleteItem {
		return errInjected
	}
	return s.StockStore.DeleteItem(ctx, id)
}

type faultyLedger struct {
	core.LedgerStore
	failAppend bool
}

func (l *faultyLedger) Append(ctx context.Context, posting core.Posting) error {
	if l.failAppend {
		return errInjected
	}
	return l.LedgerStore.Append(ctx, posting)
}

func TestNormalizeItem(t *testing.T) {
	item := &core.StockItem{QtyAvailable: 0, Status: core.StatusInStock}
	core.NormalizeItem(item)
	if item.Status != core.StatusSold {
		t.Errorf("zero quantity: status = %s, want Sold", item.Status)
	}

	item = &core.StockItem{QtyAvailable: -2, Status: core.StatusInStock}
	core.NormalizeItem(item)
	if item.QtyAvailable != 0 || item.Status != core.StatusSold {
		t.Errorf("negative quantity: got qty=%d status=%s, want 0/Sold", item.QtyAvailable, item.Status)
	}

	item = &core.StockItem{QtyAvailable: 3, Status: core.StatusSold}
	core.NormalizeItem(item)
	if item.Status != core.StatusInStock {
		t.Errorf("restocked sold item: status = %s, want In Stock", item.Status)
	}

	item = &core.StockItem{QtyAvailable: 3, Status: core.StatusReserved}
	core.NormalizeItem(item)
	if item.Status != core.StatusReserved {
		t.Errorf("reserved item with stock: status = %s, want untouched", item.Status)
	}
}
