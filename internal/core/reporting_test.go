package core_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"jewelerp/internal/core"
)

func TestReporter_Metrics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := core.NewReporter(f.mem, f.mem, f.mem.Orders())

	item := f.addItem(t, 3, "100", "250")      // 300 of inventory value
	f.addLot(t, "10", "80")                    // 800 of raw material value
	f.addPendingPO(t, "1000")                  // open PO exposure
	if _, err := f.engine.Sale(ctx, core.SaleRequest{
		ItemID: item.ID, Quantity: 2, UnitSalePrice: dec("250"),
	}); err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	m, err := reporter.Metrics(ctx)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}

	if !m.TotalInventoryValue.Equal(dec("100")) {
		t.Errorf("inventory value = %s, want 100 (1 remaining at cost 100)", m.TotalInventoryValue)
	}
	if !m.TotalRawMaterialValue.Equal(dec("800")) {
		t.Errorf("raw material value = %s, want 800", m.TotalRawMaterialValue)
	}
	if !m.OpenPOValue.Equal(dec("1000")) {
		t.Errorf("open PO value = %s, want 1000", m.OpenPOValue)
	}
	if !m.GrossProfit.Equal(dec("300")) {
		t.Errorf("gross profit = %s, want 500 revenue - 200 cogs = 300", m.GrossProfit)
	}
	if m.ItemCount != 1 {
		t.Errorf("item count = %d, want 1", m.ItemCount)
	}
}

func TestReporter_Metrics_SkipsSoldItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := core.NewReporter(f.mem, f.mem, f.mem.Orders())

	item := f.addItem(t, 1, "100", "250")
	if _, err := f.engine.Sale(ctx, core.SaleRequest{
		ItemID: item.ID, Quantity: 1, UnitSalePrice: dec("250"),
	}); err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	m, err := reporter.Metrics(ctx)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	if !m.TotalInventoryValue.IsZero() || m.ItemCount != 0 {
		t.Errorf("sold-out item still counted: value=%s count=%d", m.TotalInventoryValue, m.ItemCount)
	}
}

func TestReporter_TrialBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := core.NewReporter(f.mem, f.mem, f.mem.Orders())

	item := f.addItem(t, 3, "100", "250")
	lot := f.addLot(t, "10", "80")
	po := f.addPendingPO(t, "1000")

	if _, err := f.engine.Sale(ctx, core.SaleRequest{ItemID: item.ID, Quantity: 2, UnitSalePrice: dec("250")}); err != nil {
		t.Fatalf("sale failed: %v", err)
	}
	if _, err := f.engine.ManufactureJob(ctx, core.JobRequest{
		MaterialID: lot.ID, QuantityUsed: dec("5"), SKU: "JOB-001", TotalOutputCost: dec("1000"),
	}); err != nil {
		t.Fatalf("job failed: %v", err)
	}
	if _, err := f.engine.ReceivePurchase(ctx, core.ReceiptRequest{
		POID: po.ID, Target: core.TargetRawMaterial, DestinationID: &lot.ID, QuantityReceived: dec("10"),
	}); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}

	rows, err := reporter.TrialBalance(ctx)
	if err != nil {
		t.Fatalf("trial balance failed: %v", err)
	}

	debits, credits := decimal.Zero, decimal.Zero
	for i, row := range rows {
		if i > 0 && rows[i-1].AccountCode >= row.AccountCode {
			t.Errorf("rows not sorted: %s before %s", rows[i-1].AccountCode, row.AccountCode)
		}
		if row.AccountName == "" {
			t.Errorf("account %s has no display name", row.AccountCode)
		}
		debits = debits.Add(row.Debits)
		credits = credits.Add(row.Credits)
	}
	if !debits.Equal(credits) {
		t.Errorf("trial balance out of balance: debits %s != credits %s", debits, credits)
	}
	if !debits.IsPositive() {
		t.Error("trial balance is empty after three workflows")
	}
}
