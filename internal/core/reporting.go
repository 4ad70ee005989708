package core

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// Metrics is the dashboard snapshot: stock valuations at current unit
// cost, exposure on open purchase orders, and lifetime gross profit taken
// from the ledger (sales revenue credits minus COGS debits).
type Metrics struct {
	TotalInventoryValue   decimal.Decimal `json:"total_inventory_value"`
	TotalRawMaterialValue decimal.Decimal `json:"total_raw_material_value"`
	OpenPOValue           decimal.Decimal `json:"open_po_value"`
	GrossProfit           decimal.Decimal `json:"gross_profit"`
	ItemCount             int             `json:"item_count"`
	LowStockCount         int             `json:"low_stock_count"`
}

// TrialBalanceRow aggregates one account's lifetime debits and credits.
type TrialBalanceRow struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Debits      decimal.Decimal `json:"debits"`
	Credits     decimal.Decimal `json:"credits"`
}

// Reporter derives read-only views from the stores. It never writes.
type Reporter struct {
	stock  StockStore
	ledger LedgerStore
	orders PurchaseOrderStore
}

func NewReporter(stock StockStore, ledger LedgerStore, orders PurchaseOrderStore) *Reporter {
	return &Reporter{stock: stock, ledger: ledger, orders: orders}
}

func (r *Reporter) Metrics(ctx context.Context) (*Metrics, error) {
	items, err := r.stock.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	lots, err := r.stock.ListLots(ctx)
	if err != nil {
		return nil, err
	}
	pos, err := r.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := r.ledger.List(ctx)
	if err != nil {
		return nil, err
	}

	m := &Metrics{}
	for _, it := range items {
		if it.Status == StatusSold {
			continue
		}
		m.ItemCount++
		m.TotalInventoryValue = m.TotalInventoryValue.Add(
			it.UnitCost.Mul(decimal.NewFromInt(int64(it.QtyAvailable))))
		if it.ReorderThreshold > 0 && it.QtyAvailable <= it.ReorderThreshold {
			m.LowStockCount++
		}
	}
	for _, lot := range lots {
		m.TotalRawMaterialValue = m.TotalRawMaterialValue.Add(lot.QtyOnHand.Mul(lot.UnitCost))
	}
	for _, po := range pos {
		if po.Status == POPending {
			m.OpenPOValue = m.OpenPOValue.Add(po.TotalAmount)
		}
	}
	for _, e := range entries {
		switch e.AccountCode {
		case AccountSalesRevenue:
			m.GrossProfit = m.GrossProfit.Add(e.Credit).Sub(e.Debit)
		case AccountCOGS:
			m.GrossProfit = m.GrossProfit.Sub(e.Debit).Add(e.Credit)
		}
	}
	return m, nil
}

// TrialBalance sums every ledger row into per-account debit and credit
// totals, sorted by account code. Because every posting is balanced at
// append time, total debits equal total credits across the returned rows.
func (r *Reporter) TrialBalance(ctx context.Context) ([]TrialBalanceRow, error) {
	entries, err := r.ledger.List(ctx)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*TrialBalanceRow)
	for _, e := range entries {
		row, ok := byCode[e.AccountCode]
		if !ok {
			row = &TrialBalanceRow{AccountCode: e.AccountCode, AccountName: AccountNames[e.AccountCode]}
			byCode[e.AccountCode] = row
		}
		row.Debits = row.Debits.Add(e.Debit)
		row.Credits = row.Credits.Add(e.Credit)
	}

	rows := make([]TrialBalanceRow, 0, len(byCode))
	for _, row := range byCode {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountCode < rows[j].AccountCode })
	return rows, nil
}
