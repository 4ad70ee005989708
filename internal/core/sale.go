package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SaleRequest describes a sale of a stock item. Date is the seller's local
// calendar date; blank means today.
type SaleRequest struct {
	ItemID        int64           `json:"item_id"`
	Quantity      int             `json:"quantity"`
	UnitSalePrice decimal.Decimal `json:"unit_sale_price"`
	Date          string          `json:"date,omitempty"`
}

// SaleResult reports the mutated item and the amounts posted.
type SaleResult struct {
	Item    *StockItem      `json:"item"`
	Revenue decimal.Decimal `json:"revenue"`
	COGS    decimal.Decimal `json:"cogs"`
}

// Sale decrements the item's stock and appends the four-line sale posting:
//
//	DR 1001 Cash        / CR 4001 Sales Revenue   (quantity × sale price)
//	DR 5001 COGS        / CR 1200 Finished Goods  (quantity × unit cost)
//
// Validation failures and missing items are rejected before any write. If
// the ledger append fails after the stock write, the engine restores the
// item to its pre-sale state; if that restore fails too, the error is
// marked partially applied.
func (e *Engine) Sale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	if req.Quantity <= 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("quantity sold must be positive, got %d", req.Quantity)}
	}
	if req.UnitSalePrice.IsNegative() {
		return nil, &ValidationError{Reason: fmt.Sprintf("unit sale price cannot be negative, got %s", req.UnitSalePrice)}
	}
	if err := validDate(req.Date); err != nil {
		return nil, err
	}

	item, err := e.stock.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity > item.QtyAvailable {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("cannot sell %d × %s: only %d available", req.Quantity, item.SKU, item.QtyAvailable),
			Cause:  ErrInsufficientStock,
		}
	}

	revenue, cogs := SaleAmounts(req.Quantity, item.UnitCost, req.UnitSalePrice)

	updated := *item
	updated.QtyAvailable -= req.Quantity
	NormalizeItem(&updated)

	if err := e.stock.UpdateItem(ctx, &updated); err != nil {
		return nil, &PersistenceError{Step: StepStockWrite, Err: err}
	}

	desc := fmt.Sprintf("Sale of %d × %s (%s)", req.Quantity, item.SKU, item.Name)
	posting := Posting{Date: localDate(req.Date)}
	// Zero-amount pairs are omitted: a free-of-charge sale posts no revenue
	// pair and a zero-cost item posts no COGS pair.
	if revenue.IsPositive() {
		posting.Lines = append(posting.Lines,
			related(debitLine(AccountCash, revenue, desc), item.ID, RelatedInventoryItem),
			related(creditLine(AccountSalesRevenue, revenue, desc), item.ID, RelatedInventoryItem),
		)
	}
	if cogs.IsPositive() {
		posting.Lines = append(posting.Lines,
			related(debitLine(AccountCOGS, cogs, "COGS for "+desc), item.ID, RelatedInventoryItem),
			related(creditLine(AccountFinishedGoods, cogs, "Inventory relief for "+desc), item.ID, RelatedInventoryItem),
		)
	}
	if len(posting.Lines) == 0 {
		return &SaleResult{Item: &updated, Revenue: revenue, COGS: cogs}, nil
	}

	if err := e.ledger.Append(ctx, posting); err != nil {
		// Compensate: put the item back the way it was. The ledger saw
		// nothing (Append is all-or-nothing), so a successful restore
		// means the whole sale was a no-op.
		restoreErr := e.stock.UpdateItem(ctx, item)
		return nil, &PersistenceError{Step: StepLedgerAppend, Partial: restoreErr != nil, Err: err}
	}

	return &SaleResult{Item: &updated, Revenue: revenue, COGS: cogs}, nil
}
