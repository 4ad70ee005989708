package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ReceiptTarget selects which stock table a purchase receipt lands in.
type ReceiptTarget string

const (
	TargetRawMaterial  ReceiptTarget = "raw_material"
	TargetFinishedGood ReceiptTarget = "inventory"
)

// ReceiptRequest describes goods arriving against a pending purchase
// order. DestinationID nil means "create a new record" from the New*
// fields; otherwise the existing record is incremented and recosted by
// weighted average.
type ReceiptRequest struct {
	POID             int64           `json:"purchase_order_id"`
	Target           ReceiptTarget   `json:"target"`
	DestinationID    *int64          `json:"destination_id,omitempty"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	NewName          string          `json:"new_name,omitempty"`
	NewSKU           string          `json:"new_sku,omitempty"`
	NewItemType      ItemType        `json:"new_item_type,omitempty"`
	NewUnit          UnitOfMeasure   `json:"new_unit,omitempty"`
	Location         string          `json:"location,omitempty"`
	Date             string          `json:"date,omitempty"`
}

// ReceiptResult reports the unit cost of this receipt and the stock record
// it landed in (exactly one of Item/Lot is set).
type ReceiptResult struct {
	UnitCost decimal.Decimal `json:"unit_cost"`
	Item     *StockItem      `json:"item,omitempty"`
	Lot      *MaterialLot    `json:"lot,omitempty"`
}

// ReceivePurchase processes a goods receipt in three sequential writes:
// mark the PO Received, mutate (or create) the destination stock record,
// append the balanced posting
//
//	DR 1100 Raw Material | 1200 Finished Goods   (PO total, per target)
//	CR 2000 Accounts Payable                     (PO total)
//
// both related to the PO. The Pending-status guard makes the operation
// idempotent: a second receipt of the same PO is rejected before any write,
// so the ledger is never double-posted and stock never double-incremented.
// A failure at any step aborts the remaining steps and compensates the
// earlier ones, leaving the PO either fully processed or still Pending.
func (e *Engine) ReceivePurchase(ctx context.Context, req ReceiptRequest) (*ReceiptResult, error) {
	if req.Target != TargetRawMaterial && req.Target != TargetFinishedGood {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown receipt target %q", req.Target)}
	}
	if err := validDate(req.Date); err != nil {
		return nil, err
	}

	po, err := e.orders.Get(ctx, req.POID)
	if err != nil {
		return nil, err
	}
	if po.Status != POPending {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("purchase order %d is already %s", po.ID, po.Status),
			Cause:  ErrAlreadyReceived,
		}
	}

	// Division guard: also rejects the zero-quantity receipt before any write.
	unitCost, err := ReceiptUnitCost(po.TotalAmount, req.QuantityReceived)
	if err != nil {
		return nil, err
	}

	// Resolve the destination up front so a bad reference is a clean
	// rejection, not a mid-sequence failure.
	var (
		existingItem *StockItem
		existingLot  *MaterialLot
	)
	if req.DestinationID != nil {
		switch req.Target {
		case TargetRawMaterial:
			if existingLot, err = e.stock.GetLot(ctx, *req.DestinationID); err != nil {
				return nil, err
			}
		case TargetFinishedGood:
			if existingItem, err = e.stock.GetItem(ctx, *req.DestinationID); err != nil {
				return nil, err
			}
		}
	} else if req.NewName == "" {
		return nil, &ValidationError{Reason: "a name is required for a new stock record"}
	}

	var qtyWhole int
	if req.Target == TargetFinishedGood {
		if !req.QuantityReceived.Equal(req.QuantityReceived.Truncate(0)) {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("finished goods are counted in whole units, got %s", req.QuantityReceived),
			}
		}
		qtyWhole = int(req.QuantityReceived.IntPart())
	}

	// Step 1: flip the PO to Received.
	if err := e.orders.UpdateStatus(ctx, po.ID, POReceived); err != nil {
		return nil, &PersistenceError{Step: StepOrderUpdate, Err: err}
	}

	// Step 2: stock mutation.
	result := &ReceiptResult{UnitCost: unitCost}
	var undoStock func() error

	switch {
	case req.Target == TargetRawMaterial && existingLot == nil:
		unit := req.NewUnit
		if unit == "" {
			unit = UnitGram
		}
		created, err := e.stock.CreateLot(ctx, &MaterialLot{
			Name:          req.NewName,
			UnitOfMeasure: unit,
			QtyOnHand:     req.QuantityReceived,
			UnitCost:      unitCost,
		})
		if err != nil {
			return nil, e.failReceipt(ctx, po, StepStockCreate, err, nil)
		}
		result.Lot = created
		undoStock = func() error { return e.stock.DeleteLot(ctx, created.ID) }

	case req.Target == TargetRawMaterial:
		updated := *existingLot
		updated.UnitCost = WeightedAverageCost(existingLot.QtyOnHand, existingLot.UnitCost, req.QuantityReceived, po.TotalAmount)
		updated.QtyOnHand = existingLot.QtyOnHand.Add(req.QuantityReceived)
		if err := e.stock.UpdateLot(ctx, &updated); err != nil {
			return nil, e.failReceipt(ctx, po, StepStockWrite, err, nil)
		}
		result.Lot = &updated
		undoStock = func() error { return e.stock.UpdateLot(ctx, existingLot) }

	case req.Target == TargetFinishedGood && existingItem == nil:
		itemType := req.NewItemType
		if itemType == "" {
			itemType = ItemFinishedGood
		}
		item := &StockItem{
			SKU:          req.NewSKU,
			Name:         req.NewName,
			ItemType:     itemType,
			Status:       StatusInStock,
			Location:     req.Location,
			QtyAvailable: qtyWhole,
			UnitCost:     unitCost,
			UnitPrice:    unitCost.Mul(e.markup),
		}
		NormalizeItem(item)
		created, err := e.stock.CreateItem(ctx, item)
		if err != nil {
			return nil, e.failReceipt(ctx, po, StepStockCreate, err, nil)
		}
		result.Item = created
		undoStock = func() error { return e.stock.DeleteItem(ctx, created.ID) }

	default:
		updated := *existingItem
		updated.UnitCost = WeightedAverageCost(
			decimal.NewFromInt(int64(existingItem.QtyAvailable)), existingItem.UnitCost,
			req.QuantityReceived, po.TotalAmount)
		updated.QtyAvailable = existingItem.QtyAvailable + qtyWhole
		NormalizeItem(&updated)
		if err := e.stock.UpdateItem(ctx, &updated); err != nil {
			return nil, e.failReceipt(ctx, po, StepStockWrite, err, nil)
		}
		result.Item = &updated
		undoStock = func() error { return e.stock.UpdateItem(ctx, existingItem) }
	}

	// Step 3: ledger posting.
	if po.TotalAmount.IsPositive() {
		inventoryAccount := AccountFinishedGoods
		if req.Target == TargetRawMaterial {
			inventoryAccount = AccountRawMaterial
		}
		desc := fmt.Sprintf("Goods receipt for PO %d", po.ID)
		posting := Posting{
			Date: localDate(req.Date),
			Lines: []PostingLine{
				related(debitLine(inventoryAccount, po.TotalAmount, desc), po.ID, RelatedPurchaseOrder),
				related(creditLine(AccountAccountsPayable, po.TotalAmount, desc), po.ID, RelatedPurchaseOrder),
			},
		}
		if err := e.ledger.Append(ctx, posting); err != nil {
			return nil, e.failReceipt(ctx, po, StepLedgerAppend, err, undoStock)
		}
	}

	return result, nil
}

// failReceipt compensates a receipt that broke mid-sequence: the stock
// mutation (if any) is undone and the PO is put back to Pending, so the
// rejected receipt can simply be retried. If any compensating write fails,
// the returned error is marked partial.
func (e *Engine) failReceipt(ctx context.Context, po *PurchaseOrder, step Step, cause error, undoStock func() error) error {
	partial := false
	if undoStock != nil {
		if err := undoStock(); err != nil {
			partial = true
		}
	}
	if err := e.orders.UpdateStatus(ctx, po.ID, POPending); err != nil {
		partial = true
	}
	return &PersistenceError{Step: step, Partial: partial, Err: cause}
}
