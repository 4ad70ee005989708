package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultMarkupFactor is the retail markup applied when the engine prices a
// freshly created finished good (manufacturing output or a new receipt).
var DefaultMarkupFactor = decimal.NewFromFloat(1.5)

// SaleAmounts returns the revenue and cost-of-goods-sold for a sale of
// qty units at unitSalePrice, costed at the item's current unit cost.
func SaleAmounts(qty int, unitCost, unitSalePrice decimal.Decimal) (revenue, cogs decimal.Decimal) {
	q := decimal.NewFromInt(int64(qty))
	return q.Mul(unitSalePrice), q.Mul(unitCost)
}

// JobCost splits a manufacturing job's total output cost into the material
// cost (quantity used × lot unit cost) and the labor remainder. The caller
// supplies the finished total; labor is whatever is left and may come out
// negative when the supplied total is inconsistent; that is not validated
// here, the posting layer flips the sign onto the debit side instead.
func JobCost(qtyUsed, materialUnitCost, totalOutputCost decimal.Decimal) (materialCost, laborCost decimal.Decimal) {
	materialCost = qtyUsed.Mul(materialUnitCost)
	laborCost = totalOutputCost.Sub(materialCost)
	return materialCost, laborCost
}

// ReceiptUnitCost derives the per-unit cost of a purchase receipt from the
// PO total. qtyReceived must be positive, the guard doubles as the
// division-by-zero check.
func ReceiptUnitCost(totalAmount, qtyReceived decimal.Decimal) (decimal.Decimal, error) {
	if !qtyReceived.IsPositive() {
		return decimal.Zero, &ValidationError{
			Reason: fmt.Sprintf("received quantity must be positive, got %s", qtyReceived),
		}
	}
	return totalAmount.Div(qtyReceived), nil
}

// WeightedAverageCost blends an existing stock record's cost basis with a
// new receipt:
//
//	new_cost = (on_hand × unit_cost + receipt_total) / (on_hand + qty_received)
//
// The result always lies between the existing unit cost and the receipt's
// own unit cost. qtyReceived must be positive (callers go through
// ReceiptUnitCost first).
func WeightedAverageCost(onHand, unitCost, qtyReceived, receiptTotal decimal.Decimal) decimal.Decimal {
	newQty := onHand.Add(qtyReceived)
	return onHand.Mul(unitCost).Add(receiptTotal).Div(newQty)
}
