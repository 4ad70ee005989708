package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// JobRequest describes a manufacturing job: consume raw material, produce
// one finished good. TotalOutputCost is the caller-supplied landed cost of
// the output; the labor share is inferred as the remainder over the
// material cost.
type JobRequest struct {
	MaterialID      int64           `json:"material_id"`
	QuantityUsed    decimal.Decimal `json:"quantity_used"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Location        string          `json:"location,omitempty"`
	TotalOutputCost decimal.Decimal `json:"total_output_cost"`
	Date            string          `json:"date,omitempty"`
}

// JobResult reports the created finished good and the cost split.
type JobResult struct {
	Item         *StockItem      `json:"item"`
	MaterialCost decimal.Decimal `json:"material_cost"`
	LaborCost    decimal.Decimal `json:"labor_cost"`
}

// ManufactureJob decrements the raw-material lot, creates the finished
// good (quantity 1, priced at cost × markup) and appends the job posting:
//
//	CR 1100 Raw Material   (material cost)
//	CR 5002 Labor/Overhead (labor remainder)
//	DR 1200 Finished Goods (total output cost, related to the new item)
//
// The posting balances by construction since labor is derived as the
// remainder. Consuming more material than the lot holds is rejected before
// any write. If a later step fails after the material decrement, the lot
// (and any created item) is restored; a failed restore surfaces as a
// partially-applied PersistenceError.
func (e *Engine) ManufactureJob(ctx context.Context, req JobRequest) (*JobResult, error) {
	if !req.QuantityUsed.IsPositive() {
		return nil, &ValidationError{Reason: fmt.Sprintf("quantity used must be positive, got %s", req.QuantityUsed)}
	}
	if req.TotalOutputCost.IsNegative() {
		return nil, &ValidationError{Reason: fmt.Sprintf("total output cost cannot be negative, got %s", req.TotalOutputCost)}
	}
	if req.SKU == "" {
		return nil, &ValidationError{Reason: "output SKU is required"}
	}
	if err := validDate(req.Date); err != nil {
		return nil, err
	}

	lot, err := e.stock.GetLot(ctx, req.MaterialID)
	if err != nil {
		return nil, err
	}

	if req.QuantityUsed.GreaterThan(lot.QtyOnHand) {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("cannot use %s %s of %s: only %s on hand",
				req.QuantityUsed, lot.UnitOfMeasure, lot.Name, lot.QtyOnHand),
			Cause: ErrInsufficientStock,
		}
	}

	materialCost, laborCost := JobCost(req.QuantityUsed, lot.UnitCost, req.TotalOutputCost)

	updatedLot := *lot
	updatedLot.QtyOnHand = lot.QtyOnHand.Sub(req.QuantityUsed)
	if err := e.stock.UpdateLot(ctx, &updatedLot); err != nil {
		return nil, &PersistenceError{Step: StepStockWrite, Err: err}
	}

	name := req.Name
	if name == "" {
		name = "Custom Job"
	}
	location := req.Location
	if location == "" {
		location = "Manufacturing Output"
	}
	item := &StockItem{
		SKU:          req.SKU,
		Name:         name,
		ItemType:     ItemFinishedGood,
		Status:       StatusInStock,
		Location:     location,
		QtyAvailable: 1,
		UnitCost:     req.TotalOutputCost,
		UnitPrice:    req.TotalOutputCost.Mul(e.markup),
	}
	created, err := e.stock.CreateItem(ctx, item)
	if err != nil {
		restoreErr := e.stock.UpdateLot(ctx, lot)
		return nil, &PersistenceError{Step: StepStockCreate, Partial: restoreErr != nil, Err: err}
	}

	desc := fmt.Sprintf("Manufacturing job %s (%s)", created.SKU, created.Name)
	posting := Posting{Date: localDate(req.Date)}
	if materialCost.IsPositive() {
		posting.Lines = append(posting.Lines,
			related(creditLine(AccountRawMaterial, materialCost, desc+" / material"), lot.ID, RelatedRawMaterial))
	}
	switch {
	case laborCost.IsPositive():
		posting.Lines = append(posting.Lines, creditLine(AccountLabor, laborCost, desc+" / labor"))
	case laborCost.IsNegative():
		// Caller supplied a total below the material cost. Not rejected;
		// the shortfall debits labor so the posting still balances.
		posting.Lines = append(posting.Lines, debitLine(AccountLabor, laborCost.Neg(), desc+" / labor shortfall"))
	}
	if req.TotalOutputCost.IsPositive() {
		posting.Lines = append(posting.Lines,
			related(debitLine(AccountFinishedGoods, req.TotalOutputCost, desc), created.ID, RelatedInventoryItem))
	}

	if len(posting.Lines) >= 2 {
		if err := e.ledger.Append(ctx, posting); err != nil {
			deleteErr := e.stock.DeleteItem(ctx, created.ID)
			restoreErr := e.stock.UpdateLot(ctx, lot)
			return nil, &PersistenceError{
				Step:    StepLedgerAppend,
				Partial: deleteErr != nil || restoreErr != nil,
				Err:     err,
			}
		}
	}

	return &JobResult{Item: created, MaterialCost: materialCost, LaborCost: laborCost}, nil
}
