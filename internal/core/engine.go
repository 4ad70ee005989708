package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Engine runs the three transactional workflows (Sale, ManufactureJob,
// ReceivePurchase) that keep finished-goods stock, raw-material stock and
// the general ledger mutually consistent.
//
// Each workflow validates its whole request before the first write, then
// issues its store writes strictly sequentially: a step starts only after
// the previous one was acknowledged. There is no cross-store transaction
// and no in-process locking; concurrent workflows against the same record
// race at the storage layer, last write wins. When a later step fails the
// engine compensates by re-writing the authoritative pre-transaction
// record; if that also fails the returned PersistenceError is marked
// partial so the caller knows to check inventory and ledger rather than
// assume a clean no-op.
type Engine struct {
	stock  StockStore
	ledger LedgerStore
	orders PurchaseOrderStore
	markup decimal.Decimal
}

// NewEngine wires the engine to its stores. A zero markup falls back to
// DefaultMarkupFactor.
func NewEngine(stock StockStore, ledger LedgerStore, orders PurchaseOrderStore, markup decimal.Decimal) *Engine {
	if markup.IsZero() {
		markup = DefaultMarkupFactor
	}
	return &Engine{stock: stock, ledger: ledger, orders: orders, markup: markup}
}

// NormalizeItem applies the status/quantity invariant in one place: an item
// with nothing available is Sold, and a Sold item that regains stock goes
// back to In Stock. Every stock mutation passes through here so the
// invariant cannot be enforced inconsistently across call sites.
func NormalizeItem(item *StockItem) {
	switch {
	case item.QtyAvailable <= 0:
		item.QtyAvailable = 0
		item.Status = StatusSold
	case item.Status == StatusSold:
		item.Status = StatusInStock
	}
}

// validDate rejects a non-blank entry date that does not parse as a
// YYYY-MM-DD calendar date. Each workflow calls this in its precondition
// block so a malformed date is a pre-write rejection, never a failed
// ledger append behind a stock mutation.
func validDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid entry date %q, want YYYY-MM-DD", s)}
	}
	return nil
}

// localDate returns the caller-supplied calendar date, or today's local
// date when blank. Ledger rows carry local dates so an entry never drifts
// into the wrong month through timezone conversion.
func localDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().Format(dateLayout)
	}
	return s
}
