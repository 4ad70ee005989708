package core

import (
	"errors"
	"fmt"
)

// Sentinel causes carried inside ValidationError, for callers that branch on
// the specific rejection rather than the message.
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyReceived   = errors.New("purchase order already received")
)

// NotFoundError reports a referenced item, lot, vendor or PO that does not
// exist. Raised before any mutation.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ValidationError reports input rejected before any write. Fully
// recoverable: the caller can correct the request and retry.
type ValidationError struct {
	Reason string
	Cause  error // optional sentinel, e.g. ErrInsufficientStock
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return e.Cause }

// Step names the engine write that failed, so a PersistenceError tells the
// caller exactly which stage of the sequence broke.
type Step string

const (
	StepOrderUpdate  Step = "purchase order update"
	StepStockWrite   Step = "stock update"
	StepStockCreate  Step = "stock create"
	StepLedgerAppend Step = "ledger append"
)

// PersistenceError reports a failed store write. Partial is true only when
// earlier writes of the same transaction remain applied (compensation also
// failed); callers must treat that case as "check inventory and ledger",
// never as a clean no-op.
type PersistenceError struct {
	Step    Step
	Partial bool
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Partial {
		return fmt.Sprintf("%s failed: %v; transaction partially applied, check inventory and ledger", e.Step, e.Err)
	}
	return fmt.Sprintf("%s failed: %v; no changes were applied", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
