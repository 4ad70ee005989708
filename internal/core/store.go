package core

import "context"

// StockStore persists both stock tables: finished-goods items and
// raw-material lots. Get returns *NotFoundError when the id is unknown.
// Implementations back onto PostgreSQL in production and an in-memory map
// in tests; the engine only ever sees this contract.
type StockStore interface {
	GetItem(ctx context.Context, id int64) (*StockItem, error)
	ListItems(ctx context.Context) ([]StockItem, error)
	CreateItem(ctx context.Context, item *StockItem) (*StockItem, error)
	UpdateItem(ctx context.Context, item *StockItem) error
	DeleteItem(ctx context.Context, id int64) error

	GetLot(ctx context.Context, id int64) (*MaterialLot, error)
	ListLots(ctx context.Context) ([]MaterialLot, error)
	CreateLot(ctx context.Context, lot *MaterialLot) (*MaterialLot, error)
	UpdateLot(ctx context.Context, lot *MaterialLot) error
	DeleteLot(ctx context.Context, id int64) error
}

// LedgerStore is append-only: a posting's rows land together or not at all,
// and nothing is ever updated or deleted.
type LedgerStore interface {
	Append(ctx context.Context, posting Posting) error
	List(ctx context.Context) ([]LedgerEntry, error)
}

// PurchaseOrderStore is the PO collaborator. The engine uses Get and
// UpdateStatus; the rest serves the purchasing CRUD surface.
type PurchaseOrderStore interface {
	Get(ctx context.Context, id int64) (*PurchaseOrder, error)
	List(ctx context.Context) ([]PurchaseOrder, error)
	Create(ctx context.Context, po *PurchaseOrder) (*PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id int64, status POStatus) error
	Delete(ctx context.Context, id int64) error
}

// VendorStore is plain CRUD for the purchasing screens and the seeder.
type VendorStore interface {
	Get(ctx context.Context, id int64) (*Vendor, error)
	List(ctx context.Context) ([]Vendor, error)
	Create(ctx context.Context, v *Vendor) (*Vendor, error)
	Delete(ctx context.Context, id int64) error
}
