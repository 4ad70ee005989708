// Package postgres implements the core store interfaces over a pgx
// connection pool. Stock, ledger, purchase orders and vendors each map to
// one table; Migrate creates the schema idempotently.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS vendors (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    contact_email TEXT NOT NULL DEFAULT '',
    payment_terms TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS raw_materials (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    unit_of_measure TEXT NOT NULL DEFAULT 'Gram',
    current_stock NUMERIC(14,4) NOT NULL DEFAULT 0,
    cost_per_unit NUMERIC(14,2) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS inventory_items (
    id BIGSERIAL PRIMARY KEY,
    sku TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    item_type TEXT NOT NULL DEFAULT 'Finished Good',
    status TEXT NOT NULL DEFAULT 'In Stock',
    location TEXT NOT NULL DEFAULT '',
    qty_available INTEGER NOT NULL DEFAULT 0,
    landed_cost NUMERIC(14,2) NOT NULL DEFAULT 0,
    retail_price NUMERIC(14,2) NOT NULL DEFAULT 0,
    reorder_point INTEGER NOT NULL DEFAULT 0,
    certificate_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS purchase_orders (
    id BIGSERIAL PRIMARY KEY,
    vendor_id BIGINT NOT NULL REFERENCES vendors(id),
    order_date DATE NOT NULL DEFAULT CURRENT_DATE,
    status TEXT NOT NULL DEFAULT 'Pending',
    total_amount NUMERIC(14,2) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS general_ledger_entries (
    id BIGSERIAL PRIMARY KEY,
    entry_date DATE NOT NULL,
    account_code TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    debit NUMERIC(14,2) NOT NULL DEFAULT 0,
    credit NUMERIC(14,2) NOT NULL DEFAULT 0,
    related_id BIGINT,
    related_type TEXT
);

CREATE INDEX IF NOT EXISTS idx_gl_account_code ON general_ledger_entries (account_code);
CREATE INDEX IF NOT EXISTS idx_gl_entry_date ON general_ledger_entries (entry_date);
CREATE INDEX IF NOT EXISTS idx_po_status ON purchase_orders (status);
`

// Store implements core.StockStore and core.LedgerStore. Orders and
// Vendors return views over the same pool for the remaining interfaces.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Orders exposes the purchase-order table.
func (s *Store) Orders() *OrderStore { return &OrderStore{pool: s.pool} }

// Vendors exposes the vendor table.
func (s *Store) Vendors() *VendorStore { return &VendorStore{pool: s.pool} }

// Migrate creates all tables and indexes. Safe to run on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
