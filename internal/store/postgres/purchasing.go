package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jewelerp/internal/core"
)

// OrderStore implements core.PurchaseOrderStore.
type OrderStore struct {
	pool *pgxpool.Pool
}

func (o *OrderStore) Get(ctx context.Context, id int64) (*core.PurchaseOrder, error) {
	var po core.PurchaseOrder
	err := o.pool.QueryRow(ctx, `
		SELECT id, vendor_id, order_date::text, status, total_amount
		FROM purchase_orders WHERE id = $1
	`, id).Scan(&po.ID, &po.VendorID, &po.Date, &po.Status, &po.TotalAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Kind: "purchase order", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch purchase order: %w", err)
	}
	return &po, nil
}

func (o *OrderStore) List(ctx context.Context) ([]core.PurchaseOrder, error) {
	rows, err := o.pool.Query(ctx, `
		SELECT id, vendor_id, order_date::text, status, total_amount
		FROM purchase_orders ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []core.PurchaseOrder
	for rows.Next() {
		var po core.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.VendorID, &po.Date, &po.Status, &po.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

func (o *OrderStore) Create(ctx context.Context, po *core.PurchaseOrder) (*core.PurchaseOrder, error) {
	created := *po
	if created.Status == "" {
		created.Status = core.POPending
	}
	err := o.pool.QueryRow(ctx, `
		INSERT INTO purchase_orders (vendor_id, order_date, status, total_amount)
		VALUES ($1, COALESCE(NULLIF($2, '')::date, CURRENT_DATE), $3, $4)
		RETURNING id, order_date::text
	`, created.VendorID, created.Date, created.Status, created.TotalAmount).Scan(&created.ID, &created.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to insert purchase order: %w", err)
	}
	return &created, nil
}

func (o *OrderStore) UpdateStatus(ctx context.Context, id int64, status core.POStatus) error {
	tag, err := o.pool.Exec(ctx, `UPDATE purchase_orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Kind: "purchase order", ID: id}
	}
	return nil
}

func (o *OrderStore) Delete(ctx context.Context, id int64) error {
	tag, err := o.pool.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Kind: "purchase order", ID: id}
	}
	return nil
}

// VendorStore implements core.VendorStore.
type VendorStore struct {
	pool *pgxpool.Pool
}

func (v *VendorStore) Get(ctx context.Context, id int64) (*core.Vendor, error) {
	var vendor core.Vendor
	err := v.pool.QueryRow(ctx, `
		SELECT id, name, contact_email, payment_terms FROM vendors WHERE id = $1
	`, id).Scan(&vendor.ID, &vendor.Name, &vendor.ContactEmail, &vendor.PaymentTerms)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Kind: "vendor", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch vendor: %w", err)
	}
	return &vendor, nil
}

func (v *VendorStore) List(ctx context.Context) ([]core.Vendor, error) {
	rows, err := v.pool.Query(ctx, `SELECT id, name, contact_email, payment_terms FROM vendors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	var vendors []core.Vendor
	for rows.Next() {
		var vendor core.Vendor
		if err := rows.Scan(&vendor.ID, &vendor.Name, &vendor.ContactEmail, &vendor.PaymentTerms); err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, vendor)
	}
	return vendors, rows.Err()
}

func (v *VendorStore) Create(ctx context.Context, vendor *core.Vendor) (*core.Vendor, error) {
	created := *vendor
	err := v.pool.QueryRow(ctx, `
		INSERT INTO vendors (name, contact_email, payment_terms)
		VALUES ($1, $2, $3)
		RETURNING id
	`, vendor.Name, vendor.ContactEmail, vendor.PaymentTerms).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert vendor: %w", err)
	}
	return &created, nil
}

func (v *VendorStore) Delete(ctx context.Context, id int64) error {
	tag, err := v.pool.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Kind: "vendor", ID: id}
	}
	return nil
}
