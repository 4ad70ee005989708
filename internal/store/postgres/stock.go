package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jewelerp/internal/core"
)

const itemColumns = `id, sku, name, item_type, status, location, qty_available, landed_cost, retail_price, reorder_point, certificate_url`

func scanItem(row pgx.Row) (*core.StockItem, error) {
	var item core.StockItem
	err := row.Scan(&item.ID, &item.SKU, &item.Name, &item.ItemType, &item.Status,
		&item.Location, &item.QtyAvailable, &item.UnitCost, &item.UnitPrice,
		&item.ReorderThreshold, &item.CertificateURL)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetItem(ctx context.Context, id int64) (*core.StockItem, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Kind: "inventory item", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch inventory item: %w", err)
	}
	return item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]core.StockItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	var items []core.StockItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *Store) CreateItem(ctx context.Context, item *core.StockItem) (*core.StockItem, error) {
	created := *item
	err := s.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (sku, name, item_type, status, location, qty_available, landed_cost, retail_price, reorder_point, certificate_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, item.SKU, item.Name, item.ItemType, item.Status, item.Location,
		item.QtyAvailable, item.UnitCost, item.UnitPrice, item.ReorderThreshold, item.CertificateURL).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return &created, nil
}

func (s *Store) UpdateItem(ctx context.Context, item *core.StockItem) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE inventory_items
		SET sku = $2, name = $3, item_type = $4, status = $5, location = $6,
		    qty_available = $7, landed_cost = $8, retail_price = $9, reorder_point = $10, certificate_url = $11
		WHERE id = $1
	`, item.ID, item.SKU, item.Name, item.ItemType, item.Status, item.Location,
		item.QtyAvailable, item.UnitCost, item.UnitPrice, item.ReorderThreshold, item.CertificateURL)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Kind: "inventory item", ID: item.ID}
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Kind: "inventory item", ID: id}
	}
	return nil
}

const lotColumns = `id, name, unit_of_measure, current_stock, cost_per_unit`

func scanLot(row pgx.Row) (*core.MaterialLot, error) {
	var lot core.MaterialLot
	if err := row.Scan(&lot.ID, &lot.Name, &lot.UnitOfMeasure, &lot.QtyOnHand, &lot.UnitCost); err != nil {
		return nil, err
	}
	return &lot, nil
}

func (s *Store) GetLot(ctx context.Context, id int64) (*core.MaterialLot, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+lotColumns+` FROM raw_materials WHERE id = $1`, id)
	lot, err := scanLot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Kind: "raw material", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch raw material: %w", err)
	}
	return lot, nil
}

func (s *Store) ListLots(ctx context.Context) ([]core.MaterialLot, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+lotColumns+` FROM raw_materials ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw materials: %w", err)
	}
	defer rows.Close()

	var lots []core.MaterialLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan raw material: %w", err)
		}
		lots = append(lots, *lot)
	}
	return lots, rows.Err()
}

func (s *Store) CreateLot(ctx context.Context, lot *core.MaterialLot) (*core.MaterialLot, error) {
	created := *lot
	err := s.pool.QueryRow(ctx, `
		INSERT INTO raw_materials (name, unit_of_measure, current_stock, cost_per_unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, lot.Name, lot.UnitOfMeasure, lot.QtyOnHand, lot.UnitCost).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert raw material: %w", err)
	}
	return &created, nil
}

func (s *Store) UpdateLot(ctx context.Context, lot *core.MaterialLot) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE raw_materials
		SET name = $2, unit_of_measure = $3, current_stock = $4, cost_per_unit = $5
		WHERE id = $1
	`, lot.ID, lot.Name, lot.UnitOfMeasure, lot.QtyOnHand, lot.UnitCost)
	if err != nil {
		return fmt.Errorf("failed to update raw material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Kind: "raw material", ID: lot.ID}
	}
	return nil
}

func (s *Store) DeleteLot(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM raw_materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete raw material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Kind: "raw material", ID: id}
	}
	return nil
}
