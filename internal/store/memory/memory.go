// Package memory is a map-backed implementation of the core store
// interfaces. It backs the engine in demo mode and in tests; it has no
// persistence across restarts.
package memory

import (
	"context"
	"sort"
	"sync"

	"jewelerp/internal/core"
)

// Store implements core.StockStore and core.LedgerStore over in-process
// maps. Orders and Vendors return views onto the same state, so the whole
// dataset shares one lock. All methods are safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	items   map[int64]core.StockItem
	lots    map[int64]core.MaterialLot
	orders  map[int64]core.PurchaseOrder
	vendors map[int64]core.Vendor
	entries []core.LedgerEntry

	nextItemID   int64
	nextLotID    int64
	nextOrderID  int64
	nextVendorID int64
	nextEntryID  int64
}

func New() *Store {
	return &Store{
		items:   make(map[int64]core.StockItem),
		lots:    make(map[int64]core.MaterialLot),
		orders:  make(map[int64]core.PurchaseOrder),
		vendors: make(map[int64]core.Vendor),
	}
}

// Orders exposes the purchase-order view of the store.
func (s *Store) Orders() *OrderStore { return &OrderStore{s} }

// Vendors exposes the vendor view of the store.
func (s *Store) Vendors() *VendorStore { return &VendorStore{s} }

// --- core.StockStore: finished goods ---

func (s *Store) GetItem(_ context.Context, id int64) (*core.StockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "inventory item", ID: id}
	}
	return &item, nil
}

func (s *Store) ListItems(_ context.Context) ([]core.StockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.StockItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateItem(_ context.Context, item *core.StockItem) (*core.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextItemID++
	created := *item
	created.ID = s.nextItemID
	s.items[created.ID] = created
	return &created, nil
}

func (s *Store) UpdateItem(_ context.Context, item *core.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return &core.NotFoundError{Kind: "inventory item", ID: item.ID}
	}
	s.items[item.ID] = *item
	return nil
}

func (s *Store) DeleteItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return &core.NotFoundError{Kind: "inventory item", ID: id}
	}
	delete(s.items, id)
	return nil
}

// --- core.StockStore: raw materials ---

func (s *Store) GetLot(_ context.Context, id int64) (*core.MaterialLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lot, ok := s.lots[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "raw material", ID: id}
	}
	return &lot, nil
}

func (s *Store) ListLots(_ context.Context) ([]core.MaterialLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.MaterialLot, 0, len(s.lots))
	for _, lot := range s.lots {
		out = append(out, lot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateLot(_ context.Context, lot *core.MaterialLot) (*core.MaterialLot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLotID++
	created := *lot
	created.ID = s.nextLotID
	s.lots[created.ID] = created
	return &created, nil
}

func (s *Store) UpdateLot(_ context.Context, lot *core.MaterialLot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lots[lot.ID]; !ok {
		return &core.NotFoundError{Kind: "raw material", ID: lot.ID}
	}
	s.lots[lot.ID] = *lot
	return nil
}

func (s *Store) DeleteLot(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lots[id]; !ok {
		return &core.NotFoundError{Kind: "raw material", ID: id}
	}
	delete(s.lots, id)
	return nil
}

// --- core.LedgerStore ---

// Append validates the posting then writes all of its rows under one lock
// acquisition, so readers never observe a half-appended business event.
func (s *Store) Append(_ context.Context, posting core.Posting) error {
	posting.Normalize()
	if err := posting.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range posting.Lines {
		s.nextEntryID++
		s.entries = append(s.entries, core.LedgerEntry{
			ID:          s.nextEntryID,
			EntryDate:   posting.Date,
			AccountCode: line.AccountCode,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			RelatedID:   line.RelatedID,
			RelatedType: line.RelatedType,
		})
	}
	return nil
}

func (s *Store) List(_ context.Context) ([]core.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.LedgerEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// OrderStore implements core.PurchaseOrderStore.
type OrderStore struct {
	s *Store
}

func (o *OrderStore) Get(_ context.Context, id int64) (*core.PurchaseOrder, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	po, ok := o.s.orders[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "purchase order", ID: id}
	}
	return &po, nil
}

func (o *OrderStore) List(_ context.Context) ([]core.PurchaseOrder, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	out := make([]core.PurchaseOrder, 0, len(o.s.orders))
	for _, po := range o.s.orders {
		out = append(out, po)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (o *OrderStore) Create(_ context.Context, po *core.PurchaseOrder) (*core.PurchaseOrder, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	o.s.nextOrderID++
	created := *po
	created.ID = o.s.nextOrderID
	if created.Status == "" {
		created.Status = core.POPending
	}
	o.s.orders[created.ID] = created
	return &created, nil
}

func (o *OrderStore) UpdateStatus(_ context.Context, id int64, status core.POStatus) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	po, ok := o.s.orders[id]
	if !ok {
		return &core.NotFoundError{Kind: "purchase order", ID: id}
	}
	po.Status = status
	o.s.orders[id] = po
	return nil
}

func (o *OrderStore) Delete(_ context.Context, id int64) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if _, ok := o.s.orders[id]; !ok {
		return &core.NotFoundError{Kind: "purchase order", ID: id}
	}
	delete(o.s.orders, id)
	return nil
}

// VendorStore implements core.VendorStore.
type VendorStore struct {
	s *Store
}

func (v *VendorStore) Get(_ context.Context, id int64) (*core.Vendor, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	vendor, ok := v.s.vendors[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "vendor", ID: id}
	}
	return &vendor, nil
}

func (v *VendorStore) List(_ context.Context) ([]core.Vendor, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := make([]core.Vendor, 0, len(v.s.vendors))
	for _, vendor := range v.s.vendors {
		out = append(out, vendor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *VendorStore) Create(_ context.Context, vendor *core.Vendor) (*core.Vendor, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.nextVendorID++
	created := *vendor
	created.ID = v.s.nextVendorID
	v.s.vendors[created.ID] = created
	return &created, nil
}

func (v *VendorStore) Delete(_ context.Context, id int64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if _, ok := v.s.vendors[id]; !ok {
		return &core.NotFoundError{Kind: "vendor", ID: id}
	}
	delete(v.s.vendors, id)
	return nil
}
