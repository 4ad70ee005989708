package core

import "github.com/shopspring/decimal"

type ItemType string

const (
	ItemFinishedGood ItemType = "Finished Good"
	ItemLooseStone   ItemType = "Loose Stone"
	ItemRawMaterial  ItemType = "Raw Material"
)

type ItemStatus string

const (
	StatusInStock   ItemStatus = "In Stock"
	StatusInService ItemStatus = "In Service"
	StatusSold      ItemStatus = "Sold"
	StatusReserved  ItemStatus = "Reserved"
)

type UnitOfMeasure string

const (
	UnitGram  UnitOfMeasure = "Gram"
	UnitCarat UnitOfMeasure = "Carat"
	UnitPiece UnitOfMeasure = "Piece"
)

// StockItem is a sellable finished good or loose stone. The stock store is
// the single source of truth for it; the engine never caches a live copy.
type StockItem struct {
	ID               int64           `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	ItemType         ItemType        `json:"item_type"`
	Status           ItemStatus      `json:"status"`
	Location         string          `json:"location"`
	QtyAvailable     int             `json:"quantity_available"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReorderThreshold int             `json:"reorder_threshold"`
	CertificateURL   string          `json:"certificate_url,omitempty"`
}

// MaterialLot is a raw-material stock record (gold, stones, findings).
// UnitCost is the weighted-average cost across all receipts into the lot.
type MaterialLot struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	UnitOfMeasure UnitOfMeasure   `json:"unit_of_measure"`
	QtyOnHand     decimal.Decimal `json:"quantity_on_hand"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
}

type Vendor struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	PaymentTerms string `json:"payment_terms"`
}

type POStatus string

const (
	POPending  POStatus = "Pending"
	POReceived POStatus = "Received"
	POPaid     POStatus = "Paid"
)

// PurchaseOrder lifecycle (Pending → Received → Paid) is external CRUD;
// the engine only reads it and flips Pending → Received on a receipt.
type PurchaseOrder struct {
	ID          int64           `json:"id"`
	VendorID    int64           `json:"vendor_id"`
	Date        string          `json:"date"`
	Status      POStatus        `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// LedgerEntry is one immutable row of the general ledger. Exactly one of
// Debit/Credit is non-zero; a business event appends a balanced set of rows.
type LedgerEntry struct {
	ID          int64           `json:"id"`
	EntryDate   string          `json:"entry_date"`
	AccountCode string          `json:"account_code"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	RelatedID   *int64          `json:"related_id,omitempty"`
	RelatedType *string         `json:"related_type,omitempty"`
}

// Soft related_type tags on ledger rows. Display-only, no referential integrity.
const (
	RelatedInventoryItem = "inventory_item"
	RelatedRawMaterial   = "raw_material"
	RelatedPurchaseOrder = "purchase_order"
)

// Fixed chart of accounts used by the engine.
const (
	AccountCash            = "1001" // Cash / Bank
	AccountRawMaterial     = "1100" // Raw Material Asset
	AccountFinishedGoods   = "1200" // Finished Goods / Inventory Asset
	AccountAccountsPayable = "2000" // Accounts Payable
	AccountSalesRevenue    = "4001" // Sales Revenue
	AccountCOGS            = "5001" // Cost of Goods Sold
	AccountLabor           = "5002" // Labor / Overhead
)

// AccountNames maps every account code the engine posts to a display name.
var AccountNames = map[string]string{
	AccountCash:            "Cash / Bank",
	AccountRawMaterial:     "Raw Material Asset",
	AccountFinishedGoods:   "Finished Goods",
	AccountAccountsPayable: "Accounts Payable",
	AccountSalesRevenue:    "Sales Revenue",
	AccountCOGS:            "Cost of Goods Sold",
	AccountLabor:           "Labor / Overhead",
}
