// seed is a one-shot tool that creates the schema and loads demo data: a
// few vendors, raw-material lots, showcase inventory, pending purchase
// orders, and six months of balanced ledger history.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"jewelerp/internal/config"
	"jewelerp/internal/core"
	"jewelerp/internal/db"
	"jewelerp/internal/store/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer pool.Close()

	store := postgres.New(pool)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	log.Println("seeding vendors...")
	vendors := store.Vendors()
	goldSupplier, err := vendors.Create(ctx, &core.Vendor{
		Name: "Shwe Nandaw Gold Trading", ContactEmail: "sales@shwenandaw.example", PaymentTerms: "Net 15",
	})
	if err != nil {
		log.Fatalf("failed to create vendor: %v", err)
	}
	stoneSupplier, err := vendors.Create(ctx, &core.Vendor{
		Name: "Mogok Gem House", ContactEmail: "office@mogokgems.example", PaymentTerms: "Net 30",
	})
	if err != nil {
		log.Fatalf("failed to create vendor: %v", err)
	}

	log.Println("seeding raw materials...")
	if _, err := store.CreateLot(ctx, &core.MaterialLot{
		Name: "24K Gold", UnitOfMeasure: core.UnitGram,
		QtyOnHand: decimal.NewFromInt(250), UnitCost: decimal.NewFromInt(95),
	}); err != nil {
		log.Fatalf("failed to create lot: %v", err)
	}
	if _, err := store.CreateLot(ctx, &core.MaterialLot{
		Name: "Mogok Ruby, melee", UnitOfMeasure: core.UnitCarat,
		QtyOnHand: decimal.NewFromInt(40), UnitCost: decimal.NewFromInt(120),
	}); err != nil {
		log.Fatalf("failed to create lot: %v", err)
	}

	log.Println("seeding inventory...")
	items := []core.StockItem{
		{SKU: "RING-001", Name: "18K Ruby Solitaire Ring", ItemType: core.ItemFinishedGood,
			Status: core.StatusInStock, Location: "Showcase A", QtyAvailable: 3,
			UnitCost: decimal.NewFromInt(450), UnitPrice: decimal.NewFromInt(1125), ReorderThreshold: 2},
		{SKU: "NECK-001", Name: "22K Gold Chain, 20in", ItemType: core.ItemFinishedGood,
			Status: core.StatusInStock, Location: "Showcase A", QtyAvailable: 5,
			UnitCost: decimal.NewFromInt(800), UnitPrice: decimal.NewFromInt(1200), ReorderThreshold: 2},
		{SKU: "STONE-014", Name: "Sapphire, oval cut 1.2ct", ItemType: core.ItemLooseStone,
			Status: core.StatusInStock, Location: "Safe", QtyAvailable: 8,
			UnitCost: decimal.NewFromInt(300), UnitPrice: decimal.NewFromInt(750), ReorderThreshold: 3},
	}
	for i := range items {
		if _, err := store.CreateItem(ctx, &items[i]); err != nil {
			log.Fatalf("failed to create item: %v", err)
		}
	}

	log.Println("seeding purchase orders...")
	orders := store.Orders()
	for _, po := range []core.PurchaseOrder{
		{VendorID: goldSupplier.ID, Status: core.POPending, TotalAmount: decimal.NewFromInt(1000)},
		{VendorID: stoneSupplier.ID, Status: core.POPending, TotalAmount: decimal.NewFromInt(2400)},
	} {
		if _, err := orders.Create(ctx, &po); err != nil {
			log.Fatalf("failed to create purchase order: %v", err)
		}
	}

	log.Println("seeding ledger history...")
	if err := seedHistory(ctx, store); err != nil {
		log.Fatalf("failed to seed ledger: %v", err)
	}

	log.Println("done")
}

// seedHistory writes six months of balanced activity: monthly rent plus a
// handful of cash sales with matching COGS each month. Deterministic so
// repeated runs on a fresh database produce the same books.
func seedHistory(ctx context.Context, store *postgres.Store) error {
	rng := rand.New(rand.NewSource(7))
	now := time.Now()

	for monthsAgo := 6; monthsAgo >= 1; monthsAgo-- {
		month := now.AddDate(0, -monthsAgo, 0)
		first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)

		rent := core.Posting{
			Date: first.Format("2006-01-02"),
			Lines: []core.PostingLine{
				{AccountCode: core.AccountLabor, Description: "Shop rent " + first.Format("Jan 2006"), Debit: decimal.NewFromInt(1200)},
				{AccountCode: core.AccountCash, Description: "Shop rent " + first.Format("Jan 2006"), Credit: decimal.NewFromInt(1200)},
			},
		}
		if err := store.Append(ctx, rent); err != nil {
			return fmt.Errorf("rent for %s: %w", first.Format("2006-01"), err)
		}

		for week := 0; week < 4; week++ {
			day := first.AddDate(0, 0, week*7+rng.Intn(5))
			price := decimal.NewFromInt(int64(600 + rng.Intn(1400)))
			cost := price.Div(decimal.NewFromInt(2)).Round(2)
			desc := fmt.Sprintf("Counter sale %s", day.Format("2006-01-02"))

			sale := core.Posting{
				Date: day.Format("2006-01-02"),
				Lines: []core.PostingLine{
					{AccountCode: core.AccountCash, Description: desc, Debit: price},
					{AccountCode: core.AccountSalesRevenue, Description: desc, Credit: price},
					{AccountCode: core.AccountCOGS, Description: "COGS for " + desc, Debit: cost},
					{AccountCode: core.AccountFinishedGoods, Description: "Inventory relief for " + desc, Credit: cost},
				},
			}
			if err := store.Append(ctx, sale); err != nil {
				return fmt.Errorf("sale on %s: %w", day.Format("2006-01-02"), err)
			}
		}
	}
	return nil
}
