package models

import (
	"strings"
	"testing"

	"bbq-storefront/cart"
	"bbq-storefront/menu"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	tables := []string{
		`CREATE TABLE IF NOT EXISTS "menu_items" (
			"id" TEXT PRIMARY KEY, "name" TEXT NOT NULL, "description" TEXT, "price" REAL NOT NULL,
			"category" TEXT NOT NULL, "tags" TEXT, "stock" INTEGER DEFAULT 0, "featured" INTEGER DEFAULT 0,
			"image" TEXT, "sort_order" INTEGER DEFAULT 0,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "modifier_groups" (
			"id" TEXT PRIMARY KEY, "menu_item_id" TEXT NOT NULL, "name" TEXT NOT NULL,
			"required" INTEGER DEFAULT 0, "max_select" INTEGER DEFAULT 1, "sort_order" INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS "modifier_options" (
			"id" TEXT PRIMARY KEY, "group_id" TEXT NOT NULL, "name" TEXT NOT NULL,
			"price" REAL DEFAULT 0, "sort_order" INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS "orders" (
			"id" TEXT PRIMARY KEY, "order_number" TEXT NOT NULL UNIQUE, "session_id" TEXT,
			"status" TEXT DEFAULT 'pending', "order_type" TEXT NOT NULL, "customer_name" TEXT NOT NULL,
			"customer_email" TEXT NOT NULL, "customer_phone" TEXT, "delivery_address" TEXT,
			"pickup_time" TEXT, "notes" TEXT, "subtotal" REAL NOT NULL, "tax" REAL NOT NULL,
			"delivery_fee" REAL DEFAULT 0, "total" REAL NOT NULL, "payment_last4" TEXT, "transaction_id" TEXT,
			"stock_reserved" TEXT, "created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "order_items" (
			"id" TEXT PRIMARY KEY, "order_id" TEXT NOT NULL, "line_id" TEXT, "menu_item_id" TEXT,
			"name" TEXT, "kind" TEXT, "category" TEXT, "unit_price" REAL NOT NULL, "quantity" INTEGER NOT NULL,
			"line_total" REAL NOT NULL, "special_instructions" TEXT, "details" TEXT,
			"created_at" DATETIME, "updated_at" DATETIME
		)`,
	}
	for _, ddl := range tables {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func TestMenuItemTagsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	item := MenuItem{
		ID: "brisket-plate", Name: "Brisket Plate", Price: 16.99, Category: "plates",
		Tags: []string{"premium", "smoked"}, Stock: 5,
		ModifierGroups: []ModifierGroup{{
			ID: "brisket-plate-sauce", Name: "Sauce",
			Options: []ModifierOption{{ID: "brisket-plate-sauce-spicy", Name: "Spicy", Price: 0.5}},
		}},
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatal(err)
	}

	var loaded MenuItem
	if err := db.Preload("ModifierGroups.Options").First(&loaded, "id = ?", "brisket-plate").Error; err != nil {
		t.Fatal(err)
	}
	if len(loaded.Tags) != 2 || loaded.Tags[0] != "premium" {
		t.Errorf("expected tags to round-trip, got %v", loaded.Tags)
	}
	if len(loaded.ModifierGroups) != 1 || len(loaded.ModifierGroups[0].Options) != 1 {
		t.Fatalf("expected preloaded modifiers, got %+v", loaded.ModifierGroups)
	}
	if loaded.ModifierGroups[0].Options[0].Price != 0.5 {
		t.Errorf("expected option price 0.5, got %v", loaded.ModifierGroups[0].Options[0].Price)
	}
}

func TestToMenuItem(t *testing.T) {
	got := MenuItem{ID: "sweet-tea", Name: "Sweet Tea", Price: 2.49, Category: "drinks", Stock: 0}.ToMenuItem()
	if got.Tags == nil {
		t.Error("expected non-nil tags")
	}
	if got.Available() {
		t.Error("expected zero stock to be unavailable")
	}

	catalog := Catalog([]MenuItem{{ID: "a"}, {ID: "b"}})
	if len(catalog) != 2 || catalog[1].ID != "b" {
		t.Errorf("expected catalog order preserved, got %+v", catalog)
	}
}

func TestComboTemplateUnitPrice(t *testing.T) {
	tpl := ComboTemplate{
		ID: "pitmaster", Price: 15.99,
		Sections: []ComboSection{
			{ID: "main", Category: "plates", IncludedPrice: 14.99},
			{ID: "side", Category: "sides", IncludedPrice: 3.49},
		},
	}
	picks := []cart.ComboItem{
		{SectionID: "main", ItemPrice: 16.99},
		{SectionID: "side", ItemPrice: 2.99},
	}
	if got := tpl.UnitPrice(picks); got != 17.99 {
		t.Errorf("expected 17.99, got %v", got)
	}

	if !tpl.Sections[0].Accepts(menu.Item{Category: "sandwiches"}) {
		t.Error("expected mains section to accept a sandwich")
	}
	if tpl.Sections[1].Accepts(menu.Item{Category: "drinks"}) {
		t.Error("expected sides section to reject a drink")
	}
}

func TestOrderBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	order := Order{OrderType: "pickup", CustomerName: "Jo", CustomerEmail: "jo@example.com", Subtotal: 10, Tax: 0.83, Total: 10.83}
	if err := db.Create(&order).Error; err != nil {
		t.Fatal(err)
	}
	if order.ID == uuid.Nil {
		t.Error("expected UUID to be generated")
	}
	if !strings.HasPrefix(order.OrderNumber, "BBQ") {
		t.Errorf("expected BBQ order number, got %q", order.OrderNumber)
	}
	if order.Status != OrderStatusPending {
		t.Errorf("expected pending status, got %q", order.Status)
	}
}

func TestNewOrderItem(t *testing.T) {
	plain := cart.Line{ID: "coleslaw", SourceID: "coleslaw", Name: "Coleslaw", Category: "sides", Price: 3.49, Quantity: 2}
	item, err := NewOrderItem(plain)
	if err != nil {
		t.Fatal(err)
	}
	if item.MenuItemID != "coleslaw" || item.LineTotal != 6.98 || item.Kind != "plain" {
		t.Errorf("unexpected order item: %+v", item)
	}

	combo := cart.Line{
		ID: "combo-pitmaster-1", SourceID: "pitmaster", Name: "Pitmaster Combo", Category: "combos",
		Price: 15.99, Quantity: 1,
		Payload: &cart.Combo{TemplateID: "pitmaster", Items: []cart.ComboItem{{SectionID: "main", ItemName: "Brisket"}}},
	}
	item, err = NewOrderItem(combo)
	if err != nil {
		t.Fatal(err)
	}
	if item.MenuItemID != "" {
		t.Errorf("expected no menu item id for a combo, got %q", item.MenuItemID)
	}
	if !strings.Contains(item.Details, `"isCombo":true`) {
		t.Errorf("expected combo details, got %s", item.Details)
	}
}

func TestStockUsage(t *testing.T) {
	lines := []cart.Line{
		{ID: "coleslaw", SourceID: "coleslaw", Quantity: 2},
		{
			ID: "sandwich-1", SourceID: "brisket-sandwich", Quantity: 1,
			Payload: &cart.Customization{
				Sides:  []cart.Addon{{ID: "coleslaw"}},
				Bundle: &cart.Bundle{Side: cart.Addon{ID: "fries"}, Drink: cart.Addon{ID: "sweet-tea"}},
			},
		},
		{
			ID: "combo-1", SourceID: "pitmaster", Quantity: 2,
			Payload: &cart.Combo{Items: []cart.ComboItem{{ItemID: "brisket-sandwich"}, {ItemID: "fries"}}},
		},
		{
			ID: "plate-1", SourceID: "two-meat", Quantity: 1,
			Payload: &cart.Plate{Size: "two-meat", Meats: []cart.Addon{{ID: "meat-brisket"}, {ID: "meat-ribs"}}},
		},
	}

	usage := StockUsage(lines)
	want := map[string]int{
		"coleslaw": 3, "brisket-sandwich": 3, "fries": 3, "sweet-tea": 1,
		"meat-brisket": 1, "meat-ribs": 1,
	}
	if len(usage) != len(want) {
		t.Fatalf("expected %v, got %v", want, usage)
	}
	for id, n := range want {
		if usage[id] != n {
			t.Errorf("%s: expected %d, got %d", id, n, usage[id])
		}
	}
	if _, ok := usage["two-meat"]; ok {
		t.Error("plate size must not be counted as a menu item")
	}
}

func TestIsValidTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusReady, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatus("bogus"), OrderStatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := IsValidTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}
