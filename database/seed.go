package database

import (
	"bbq-storefront/models"

	"gorm.io/gorm"
)

// SeedMenu loads the default menu into an empty database. It does nothing
// once any menu item exists, and reports how many items it created.
func SeedMenu(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	items := defaultMenu()
	templates := defaultComboTemplates()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return tx.Create(&templates).Error
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func sauceGroup(itemID string) models.ModifierGroup {
	id := itemID + "-sauce"
	return models.ModifierGroup{
		ID: id, MenuItemID: itemID, Name: "Sauce", Required: true, MaxSelect: 1,
		Options: []models.ModifierOption{
			{ID: id + "-original", Name: "Original", SortOrder: 1},
			{ID: id + "-spicy", Name: "Spicy", SortOrder: 2},
			{ID: id + "-carolina", Name: "Carolina Gold", Price: 0.50, SortOrder: 3},
		},
	}
}

func sizeGroup(itemID string) models.ModifierGroup {
	id := itemID + "-size"
	return models.ModifierGroup{
		ID: id, MenuItemID: itemID, Name: "Size", Required: true, MaxSelect: 1,
		Options: []models.ModifierOption{
			{ID: id + "-regular", Name: "Regular", SortOrder: 1},
			{ID: id + "-large", Name: "Large", Price: 1.00, SortOrder: 2},
		},
	}
}

func defaultMenu() []models.MenuItem {
	items := []models.MenuItem{
		{ID: "pulled-pork-plate", Name: "Pulled Pork Plate", Description: "Hickory-smoked pork shoulder, two sides", Price: 12.99, Category: "plates", Tags: []string{"pork"}, Stock: 50, Featured: true},
		{ID: "brisket-plate", Name: "Brisket Plate", Description: "Sliced prime brisket, two sides", Price: 16.99, Category: "plates", Tags: []string{"beef", "premium"}, Stock: 40, Featured: true},
		{ID: "premium-rib-plate", Name: "Premium Rib Plate", Description: "Half rack of St. Louis ribs, two sides", Price: 19.99, Category: "plates", Tags: []string{"pork", "premium"}, Stock: 25},
		{ID: "chicken-plate", Name: "Smoked Chicken Plate", Description: "Half chicken, two sides", Price: 11.99, Category: "plates", Tags: []string{"chicken"}, Stock: 40},
		{ID: "pulled-pork-sandwich", Name: "Pulled Pork Sandwich", Price: 9.99, Category: "sandwiches", Tags: []string{"pork"}, Stock: 60},
		{ID: "brisket-sandwich", Name: "Chopped Brisket Sandwich", Price: 11.99, Category: "sandwiches", Tags: []string{"beef", "premium"}, Stock: 40},
		{ID: "coleslaw", Name: "Coleslaw", Price: 3.49, Category: "sides", Tags: []string{"vegetarian"}, Stock: 100},
		{ID: "mac-and-cheese", Name: "Mac & Cheese", Price: 3.99, Category: "sides", Tags: []string{"vegetarian"}, Stock: 100, Featured: true},
		{ID: "baked-beans", Name: "Baked Beans", Price: 3.49, Category: "sides", Stock: 100},
		{ID: "cornbread", Name: "Cornbread", Price: 2.49, Category: "sides", Tags: []string{"vegetarian"}, Stock: 100},
		{ID: "sweet-tea", Name: "Sweet Tea", Price: 2.49, Category: "drinks", Stock: 200},
		{ID: "lemonade", Name: "Lemonade", Price: 2.99, Category: "drinks", Stock: 200},
		{ID: "soda", Name: "Fountain Soda", Price: 1.99, Category: "drinks", Stock: 200},
		{ID: "peach-cobbler", Name: "Peach Cobbler", Price: 4.49, Category: "desserts", Stock: 30, Featured: true},
		{ID: "banana-pudding", Name: "Banana Pudding", Price: 3.99, Category: "desserts", Stock: 30},
		{ID: "pitmaster-combo", Name: "Pitmaster Combo", Description: "Any plate, a side and a drink", Price: 15.99, Category: "combos", Stock: 100},
		{ID: "family-feast", Name: "Family Feast", Description: "Two pounds of meat, four sides, a gallon of tea", Price: 59.99, Category: "combos", Tags: []string{"family"}, Stock: 20},
		{ID: "meat-pulled-pork", Name: "Pulled Pork", Price: 0, Category: "meats", Tags: []string{"pork"}, Stock: 100},
		{ID: "meat-chicken", Name: "Smoked Chicken", Price: 0, Category: "meats", Tags: []string{"chicken"}, Stock: 100},
		{ID: "meat-sausage", Name: "Jalapeño Sausage", Price: 1.00, Category: "meats", Stock: 100},
		{ID: "meat-brisket", Name: "Brisket", Price: 3.00, Category: "meats", Tags: []string{"premium"}, Stock: 100},
		{ID: "meat-ribs", Name: "Ribs", Price: 3.50, Category: "meats", Tags: []string{"premium"}, Stock: 100},
	}

	for i := range items {
		items[i].SortOrder = i
		switch items[i].Category {
		case "plates", "sandwiches":
			items[i].ModifierGroups = []models.ModifierGroup{sauceGroup(items[i].ID)}
		case "drinks":
			items[i].ModifierGroups = []models.ModifierGroup{sizeGroup(items[i].ID)}
		}
	}
	return items
}

func defaultComboTemplates() []models.ComboTemplate {
	return []models.ComboTemplate{
		{
			ID: "pitmaster", Name: "Pitmaster Combo", Description: "Any plate, a side and a drink", Price: 15.99,
			Sections: []models.ComboSection{
				{ID: "pitmaster-main", Name: "Main", Category: "plates", IncludedPrice: 12.99, SortOrder: 1},
				{ID: "pitmaster-side", Name: "Side", Category: "sides", IncludedPrice: 3.99, SortOrder: 2},
				{ID: "pitmaster-drink", Name: "Drink", Category: "drinks", IncludedPrice: 2.99, SortOrder: 3},
			},
		},
		{
			ID: "ranch-hand", Name: "Ranch Hand Combo", Description: "A sandwich, two sides, a drink and dessert", Price: 19.99,
			Sections: []models.ComboSection{
				{ID: "ranch-hand-main", Name: "Sandwich", Category: "sandwiches", IncludedPrice: 9.99, SortOrder: 1},
				{ID: "ranch-hand-side-1", Name: "First Side", Category: "sides", IncludedPrice: 3.49, SortOrder: 2},
				{ID: "ranch-hand-side-2", Name: "Second Side", Category: "sides", IncludedPrice: 3.49, SortOrder: 3},
				{ID: "ranch-hand-drink", Name: "Drink", Category: "drinks", IncludedPrice: 2.49, SortOrder: 4},
				{ID: "ranch-hand-dessert", Name: "Dessert", Category: "desserts", IncludedPrice: 3.99, SortOrder: 5},
			},
		},
	}
}
