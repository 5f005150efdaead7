package upsell

import (
	"bbq-storefront/cart"
	"bbq-storefront/menu"
)

const DefaultRelatedItems = 4

// RelatedItems returns other items of the same category followed by items
// from complementary categories, without duplicates and without the item
// itself.
func RelatedItems(item menu.Item, catalog []menu.Item, max int) []menu.Item {
	if max <= 0 {
		max = DefaultRelatedItems
	}
	seen := map[string]bool{item.ID: true}
	out := []menu.Item{}
	add := func(candidates []menu.Item) {
		for _, c := range candidates {
			if len(out) >= max {
				return
			}
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
		}
	}

	group := menu.Group(item.Category)
	add(menu.InGroup(catalog, group, 0))
	for _, g := range menu.Complements(item.Category) {
		add(menu.InGroup(catalog, g, 0))
	}
	return out
}

// ComboSuggestions offers combos to a cart that has none: those cheaper
// than the current subtotal, else the first two combos on the menu.
func ComboSuggestions(lines []cart.Line, catalog []menu.Item) []menu.Item {
	if len(lines) == 0 || cart.HasCombo(lines) {
		return []menu.Item{}
	}
	subtotal := cart.Subtotal(lines)
	cheaper := menu.Filter(catalog, 2, func(i menu.Item) bool {
		return menu.IsCombo(i.Category) && i.Price < subtotal
	})
	if len(cheaper) > 0 {
		return cheaper
	}
	return menu.InGroup(catalog, menu.GroupCombos, 2)
}
