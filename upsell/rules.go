package upsell

import (
	"fmt"
	"math"
	"strings"

	"bbq-storefront/cart"
	"bbq-storefront/menu"
)

// Rule ids of the default registry.
const (
	RuleUpgradeToCombo     = "upgrade-to-combo"
	RuleFamilyBundle       = "suggest-family-bundle"
	RuleSuggestSides       = "suggest-sides"
	RulePremiumMeatUpgrade = "premium-meat-upgrade"
	RuleSuggestDrinks      = "suggest-drinks"
	RuleSuggestDessert     = "suggest-dessert"
)

const (
	fallbackComboSavings  = 2.00
	customBundleSavings   = 10.00
	familyBundleMinItems  = 3
	familyBundleMinAmount = 30.00
	minSidesPerMain       = 2
)

// DefaultRules returns the storefront rule set in registry order.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          RuleUpgradeToCombo,
			Name:        "Upgrade to Combo",
			Description: "A main and a side are in the cart but no combo",
			Type:        TypeCombo,
			Priority:    100,
			Condition: func(lines []cart.Line, _ []menu.Item) bool {
				return hasGroup(lines, menu.GroupMains) && hasGroup(lines, menu.GroupSides) && !cart.HasCombo(lines)
			},
			Recommend: recommendComboUpgrade,
		},
		{
			ID:          RuleFamilyBundle,
			Name:        "Family Bundle",
			Description: "A large order could be a family bundle",
			Type:        TypeBundle,
			Priority:    95,
			Condition: func(lines []cart.Line, _ []menu.Item) bool {
				return cart.TotalItems(lines) >= familyBundleMinItems && cart.Subtotal(lines) >= familyBundleMinAmount
			},
			Recommend: recommendFamilyBundle,
		},
		{
			ID:          RuleSuggestSides,
			Name:        "Add Sides",
			Description: "A main with fewer than two sides",
			Type:        TypeAddOn,
			Priority:    90,
			Condition: func(lines []cart.Line, _ []menu.Item) bool {
				return hasGroup(lines, menu.GroupMains) && groupQuantity(lines, menu.GroupSides) < minSidesPerMain
			},
			Recommend: func(_ []cart.Line, catalog []menu.Item) Recommendation {
				return Recommendation{
					Title:       "Complete your meal",
					Description: "Every plate is better with a couple of sides",
					Type:        TypeAddOn,
					Items:       menu.InGroup(catalog, menu.GroupSides, 3),
					Action:      ActionAdd,
				}
			},
		},
		{
			ID:          RulePremiumMeatUpgrade,
			Name:        "Premium Meat Upgrade",
			Description: "A plate or sandwich that is not already premium",
			Type:        TypeUpgrade,
			Priority:    85,
			Condition: func(lines []cart.Line, _ []menu.Item) bool {
				_, ok := upgradeTarget(lines)
				return ok
			},
			Recommend: recommendPremiumUpgrade,
		},
		{
			ID:          RuleSuggestDrinks,
			Name:        "Add a Drink",
			Description: "Food in the cart but nothing to drink",
			Type:        TypeAddOn,
			Priority:    80,
			Condition: func(lines []cart.Line, _ []menu.Item) bool {
				return hasOutside(lines, menu.GroupDrinks) && !hasGroup(lines, menu.GroupDrinks)
			},
			Recommend: func(_ []cart.Line, catalog []menu.Item) Recommendation {
				return Recommendation{
					Title:       "Thirsty?",
					Description: "Wash it down with something cold",
					Type:        TypeAddOn,
					Items:       menu.InGroup(catalog, menu.GroupDrinks, 3),
					Action:      ActionAdd,
				}
			},
		},
		{
			ID:          RuleSuggestDessert,
			Name:        "Add Dessert",
			Description: "Food in the cart but no dessert",
			Type:        TypeAddOn,
			Priority:    70,
			Condition: func(lines []cart.Line, _ []menu.Item) bool {
				return hasOutside(lines, menu.GroupDrinks, menu.GroupDesserts) && !hasGroup(lines, menu.GroupDesserts)
			},
			Recommend: func(_ []cart.Line, catalog []menu.Item) Recommendation {
				return Recommendation{
					Title:       "Save room for dessert",
					Description: "Finish strong with something sweet",
					Type:        TypeAddOn,
					Items:       menu.InGroup(catalog, menu.GroupDesserts, 2),
					Action:      ActionAdd,
				}
			},
		},
	}
}

func recommendComboUpgrade(lines []cart.Line, catalog []menu.Item) Recommendation {
	rec := Recommendation{
		Title:       "Make it a combo",
		Description: "Get your main, side and drink together for less",
		Type:        TypeCombo,
		Items:       menu.InGroup(catalog, menu.GroupCombos, 2),
		Action:      ActionBuild,
	}
	if len(rec.Items) == 0 {
		return rec
	}
	cheapest := rec.Items[0]
	for _, item := range rec.Items[1:] {
		if item.Price < cheapest.Price {
			cheapest = item
		}
	}
	savings := math.Max(0, cart.RoundCents(cart.Subtotal(lines)-cheapest.Price))
	rec.Savings = &savings
	// The headline needs a figure even when the cart is already cheaper
	// than any combo; the reported savings stay at 0.
	shown := savings
	if shown <= 0 {
		shown = fallbackComboSavings
	}
	rec.Description = fmt.Sprintf("Upgrade to a combo and save $%.2f", shown)
	return rec
}

func recommendFamilyBundle(_ []cart.Line, catalog []menu.Item) Recommendation {
	for _, item := range catalog {
		if item.NameContains("family", "bundle", "feast") {
			return Recommendation{
				Title:       "Feeding a crowd?",
				Description: fmt.Sprintf("The %s feeds the whole table", item.Name),
				Type:        TypeBundle,
				Items:       []menu.Item{item},
				Action:      ActionAdd,
			}
		}
	}
	rec := Recommendation{
		Title:       "Build a family bundle",
		Description: "Pick our pitmaster favorites as a bundle",
		Type:        TypeBundle,
		Items:       menu.Filter(catalog, 3, func(i menu.Item) bool { return i.Featured }),
		Action:      ActionBuild,
	}
	if len(rec.Items) > 0 {
		savings := customBundleSavings
		rec.Savings = &savings
	}
	return rec
}

func recommendPremiumUpgrade(lines []cart.Line, catalog []menu.Item) Recommendation {
	rec := Recommendation{
		Title:       "Go premium",
		Description: "Swap in our slow-smoked brisket",
		Type:        TypeUpgrade,
		Items: menu.Filter(catalog, 2, func(i menu.Item) bool {
			return menu.IsMain(i.Category) && i.NameContains("premium", "brisket")
		}),
		Action: ActionReplace,
	}
	if target, ok := upgradeTarget(lines); ok {
		rec.TargetItemID = target.ID
		rec.Description = fmt.Sprintf("Swap your %s for our slow-smoked brisket", target.Name)
	}
	return rec
}

// upgradeTarget is the first main line that is not already premium.
func upgradeTarget(lines []cart.Line) (cart.Line, bool) {
	for _, l := range lines {
		if !menu.IsMain(l.Category) {
			continue
		}
		name := strings.ToLower(l.Name)
		if !strings.Contains(name, "premium") && !strings.Contains(name, "brisket") {
			return l, true
		}
	}
	return cart.Line{}, false
}

func hasGroup(lines []cart.Line, group string) bool {
	for _, l := range lines {
		if menu.Group(l.Category) == group {
			return true
		}
	}
	return false
}

func groupQuantity(lines []cart.Line, group string) int {
	var n int
	for _, l := range lines {
		if menu.Group(l.Category) == group {
			n += l.Quantity
		}
	}
	return n
}

// hasOutside reports whether any line belongs to none of the given groups.
func hasOutside(lines []cart.Line, groups ...string) bool {
	for _, l := range lines {
		g := menu.Group(l.Category)
		inside := false
		for _, excluded := range groups {
			if g == excluded {
				inside = true
				break
			}
		}
		if !inside {
			return true
		}
	}
	return false
}
