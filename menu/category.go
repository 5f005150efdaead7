package menu

import "strings"

// Catalog categories as stored on menu items.
const (
	CategoryPlates     = "plates"
	CategorySandwiches = "sandwiches"
	CategorySides      = "sides"
	CategoryDrinks     = "drinks"
	CategoryDesserts   = "desserts"
	CategoryCombos     = "combos"
	CategoryMeats      = "meats"
)

// Category groups. Several catalog categories collapse onto one group.
const (
	GroupMains    = "mains"
	GroupSides    = "sides"
	GroupDrinks   = "drinks"
	GroupDesserts = "desserts"
	GroupCombos   = "combos"
	GroupMeats    = "meats"
)

var synonyms = map[string]string{
	"plates":     GroupMains,
	"sandwiches": GroupMains,
	"mains":      GroupMains,
	"drinks":     GroupDrinks,
	"beverages":  GroupDrinks,
	"sides":      GroupSides,
	"desserts":   GroupDesserts,
	"combos":     GroupCombos,
	"meats":      GroupMeats,
}

// Group normalizes a category to its group. Unknown categories are
// returned lowercased.
func Group(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if g, ok := synonyms[c]; ok {
		return g
	}
	return c
}

func IsMain(category string) bool    { return Group(category) == GroupMains }
func IsSide(category string) bool    { return Group(category) == GroupSides }
func IsDrink(category string) bool   { return Group(category) == GroupDrinks }
func IsDessert(category string) bool { return Group(category) == GroupDesserts }
func IsCombo(category string) bool   { return Group(category) == GroupCombos }

var complements = map[string][]string{
	GroupMains:    {GroupSides, GroupDrinks},
	GroupSides:    {GroupMains},
	GroupDrinks:   {GroupSides, GroupDesserts},
	GroupDesserts: {GroupDrinks},
}

var defaultComplements = []string{GroupSides, GroupDrinks}

// Complements returns the groups that pair well with the given category,
// used for item-detail cross-sell.
func Complements(category string) []string {
	if c, ok := complements[Group(category)]; ok {
		return append([]string(nil), c...)
	}
	return append([]string(nil), defaultComplements...)
}
