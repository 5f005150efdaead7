package menu

import "strings"

// Item is a catalog entry as seen by the cart and the upsell engine.
// It is read-only to both; the catalog is sourced by the caller.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Stock       int      `json:"stock"`
	Featured    bool     `json:"featured"`
	Image       string   `json:"image,omitempty"`
}

func (i Item) Available() bool {
	return i.Stock > 0
}

func (i Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// NameContains reports whether the item name contains any of the given
// words, ignoring case.
func (i Item) NameContains(words ...string) bool {
	name := strings.ToLower(i.Name)
	for _, w := range words {
		if strings.Contains(name, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// Find returns the catalog item with the given id.
func Find(catalog []Item, id string) (Item, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Filter returns up to limit items matching keep, in catalog order.
// A limit <= 0 means no limit.
func Filter(catalog []Item, limit int, keep func(Item) bool) []Item {
	out := []Item{}
	for _, item := range catalog {
		if limit > 0 && len(out) >= limit {
			break
		}
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// InGroup returns up to limit catalog items whose category belongs to group.
func InGroup(catalog []Item, group string, limit int) []Item {
	return Filter(catalog, limit, func(i Item) bool {
		return Group(i.Category) == group
	})
}
