// Package cart holds a shopper's ordered cart lines and derives their prices
// and totals. The store performs no I/O and never fails: unknown ids are
// no-ops and catalog validation is left to the caller.
package cart

import (
	"math"

	"bbq-storefront/menu"
)

// Selection is what the shopper picked for a single menu item.
type Selection struct {
	Item                menu.Item
	Options             []Option
	SpecialInstructions string
	Custom              *Customization
}

// ComboOrder is the output of the combo builder. TotalPrice covers all
// Quantity combos.
type ComboOrder struct {
	TemplateID          string
	Name                string
	Items               []ComboItem
	TotalPrice          float64
	Quantity            int
	SpecialInstructions string
}

// PlateOrder is the output of the plate builder.
type PlateOrder struct {
	Size                menu.PlateSize
	Meats               []Addon
	Sides               []Addon
	Quantity            int
	SpecialInstructions string
}

// Store is the cart of a single shopping session. It is not safe for
// concurrent use; callers serialize access per session.
type Store struct {
	ids   IDSource
	lines []*Line
}

func NewStore(ids IDSource) *Store {
	if ids == nil {
		ids = UUIDSource{}
	}
	return &Store{ids: ids}
}

// AddItem adds a menu item to the cart and returns the resulting line.
//
// Customized items and items with options always get a new line with a
// freshly minted id. A bare item is merged into an existing bare line for
// the same menu item by bumping its quantity.
func (s *Store) AddItem(sel Selection) Line {
	item := sel.Item
	line := &Line{
		ID:                  item.ID,
		SourceID:            item.ID,
		Name:                item.Name,
		Category:            item.Category,
		BasePrice:           item.Price,
		Quantity:            1,
		Options:             append([]Option(nil), sel.Options...),
		SpecialInstructions: sel.SpecialInstructions,
	}

	switch {
	case !sel.Custom.IsEmpty():
		line.Payload = sel.Custom.clone()
		line.ID = s.ids.Next(item.ID)
	case len(sel.Options) > 0, sel.SpecialInstructions != "":
		line.ID = s.ids.Next(item.ID)
	default:
		if existing := s.mergeTarget(item.ID); existing != nil {
			existing.Quantity++
			return existing.clone()
		}
		// The bare id is taken by a line that was edited into a custom one.
		if s.find(item.ID) != nil {
			line.ID = s.ids.Next(item.ID)
		}
	}

	line.recompute()
	s.lines = append(s.lines, line)
	return line.clone()
}

func (s *Store) mergeTarget(id string) *Line {
	for _, l := range s.lines {
		if l.ID == id && l.Kind() == KindPlain && l.SpecialInstructions == "" {
			return l
		}
	}
	return nil
}

// AddCombo always appends a new line priced at TotalPrice / Quantity per unit.
// The unit price is rounded to cents, so callers should pass a TotalPrice
// that is a whole multiple of the unit price (10.00 over 3 becomes 3.33 each).
func (s *Store) AddCombo(combo ComboOrder) Line {
	qty := combo.Quantity
	if qty < 1 {
		qty = 1
	}
	line := &Line{
		ID:                  s.ids.Next("combo-" + combo.TemplateID),
		SourceID:            combo.TemplateID,
		Name:                combo.Name,
		Category:            menu.CategoryCombos,
		BasePrice:           combo.TotalPrice / float64(qty),
		Quantity:            qty,
		SpecialInstructions: combo.SpecialInstructions,
		Payload: &Combo{
			TemplateID: combo.TemplateID,
			Items:      append([]ComboItem(nil), combo.Items...),
		},
	}
	line.recompute()
	s.lines = append(s.lines, line)
	return line.clone()
}

// AddPlate always appends a new line for a build-your-own plate.
func (s *Store) AddPlate(plate PlateOrder) Line {
	qty := plate.Quantity
	if qty < 1 {
		qty = 1
	}
	line := &Line{
		ID:                  s.ids.Next("plate-" + plate.Size.ID),
		SourceID:            plate.Size.ID,
		Name:                plate.Size.Name,
		Category:            menu.CategoryPlates,
		BasePrice:           plate.Size.BasePrice,
		Quantity:            qty,
		SpecialInstructions: plate.SpecialInstructions,
		Payload: &Plate{
			Size:  plate.Size.ID,
			Meats: append([]Addon(nil), plate.Meats...),
			Sides: append([]Addon(nil), plate.Sides...),
		},
	}
	line.recompute()
	s.lines = append(s.lines, line)
	return line.clone()
}

// UpdateQuantity sets a line's quantity. A quantity <= 0 removes the line.
// It reports whether a line with that id existed.
func (s *Store) UpdateQuantity(id string, quantity int) bool {
	if quantity <= 0 {
		return s.RemoveItem(id)
	}
	l := s.find(id)
	if l == nil {
		return false
	}
	l.Quantity = quantity
	return true
}

// EditItem applies edits to a line in place and recomputes its price.
// If the edits leave the quantity at or below zero the line is removed.
func (s *Store) EditItem(id string, edits ...Edit) (Line, bool) {
	l := s.find(id)
	if l == nil {
		return Line{}, false
	}
	for _, edit := range edits {
		edit(l)
	}
	if l.Quantity <= 0 {
		s.RemoveItem(id)
		return Line{}, true
	}
	l.recompute()
	return l.clone(), true
}

func (s *Store) RemoveItem(id string) bool {
	for i, l := range s.lines {
		if l.ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart, typically once an order has been placed.
func (s *Store) Clear() {
	s.lines = nil
}

func (s *Store) find(id string) *Line {
	for _, l := range s.lines {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// Find returns a copy of the line with the given id.
func (s *Store) Find(id string) (Line, bool) {
	if l := s.find(id); l != nil {
		return l.clone(), true
	}
	return Line{}, false
}

// Items returns copies of the cart lines in insertion order.
func (s *Store) Items() []Line {
	out := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, l.clone())
	}
	return out
}

func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

func (s *Store) TotalItems() int {
	return TotalItems(s.Items())
}

func (s *Store) Subtotal() float64 {
	return Subtotal(s.Items())
}

// TotalItems is the sum of quantities across lines.
func TotalItems(lines []Line) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of price × quantity across lines.
func Subtotal(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return RoundCents(total)
}

// HasCombo reports whether any line is a combo, either built through the
// combo builder or added straight from the combos category.
func HasCombo(lines []Line) bool {
	for _, l := range lines {
		if l.Kind() == KindCombo || menu.IsCombo(l.Category) {
			return true
		}
	}
	return false
}

// RoundCents rounds a money amount to the nearest cent.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
