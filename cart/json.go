package cart

import "encoding/json"

// lineJSON is the wire shape the storefront frontend reads. The variant
// payload is flattened back into flags plus optional fields.
type lineJSON struct {
	ID                  string      `json:"id"`
	SourceID            string      `json:"source_id"`
	Kind                Kind        `json:"kind"`
	Name                string      `json:"name"`
	Category            string      `json:"category"`
	BasePrice           float64     `json:"base_price"`
	Price               float64     `json:"price"`
	Quantity            int         `json:"quantity"`
	LineTotal           float64     `json:"line_total"`
	Options             []Option    `json:"options"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	IsCombo             bool        `json:"isCombo"`
	ComboItems          []ComboItem `json:"combo_items,omitempty"`
	PlateSize           string      `json:"plateSize,omitempty"`
	Meats               []Addon     `json:"meats,omitempty"`
	IsMultiMeatPlate    bool        `json:"isMultiMeatPlate"`
	SecondMeat          *Addon      `json:"secondMeat,omitempty"`
	SelectedSides       []Addon     `json:"selectedSides,omitempty"`
	SelectedDessert     *Addon      `json:"selectedDessert,omitempty"`
	BundleAccepted      bool        `json:"bundleAccepted"`
	BundleItems         *Bundle     `json:"bundleItems,omitempty"`
}

func (l Line) MarshalJSON() ([]byte, error) {
	out := lineJSON{
		ID:                  l.ID,
		SourceID:            l.SourceID,
		Kind:                l.Kind(),
		Name:                l.Name,
		Category:            l.Category,
		BasePrice:           l.BasePrice,
		Price:               l.Price,
		Quantity:            l.Quantity,
		LineTotal:           l.LineTotal(),
		Options:             l.Options,
		SpecialInstructions: l.SpecialInstructions,
	}
	if out.Options == nil {
		out.Options = []Option{}
	}
	switch p := l.Payload.(type) {
	case *Combo:
		out.IsCombo = true
		out.ComboItems = p.Items
	case *Plate:
		out.PlateSize = p.Size
		out.Meats = p.Meats
		out.SelectedSides = p.Sides
		out.IsMultiMeatPlate = len(p.Meats) > 1
	case *Customization:
		out.IsMultiMeatPlate = p.MultiMeat
		out.SecondMeat = p.SecondMeat
		out.SelectedSides = p.Sides
		out.SelectedDessert = p.Dessert
		out.BundleAccepted = p.Bundle != nil
		out.BundleItems = p.Bundle
	}
	return json.Marshal(out)
}
