package models

import (
	"bbq-storefront/cart"
	"bbq-storefront/menu"
)

// ComboTemplate is a combo the shopper composes by picking one item per
// section.
type ComboTemplate struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Image       string         `json:"image"`
	Sections    []ComboSection `gorm:"foreignKey:TemplateID" json:"sections"`
}

// ComboSection accepts any item of Category. Items priced above
// IncludedPrice add the difference to the combo.
type ComboSection struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	TemplateID    string  `gorm:"not null;index" json:"template_id"`
	Name          string  `gorm:"not null" json:"name"`
	Category      string  `gorm:"not null" json:"category"`
	IncludedPrice float64 `gorm:"default:0" json:"included_price"`
	SortOrder     int     `gorm:"default:0" json:"sort_order"`
}

func (s ComboSection) Accepts(item menu.Item) bool {
	return menu.Group(item.Category) == menu.Group(s.Category)
}

// UnitPrice is the template price plus any upcharges for the picked items.
func (t ComboTemplate) UnitPrice(picks []cart.ComboItem) float64 {
	total := t.Price
	for _, p := range picks {
		for _, s := range t.Sections {
			if s.ID == p.SectionID && p.ItemPrice > s.IncludedPrice {
				total += p.ItemPrice - s.IncludedPrice
			}
		}
	}
	return cart.RoundCents(total)
}
