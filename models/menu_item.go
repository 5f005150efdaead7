package models

import (
	"time"

	"bbq-storefront/menu"

	"gorm.io/gorm"
)

// MenuItem ids are stable slugs ("brisket-plate"); a plain cart line is
// keyed by them.
type MenuItem struct {
	ID             string          `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	Description    string          `json:"description"`
	Price          float64         `gorm:"not null" json:"price"`
	Category       string          `gorm:"not null;index" json:"category"`
	Tags           []string        `gorm:"serializer:json;type:text" json:"tags"`
	Stock          int             `gorm:"default:0" json:"stock"`
	Featured       bool            `gorm:"default:false" json:"featured"`
	Image          string          `json:"image"`
	SortOrder      int             `gorm:"default:0" json:"sort_order"`
	ModifierGroups []ModifierGroup `gorm:"foreignKey:MenuItemID" json:"modifier_groups,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ModifierGroup is one choice on an item, e.g. "Sauce" or "Size".
type ModifierGroup struct {
	ID         string           `gorm:"primaryKey" json:"id"`
	MenuItemID string           `gorm:"not null;index" json:"menu_item_id"`
	Name       string           `gorm:"not null" json:"name"`
	Required   bool             `gorm:"default:false" json:"required"`
	MaxSelect  int              `gorm:"default:1" json:"max_select"`
	SortOrder  int              `gorm:"default:0" json:"sort_order"`
	Options    []ModifierOption `gorm:"foreignKey:GroupID" json:"options"`
}

type ModifierOption struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	GroupID   string  `gorm:"not null;index" json:"group_id"`
	Name      string  `gorm:"not null" json:"name"`
	Price     float64 `gorm:"default:0" json:"price"`
	SortOrder int     `gorm:"default:0" json:"sort_order"`
}

func (m MenuItem) ToMenuItem() menu.Item {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return menu.Item{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		Tags:        tags,
		Stock:       m.Stock,
		Featured:    m.Featured,
		Image:       m.Image,
	}
}

// Catalog converts records to the pricing catalog, preserving order.
func Catalog(items []MenuItem) []menu.Item {
	out := make([]menu.Item, 0, len(items))
	for _, it := range items {
		out = append(out, it.ToMenuItem())
	}
	return out
}
