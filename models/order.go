package models

import (
	"encoding/json"
	"strings"
	"time"

	"bbq-storefront/cart"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderNumber     string         `gorm:"uniqueIndex;not null" json:"order_number"`
	SessionID       string         `gorm:"index" json:"-"`
	Status          OrderStatus    `gorm:"default:pending" json:"status"`
	OrderType       string         `gorm:"not null" json:"order_type"`
	CustomerName    string         `gorm:"not null" json:"customer_name"`
	CustomerEmail   string         `gorm:"not null" json:"customer_email"`
	CustomerPhone   string         `json:"customer_phone"`
	DeliveryAddress string         `json:"delivery_address,omitempty"`
	PickupTime      string         `json:"pickup_time,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Subtotal        float64        `gorm:"not null" json:"subtotal"`
	Tax             float64        `gorm:"not null" json:"tax"`
	DeliveryFee     float64        `gorm:"default:0" json:"delivery_fee"`
	Total           float64        `gorm:"not null" json:"total"`
	PaymentLast4    string         `json:"payment_last4"`
	TransactionID   string         `json:"transaction_id"`
	StockReserved   map[string]int `gorm:"serializer:json;type:text" json:"-"` // menu item id -> units taken at checkout
	Items           []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

type OrderItem struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID             uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	LineID              string    `json:"line_id"`
	MenuItemID          string    `gorm:"index" json:"menu_item_id,omitempty"` // empty for combos and plates
	Name                string    `json:"name"`                                // snapshot of the line name at time of order
	Kind                string    `json:"kind"`
	Category            string    `json:"category"`
	UnitPrice           float64   `gorm:"not null" json:"unit_price"`
	Quantity            int       `gorm:"not null" json:"quantity"`
	LineTotal           float64   `gorm:"not null" json:"line_total"`
	SpecialInstructions string    `json:"special_instructions,omitempty"`
	Details             string    `gorm:"type:text" json:"details"` // the cart line as JSON
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = "BBQ" + time.Now().Format("060102") + "-" + strings.ToUpper(o.ID.String()[:6])
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// NewOrderItem snapshots a cart line.
func NewOrderItem(l cart.Line) (OrderItem, error) {
	details, err := json.Marshal(l)
	if err != nil {
		return OrderItem{}, err
	}
	item := OrderItem{
		LineID:              l.ID,
		Name:                l.Name,
		Kind:                string(l.Kind()),
		Category:            l.Category,
		UnitPrice:           l.Price,
		Quantity:            l.Quantity,
		LineTotal:           l.LineTotal(),
		SpecialInstructions: l.SpecialInstructions,
		Details:             string(details),
	}
	if k := l.Kind(); k != cart.KindCombo && k != cart.KindPlate {
		item.MenuItemID = l.SourceID
	}
	return item, nil
}

// StockUsage counts the menu item units a cart consumes, including items
// picked inside combos, plates and customizations.
func StockUsage(lines []cart.Line) map[string]int {
	usage := map[string]int{}
	take := func(id string, n int) {
		if id != "" {
			usage[id] += n
		}
	}
	for _, l := range lines {
		switch l.Kind() {
		case cart.KindCombo:
			c, _ := l.Combo()
			for _, it := range c.Items {
				take(it.ItemID, l.Quantity)
			}
			continue
		case cart.KindPlate:
			p, _ := l.Plate()
			for _, m := range p.Meats {
				take(m.ID, l.Quantity)
			}
			for _, s := range p.Sides {
				take(s.ID, l.Quantity)
			}
			continue
		}
		take(l.SourceID, l.Quantity)
		if c, ok := l.Customization(); ok {
			if c.SecondMeat != nil {
				take(c.SecondMeat.ID, l.Quantity)
			}
			for _, s := range c.Sides {
				take(s.ID, l.Quantity)
			}
			if c.Dessert != nil {
				take(c.Dessert.ID, l.Quantity)
			}
			if c.Bundle != nil {
				take(c.Bundle.Side.ID, l.Quantity)
				take(c.Bundle.Drink.ID, l.Quantity)
			}
		}
	}
	return usage
}

// AllowedTransitions defines the valid order status state machine.
var AllowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// IsValidTransition checks if a status transition is allowed.
func IsValidTransition(from, to OrderStatus) bool {
	allowed, exists := AllowedTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
