package checkout

import (
	"github.com/go-playground/validator/v10"
)

type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

// Details are the shopper's contact and fulfilment details.
type Details struct {
	Name       string    `json:"name" validate:"required,max=100"`
	Email      string    `json:"email" validate:"required,email"`
	Phone      string    `json:"phone" validate:"required,min=7,max=20"`
	OrderType  OrderType `json:"order_type" validate:"required,oneof=pickup delivery"`
	Address    string    `json:"address,omitempty" validate:"required_if=OrderType delivery,max=300"`
	PickupTime string    `json:"pickup_time,omitempty" validate:"max=40"`
	Notes      string    `json:"notes,omitempty" validate:"max=500"`
}

var validate = validator.New()

// Validate returns validator.ValidationErrors when a field is missing or
// malformed.
func (d Details) Validate() error {
	return validate.Struct(d)
}
